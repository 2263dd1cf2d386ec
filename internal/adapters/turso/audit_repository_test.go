package turso_test

import (
	"context"
	"testing"
	"time"

	"github.com/splitdeck/splitdeck/internal/adapters/turso"
	"github.com/splitdeck/splitdeck/internal/domain"
)

func TestAuditLogRepository_AppendAndList(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	seedUser(t, db, "owner-1")

	experiments := turso.NewExperimentRepository(db)
	exp := draftExperiment("owner-1")
	if err := experiments.Create(ctx, exp, createdEntry(exp.ID, "owner-1")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	repo := turso.NewAuditLogRepository(db)

	base := time.Now().UTC().Truncate(time.Second)
	err := repo.Append(ctx, &domain.AuditEntry{
		ID:           "audit-upd",
		ExperimentID: "exp-1",
		ActorID:      "owner-1",
		Action:       domain.ActionUpdated,
		Changes: domain.ChangeSet{
			"name": {From: "homepage hero test", To: "homepage hero test v2"},
		},
		CreatedAt: base.Add(time.Minute),
	})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	entries, err := repo.ListByExperimentID(ctx, "exp-1")
	if err != nil {
		t.Fatalf("ListByExperimentID failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	// Newest first.
	if entries[0].Action != domain.ActionUpdated {
		t.Errorf("entries[0].Action = %s, want updated", entries[0].Action)
	}
	change, ok := entries[0].Changes["name"]
	if !ok {
		t.Fatalf("expected a name change, got %v", entries[0].Changes)
	}
	if change.From != "homepage hero test" || change.To != "homepage hero test v2" {
		t.Errorf("change = {%v %v}", change.From, change.To)
	}

	count, err := repo.CountByExperimentID(ctx, "exp-1")
	if err != nil {
		t.Fatalf("CountByExperimentID failed: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestUserRepository(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	repo := turso.NewUserRepository(db)
	err := repo.Create(ctx, &domain.User{
		ID:        "user-1",
		Email:     "ana@example.com",
		Name:      "Ana",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	byID, err := repo.GetByID(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if byID == nil || byID.Email != "ana@example.com" {
		t.Errorf("GetByID = %+v", byID)
	}

	byEmail, err := repo.GetByEmail(ctx, "ana@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if byEmail == nil || byEmail.ID != "user-1" {
		t.Errorf("GetByEmail = %+v", byEmail)
	}

	missing, err := repo.GetByID(ctx, "nobody")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing user, got %+v", missing)
	}
}
