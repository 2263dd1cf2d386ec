package turso_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/splitdeck/splitdeck/internal/adapters/turso"
	"github.com/splitdeck/splitdeck/internal/domain"
	"github.com/splitdeck/splitdeck/internal/migrate"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("libsql", "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	ctx := context.Background()
	if err := migrate.RunAll(ctx, db); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedUser(t *testing.T, db *sql.DB, id string) {
	t.Helper()

	repo := turso.NewUserRepository(db)
	err := repo.Create(context.Background(), &domain.User{
		ID:        id,
		Email:     id + "@example.com",
		Name:      "Test Owner",
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("failed to seed user %s: %v", id, err)
	}
}

func testStrPtr(s string) *string { return &s }

func draftExperiment(ownerID string) *domain.Experiment {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Experiment{
		ID:            "exp-1",
		OwnerID:       ownerID,
		Name:          "homepage hero test",
		Description:   testStrPtr("tests a new hero image"),
		Hypothesis:    testStrPtr("a product shot converts better"),
		PrimaryKPI:    testStrPtr("conversion_rate"),
		SecondaryKPIs: []string{"bounce_rate"},
		Targeting: domain.TargetingRules{
			Device:  []string{"mobile", "desktop"},
			Country: []string{"IT"},
		},
		Status:    domain.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
		Variants: []domain.Variant{
			{ID: "v1", ExperimentID: "exp-1", Name: "control", TrafficPercentage: 50, IsControl: true},
			{ID: "v2", ExperimentID: "exp-1", Name: "product shot", TrafficPercentage: 50},
		},
	}
}

func createdEntry(experimentID, actorID string) *domain.AuditEntry {
	return &domain.AuditEntry{
		ID:           "audit-" + experimentID,
		ExperimentID: experimentID,
		ActorID:      actorID,
		Action:       domain.ActionCreated,
		Changes:      domain.ChangeSet{},
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
}
