package turso

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/splitdeck/splitdeck/internal/domain"
)

type AuditLogRepository struct {
	db *sql.DB
}

func NewAuditLogRepository(db *sql.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

func (r *AuditLogRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	changes, err := json.Marshal(entry.Changes)
	if err != nil {
		return fmt.Errorf("failed to encode audit changes: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, experiment_id, actor_id, action, changes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.ExperimentID,
		entry.ActorID,
		string(entry.Action),
		string(changes),
		entry.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

func (r *AuditLogRepository) ListByExperimentID(ctx context.Context, experimentID string) ([]*domain.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, experiment_id, actor_id, action, changes, created_at
		FROM audit_logs WHERE experiment_id = ?
		ORDER BY created_at DESC, id`, experimentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.AuditEntry
	for rows.Next() {
		var (
			entry     domain.AuditEntry
			action    string
			changes   string
			createdAt string
		)
		if err := rows.Scan(&entry.ID, &entry.ExperimentID, &entry.ActorID, &action, &changes, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entry.Action = domain.AuditAction(action)
		entry.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		if err := json.Unmarshal([]byte(changes), &entry.Changes); err != nil {
			return nil, fmt.Errorf("failed to decode audit changes: %w", err)
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

func (r *AuditLogRepository) CountByExperimentID(ctx context.Context, experimentID string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM audit_logs WHERE experiment_id = ?`, experimentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count audit entries: %w", err)
	}
	return count, nil
}

// insertAuditEntry appends an audit entry inside an open transaction so
// state changes and their audit record land atomically.
func insertAuditEntry(ctx context.Context, tx *sql.Tx, entry *domain.AuditEntry) error {
	changes, err := json.Marshal(entry.Changes)
	if err != nil {
		return fmt.Errorf("failed to encode audit changes: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO audit_logs (id, experiment_id, actor_id, action, changes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.ExperimentID,
		entry.ActorID,
		string(entry.Action),
		string(changes),
		entry.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}
