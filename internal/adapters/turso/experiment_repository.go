package turso

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/splitdeck/splitdeck/internal/domain"
	"github.com/splitdeck/splitdeck/internal/ports"
	"github.com/splitdeck/splitdeck/internal/util"
)

const experimentColumns = `id, owner_id, name, description, hypothesis, primary_kpi, secondary_kpis, targeting, status, go_live_at, created_at, updated_at`

type ExperimentRepository struct {
	db *sql.DB
}

func NewExperimentRepository(db *sql.DB) *ExperimentRepository {
	return &ExperimentRepository{db: db}
}

func (r *ExperimentRepository) Create(ctx context.Context, experiment *domain.Experiment, entry *domain.AuditEntry) error {
	secondaryKPIs, targeting, err := marshalConfig(experiment)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO experiments (`+experimentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		experiment.ID,
		experiment.OwnerID,
		experiment.Name,
		util.NullStringPtr(experiment.Description),
		util.NullStringPtr(experiment.Hypothesis),
		util.NullStringPtr(experiment.PrimaryKPI),
		secondaryKPIs,
		targeting,
		string(experiment.Status),
		util.NullTimePtr(experiment.GoLiveAt),
		experiment.CreatedAt.Format(time.RFC3339),
		experiment.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert experiment: %w", err)
	}

	if err := insertVariants(ctx, tx, experiment.ID, experiment.Variants); err != nil {
		return err
	}
	if err := insertAuditEntry(ctx, tx, entry); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *ExperimentRepository) GetByID(ctx context.Context, id string) (*domain.Experiment, error) {
	return withRetry(ctx, 2, func() (*domain.Experiment, error) {
		row := r.db.QueryRowContext(ctx, `
			SELECT `+experimentColumns+` FROM experiments WHERE id = ?`, id)

		experiment, err := experimentFromRow(row)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to get experiment: %w", err)
		}

		experiment.Variants, err = r.loadVariants(ctx, experiment.ID)
		if err != nil {
			return nil, err
		}
		return experiment, nil
	})
}

func (r *ExperimentRepository) List(ctx context.Context) ([]*domain.Experiment, error) {
	return r.list(ctx, `
		SELECT `+experimentColumns+` FROM experiments ORDER BY updated_at DESC`)
}

func (r *ExperimentRepository) ListLive(ctx context.Context) ([]*domain.Experiment, error) {
	return r.list(ctx, `
		SELECT `+experimentColumns+` FROM experiments
		WHERE status = 'LIVE' ORDER BY go_live_at DESC`)
}

func (r *ExperimentRepository) list(ctx context.Context, query string) ([]*domain.Experiment, error) {
	return withRetry(ctx, 2, func() ([]*domain.Experiment, error) {
		return r.listOnce(ctx, query)
	})
}

func (r *ExperimentRepository) listOnce(ctx context.Context, query string) ([]*domain.Experiment, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiments: %w", err)
	}
	defer rows.Close()

	var experiments []*domain.Experiment
	for rows.Next() {
		experiment, err := experimentFromRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan experiment: %w", err)
		}
		experiments = append(experiments, experiment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, experiment := range experiments {
		experiment.Variants, err = r.loadVariants(ctx, experiment.ID)
		if err != nil {
			return nil, err
		}
	}
	return experiments, nil
}

func (r *ExperimentRepository) Update(ctx context.Context, experiment *domain.Experiment, entry *domain.AuditEntry) error {
	secondaryKPIs, targeting, err := marshalConfig(experiment)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		UPDATE experiments
		SET name = ?, description = ?, hypothesis = ?, primary_kpi = ?,
		    secondary_kpis = ?, targeting = ?, updated_at = ?
		WHERE id = ?`,
		experiment.Name,
		util.NullStringPtr(experiment.Description),
		util.NullStringPtr(experiment.Hypothesis),
		util.NullStringPtr(experiment.PrimaryKPI),
		secondaryKPIs,
		targeting,
		experiment.UpdatedAt.Format(time.RFC3339),
		experiment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update experiment: %w", err)
	}

	// Variants are replaced wholesale on draft edits.
	if _, err := tx.ExecContext(ctx, `DELETE FROM variants WHERE experiment_id = ?`, experiment.ID); err != nil {
		return fmt.Errorf("failed to clear variants: %w", err)
	}
	if err := insertVariants(ctx, tx, experiment.ID, experiment.Variants); err != nil {
		return err
	}
	if err := insertAuditEntry(ctx, tx, entry); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *ExperimentRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM audit_logs WHERE experiment_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete audit entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM variants WHERE experiment_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete variants: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM experiments WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete experiment: %w", err)
	}

	return tx.Commit()
}

func (r *ExperimentRepository) ApplyTransition(ctx context.Context, params ports.ApplyTransitionParams) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var result sql.Result
	if params.GoLiveAt != nil {
		result, err = tx.ExecContext(ctx, `
			UPDATE experiments SET status = ?, go_live_at = ?, updated_at = ?
			WHERE id = ? AND status = ?`,
			string(params.To),
			params.GoLiveAt.Format(time.RFC3339),
			params.UpdatedAt.Format(time.RFC3339),
			params.ExperimentID,
			string(params.From),
		)
	} else {
		result, err = tx.ExecContext(ctx, `
			UPDATE experiments SET status = ?, updated_at = ?
			WHERE id = ? AND status = ?`,
			string(params.To),
			params.UpdatedAt.Format(time.RFC3339),
			params.ExperimentID,
			string(params.From),
		)
	}
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		// The stored status no longer matches: a concurrent transition
		// won, or the experiment disappeared.
		return domain.ErrStatusConflict
	}

	if err := insertAuditEntry(ctx, tx, params.Entry); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *ExperimentRepository) loadVariants(ctx context.Context, experimentID string) ([]domain.Variant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, experiment_id, name, description, traffic_percentage, is_control
		FROM variants WHERE experiment_id = ? ORDER BY position`, experimentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load variants: %w", err)
	}
	defer rows.Close()

	var variants []domain.Variant
	for rows.Next() {
		var v domain.Variant
		var description sql.NullString
		var isControl int64
		if err := rows.Scan(&v.ID, &v.ExperimentID, &v.Name, &description, &v.TrafficPercentage, &isControl); err != nil {
			return nil, fmt.Errorf("failed to scan variant: %w", err)
		}
		v.Description = util.NullStringToPtr(description)
		v.IsControl = isControl == 1
		variants = append(variants, v)
	}
	return variants, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func experimentFromRow(row rowScanner) (*domain.Experiment, error) {
	var (
		e             domain.Experiment
		description   sql.NullString
		hypothesis    sql.NullString
		primaryKPI    sql.NullString
		secondaryKPIs string
		targeting     string
		status        string
		goLiveAt      sql.NullString
		createdAt     string
		updatedAt     string
	)
	err := row.Scan(
		&e.ID, &e.OwnerID, &e.Name, &description, &hypothesis, &primaryKPI,
		&secondaryKPIs, &targeting, &status, &goLiveAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Description = util.NullStringToPtr(description)
	e.Hypothesis = util.NullStringToPtr(hypothesis)
	e.PrimaryKPI = util.NullStringToPtr(primaryKPI)
	e.Status = domain.Status(status)
	e.GoLiveAt = util.NullTimeToPtr(goLiveAt)
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	e.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	if err := json.Unmarshal([]byte(secondaryKPIs), &e.SecondaryKPIs); err != nil {
		return nil, fmt.Errorf("failed to decode secondary KPIs: %w", err)
	}
	if err := json.Unmarshal([]byte(targeting), &e.Targeting); err != nil {
		return nil, fmt.Errorf("failed to decode targeting rules: %w", err)
	}
	return &e, nil
}

func insertVariants(ctx context.Context, tx *sql.Tx, experimentID string, variants []domain.Variant) error {
	for i, v := range variants {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO variants (id, experiment_id, name, description, traffic_percentage, is_control, position)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			v.ID,
			experimentID,
			v.Name,
			util.NullStringPtr(v.Description),
			v.TrafficPercentage,
			util.BoolToInt64(v.IsControl),
			i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert variant: %w", err)
		}
	}
	return nil
}

func marshalConfig(experiment *domain.Experiment) (secondaryKPIs, targeting string, err error) {
	kpis := experiment.SecondaryKPIs
	if kpis == nil {
		kpis = []string{}
	}
	rawKPIs, err := json.Marshal(kpis)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode secondary KPIs: %w", err)
	}
	rawTargeting, err := json.Marshal(experiment.Targeting)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode targeting rules: %w", err)
	}
	return string(rawKPIs), string(rawTargeting), nil
}
