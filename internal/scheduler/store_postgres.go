package scheduler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"nachweis/internal/catalog"
	"nachweis/pkg/platform/sentinel"
	txcontext "nachweis/pkg/platform/tx"
)

// PostgresStore persists reminder jobs. Claim and Release are conditional
// UPDATEs: a claim only lands while the row is still due with a matching
// attempts counter, and a release only lands while the row is still sent.
// That pair is the optimistic-concurrency guard against overlapping ticks
// and against retires racing an in-flight send.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const jobColumns = `
	id, requirement_id, subcontractor_id, document_type, state,
	next_run_at, attempts, max_attempts, escalated, created_at, updated_at`

func (s *PostgresStore) Save(ctx context.Context, j *Job) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO reminder_jobs (
			id, requirement_id, subcontractor_id, document_type, state,
			next_run_at, attempts, max_attempts, escalated, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (id) DO UPDATE SET
			state = EXCLUDED.state,
			next_run_at = EXCLUDED.next_run_at,
			attempts = EXCLUDED.attempts,
			max_attempts = EXCLUDED.max_attempts,
			escalated = EXCLUDED.escalated,
			updated_at = EXCLUDED.updated_at
	`,
		j.ID, j.RequirementID, j.SubcontractorID, string(j.TypeID), j.State.String(),
		j.NextRunAt, j.Attempts, j.MaxAttempts, j.Escalated, j.CreatedAt, j.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert reminder job: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, id uuid.UUID) (*Job, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT`+jobColumns+` FROM reminder_jobs WHERE id = $1`, id)
	return scanJob(row)
}

func (s *PostgresStore) FindActiveByRequirement(ctx context.Context, requirementID uuid.UUID) (*Job, error) {
	row := s.execer(ctx).QueryRowContext(ctx, `
		SELECT`+jobColumns+`
		FROM reminder_jobs
		WHERE requirement_id = $1 AND state <> 'done'
		LIMIT 1
	`, requirementID)
	return scanJob(row)
}

func (s *PostgresStore) ListDue(ctx context.Context, now time.Time, limit int) ([]*Job, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT`+jobColumns+`
		FROM reminder_jobs
		WHERE state IN ('scheduled', 'sent') AND next_run_at <= $1
		ORDER BY next_run_at
		LIMIT $2
	`, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list due jobs: %w", err)
	}
	defer rows.Close()

	var out []*Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Claim(ctx context.Context, id uuid.UUID, expectedAttempts int, now time.Time) (*Job, error) {
	res, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE reminder_jobs
		SET state = 'sent', next_run_at = $3, updated_at = $4
		WHERE id = $1 AND state IN ('scheduled', 'sent')
			AND attempts = $2 AND next_run_at <= $4
	`, id, expectedAttempts, now.Add(claimLease), now)
	if err != nil {
		return nil, fmt.Errorf("claim reminder job: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("claim reminder job: %w", err)
	}
	if affected == 0 {
		return nil, sentinel.ErrConflict
	}
	return s.Find(ctx, id)
}

func (s *PostgresStore) Release(ctx context.Context, j *Job) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE reminder_jobs
		SET state = $2, next_run_at = $3, attempts = $4, escalated = $5, updated_at = $6
		WHERE id = $1 AND state = 'sent'
	`, j.ID, j.State.String(), j.NextRunAt, j.Attempts, j.Escalated, j.UpdatedAt)
	if err != nil {
		return fmt.Errorf("release reminder job: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("release reminder job: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *PostgresStore) RetireByRequirement(ctx context.Context, requirementID uuid.UUID) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE reminder_jobs
		SET state = 'done', updated_at = now()
		WHERE requirement_id = $1 AND state <> 'done'
	`, requirementID)
	if err != nil {
		return fmt.Errorf("retire reminder job: %w", err)
	}
	return nil
}

func (s *PostgresStore) RetireBySubcontractor(ctx context.Context, subID uuid.UUID) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE reminder_jobs
		SET state = 'done', updated_at = now()
		WHERE subcontractor_id = $1 AND state <> 'done'
	`, subID)
	if err != nil {
		return fmt.Errorf("retire reminder jobs: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*Job, error) {
	var j Job
	var typeID, state string
	err := row.Scan(
		&j.ID, &j.RequirementID, &j.SubcontractorID, &typeID, &state,
		&j.NextRunAt, &j.Attempts, &j.MaxAttempts, &j.Escalated,
		&j.CreatedAt, &j.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan reminder job: %w", err)
	}
	j.TypeID = catalog.TypeID(typeID)
	j.State = ParseState(state)
	return &j, nil
}
