package requirement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"nachweis/internal/catalog"
	"nachweis/pkg/platform/sentinel"
	txcontext "nachweis/pkg/platform/tx"
)

// PostgresStore persists requirements and their history rows. History is
// insert-only: Save writes new entries and never updates or deletes old
// ones, which keeps the audit trail append-only at the storage level too.
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

func (s *PostgresStore) Save(ctx context.Context, r *Requirement) error {
	ex := s.execer(ctx)

	_, err := ex.ExecContext(ctx, `
		INSERT INTO requirements (
			id, subcontractor_id, assignment_id, document_type, level, status,
			due_date, valid_to, validity_source, rejection_reason, artifact_ref,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (id) DO UPDATE SET
			level = EXCLUDED.level,
			status = EXCLUDED.status,
			due_date = EXCLUDED.due_date,
			valid_to = EXCLUDED.valid_to,
			validity_source = EXCLUDED.validity_source,
			rejection_reason = EXCLUDED.rejection_reason,
			artifact_ref = EXCLUDED.artifact_ref,
			updated_at = EXCLUDED.updated_at
	`,
		r.ID, r.SubcontractorID, r.AssignmentID, string(r.TypeID),
		r.Level.String(), r.Status.String(),
		r.DueDate, r.ValidUntil, r.ValiditySource.String(),
		nullString(r.RejectionReason), nullString(r.ArtifactRef),
		r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert requirement: %w", err)
	}

	for _, e := range r.History {
		_, err := ex.ExecContext(ctx, `
			INSERT INTO requirement_history (id, requirement_id, occurred_at, action, actor, note)
			VALUES ($1,$2,$3,$4,$5,$6)
			ON CONFLICT (id) DO NOTHING
		`, e.ID, r.ID, e.At, string(e.Action), e.Actor, nullString(e.Note))
		if err != nil {
			return fmt.Errorf("insert history entry: %w", err)
		}
	}
	return nil
}

const requirementColumns = `
	id, subcontractor_id, assignment_id, document_type, level, status,
	due_date, valid_to, validity_source, rejection_reason, artifact_ref,
	created_at, updated_at`

func (s *PostgresStore) Find(ctx context.Context, id uuid.UUID) (*Requirement, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT`+requirementColumns+` FROM requirements WHERE id = $1`, id)
	r, err := scanRequirement(row)
	if err != nil {
		return nil, err
	}
	if err := s.loadHistory(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *PostgresStore) FindByType(ctx context.Context, subID uuid.UUID, typeID catalog.TypeID, assignmentID *uuid.UUID) (*Requirement, error) {
	row := s.execer(ctx).QueryRowContext(ctx, `
		SELECT`+requirementColumns+`
		FROM requirements
		WHERE subcontractor_id = $1 AND document_type = $2
		  AND assignment_id IS NOT DISTINCT FROM $3
	`, subID, string(typeID), assignmentID)
	r, err := scanRequirement(row)
	if err != nil {
		return nil, err
	}
	if err := s.loadHistory(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *PostgresStore) ListBySubcontractor(ctx context.Context, subID uuid.UUID) ([]*Requirement, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT`+requirementColumns+`
		FROM requirements
		WHERE subcontractor_id = $1
		ORDER BY document_type
	`, subID)
	if err != nil {
		return nil, fmt.Errorf("list requirements: %w", err)
	}
	defer rows.Close()

	var out []*Requirement
	for rows.Next() {
		r, err := scanRequirement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list requirements: %w", err)
	}
	for _, r := range out {
		if err := s.loadHistory(ctx, r); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *PostgresStore) DeleteBySubcontractor(ctx context.Context, subID uuid.UUID) error {
	_, err := s.execer(ctx).ExecContext(ctx,
		`DELETE FROM requirements WHERE subcontractor_id = $1`, subID)
	if err != nil {
		return fmt.Errorf("delete requirements: %w", err)
	}
	return nil
}

func (s *PostgresStore) loadHistory(ctx context.Context, r *Requirement) error {
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT id, occurred_at, action, actor, note
		FROM requirement_history
		WHERE requirement_id = $1
		ORDER BY id
	`, r.ID)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e Entry
		var action string
		var note sql.NullString
		if err := rows.Scan(&e.ID, &e.At, &action, &e.Actor, &note); err != nil {
			return fmt.Errorf("scan history entry: %w", err)
		}
		e.Action = Action(action)
		e.Note = note.String
		r.History = append(r.History, e)
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequirement(row rowScanner) (*Requirement, error) {
	var r Requirement
	var typeID, level, status, validitySource string
	var assignmentID uuid.NullUUID
	var dueDate, validTo sql.NullTime
	var rejectionReason, artifactRef sql.NullString

	err := row.Scan(
		&r.ID, &r.SubcontractorID, &assignmentID, &typeID, &level, &status,
		&dueDate, &validTo, &validitySource, &rejectionReason, &artifactRef,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan requirement: %w", err)
	}

	r.TypeID = catalog.TypeID(typeID)
	r.Level = parseLevel(level)
	if st, ok := ParseStatus(status); ok {
		r.Status = st
	}
	r.ValiditySource = ParseValiditySource(validitySource)
	if assignmentID.Valid {
		id := assignmentID.UUID
		r.AssignmentID = &id
	}
	if dueDate.Valid {
		d := dueDate.Time
		r.DueDate = &d
	}
	if validTo.Valid {
		v := validTo.Time
		r.ValidUntil = &v
	}
	r.RejectionReason = rejectionReason.String
	r.ArtifactRef = artifactRef.String
	return &r, nil
}

func parseLevel(s string) catalog.RequirementLevel {
	switch s {
	case "required":
		return catalog.LevelRequired
	case "optional":
		return catalog.LevelOptional
	default:
		return catalog.LevelHidden
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
