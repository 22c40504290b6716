package subcontractor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"nachweis/internal/profile"
	"nachweis/pkg/platform/sentinel"
	txcontext "nachweis/pkg/platform/tx"
)

// PostgresStore keeps the profile as JSONB: the tri-state answers are a
// document, not a relation, and the rule engine only ever reads them whole.
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

type profilePayload struct {
	CompanyType           profile.CompanyType `json:"company_type"`
	HasEmployees          profile.Answer      `json:"has_employees"`
	DoesConstructionWork  profile.Answer      `json:"does_construction_work"`
	SokaBauSubject        profile.Answer      `json:"soka_bau_subject"`
	SendsWorkersAbroad    profile.Answer      `json:"sends_workers_abroad"`
	ProcessesPersonalData profile.Answer      `json:"processes_personal_data"`
	HRRegistered          profile.Answer      `json:"hr_registered"`
	NonEUWorkers          profile.Answer      `json:"non_eu_workers"`
	WorkersOutsideGermany profile.Answer      `json:"workers_not_employed_in_germany"`
}

func encodeProfile(p profile.Profile) ([]byte, error) {
	return json.Marshal(profilePayload(p))
}

func decodeProfile(raw []byte) (profile.Profile, error) {
	var payload profilePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return profile.Profile{}, err
	}
	return profile.Profile(payload), nil
}

func (s *PostgresStore) Save(ctx context.Context, sub *Subcontractor) error {
	raw, err := encodeProfile(sub.Profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	_, err = s.execer(ctx).ExecContext(ctx, `
		INSERT INTO subcontractors (id, name, profile, active, created_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			profile = EXCLUDED.profile,
			active = EXCLUDED.active
	`, sub.ID, sub.Name, raw, sub.Active, sub.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert subcontractor: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, id uuid.UUID) (*Subcontractor, error) {
	row := s.execer(ctx).QueryRowContext(ctx, `
		SELECT id, name, profile, active, created_at
		FROM subcontractors WHERE id = $1
	`, id)
	return scanSubcontractor(row)
}

func (s *PostgresStore) List(ctx context.Context) ([]*Subcontractor, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT id, name, profile, active, created_at
		FROM subcontractors ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("list subcontractors: %w", err)
	}
	defer rows.Close()

	var out []*Subcontractor
	for rows.Next() {
		sub, err := scanSubcontractor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM subcontractors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subcontractor: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete subcontractor: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubcontractor(row rowScanner) (*Subcontractor, error) {
	var sub Subcontractor
	var raw []byte
	err := row.Scan(&sub.ID, &sub.Name, &raw, &sub.Active, &sub.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan subcontractor: %w", err)
	}
	sub.Profile, err = decodeProfile(raw)
	if err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &sub, nil
}
