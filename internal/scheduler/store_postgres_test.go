package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nachweis/pkg/platform/sentinel"
)

func newSQLMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresStore(db), mock
}

func jobRows(j *Job) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "requirement_id", "subcontractor_id", "document_type", "state",
		"next_run_at", "attempts", "max_attempts", "escalated", "created_at", "updated_at",
	}).AddRow(
		j.ID, j.RequirementID, j.SubcontractorID, string(j.TypeID), j.State.String(),
		j.NextRunAt, j.Attempts, j.MaxAttempts, j.Escalated, j.CreatedAt, j.UpdatedAt,
	)
}

func testJob() *Job {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	return &Job{
		ID:              uuid.New(),
		RequirementID:   uuid.New(),
		SubcontractorID: uuid.New(),
		TypeID:          "soka-bau",
		State:           StateScheduled,
		NextRunAt:       now,
		Attempts:        1,
		MaxAttempts:     3,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestPostgresStoreClaim(t *testing.T) {
	ctx := context.Background()

	t.Run("leases the row when it is due and attempts match", func(t *testing.T) {
		store, mock := newSQLMock(t)
		j := testJob()
		now := j.NextRunAt.Add(time.Minute)

		mock.ExpectExec(`UPDATE reminder_jobs\s+SET state = 'sent', next_run_at = \$3`).
			WithArgs(j.ID, j.Attempts, now.Add(claimLease), now).
			WillReturnResult(sqlmock.NewResult(0, 1))
		claimed := *j
		claimed.State = StateSent
		claimed.NextRunAt = now.Add(claimLease)
		mock.ExpectQuery(`SELECT .* FROM reminder_jobs WHERE id = \$1`).
			WithArgs(j.ID).
			WillReturnRows(jobRows(&claimed))

		got, err := store.Claim(ctx, j.ID, j.Attempts, now)
		require.NoError(t, err)
		assert.Equal(t, StateSent, got.State)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("a stale attempts value loses the race", func(t *testing.T) {
		store, mock := newSQLMock(t)
		j := testJob()
		now := j.NextRunAt.Add(time.Minute)

		mock.ExpectExec(`UPDATE reminder_jobs`).
			WithArgs(j.ID, 0, now.Add(claimLease), now).
			WillReturnResult(sqlmock.NewResult(0, 0))

		_, err := store.Claim(ctx, j.ID, 0, now)
		assert.ErrorIs(t, err, sentinel.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStoreRelease(t *testing.T) {
	ctx := context.Background()

	t.Run("writes back while the row is still sent", func(t *testing.T) {
		store, mock := newSQLMock(t)
		j := testJob()
		j.Attempts = 2

		mock.ExpectExec(`UPDATE reminder_jobs\s+SET state = \$2, next_run_at = \$3, attempts = \$4, escalated = \$5, updated_at = \$6\s+WHERE id = \$1 AND state = 'sent'`).
			WithArgs(j.ID, "scheduled", j.NextRunAt, 2, false, j.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, store.Release(ctx, j))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("a retired row refuses the write-back", func(t *testing.T) {
		store, mock := newSQLMock(t)
		j := testJob()

		mock.ExpectExec(`UPDATE reminder_jobs`).
			WithArgs(j.ID, "scheduled", j.NextRunAt, j.Attempts, false, j.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := store.Release(ctx, j)
		assert.ErrorIs(t, err, sentinel.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStoreSaveUpserts(t *testing.T) {
	store, mock := newSQLMock(t)
	j := testJob()

	mock.ExpectExec(`INSERT INTO reminder_jobs`).
		WithArgs(
			j.ID, j.RequirementID, j.SubcontractorID, string(j.TypeID), "scheduled",
			j.NextRunAt, j.Attempts, j.MaxAttempts, j.Escalated, j.CreatedAt, j.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Save(context.Background(), j))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreListDue(t *testing.T) {
	store, mock := newSQLMock(t)
	j := testJob()
	now := j.NextRunAt.Add(time.Hour)

	mock.ExpectQuery(`SELECT .* FROM reminder_jobs\s+WHERE state IN \('scheduled', 'sent'\) AND next_run_at <= \$1`).
		WithArgs(now, 50).
		WillReturnRows(jobRows(j))

	due, err := store.ListDue(context.Background(), now, 50)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, j.ID, due[0].ID)
	assert.Equal(t, StateScheduled, due[0].State)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreFindNotFound(t *testing.T) {
	store, mock := newSQLMock(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM reminder_jobs WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.Find(context.Background(), id)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestPostgresStoreRetireBySubcontractor(t *testing.T) {
	store, mock := newSQLMock(t)
	subID := uuid.New()

	mock.ExpectExec(`UPDATE reminder_jobs\s+SET state = 'done'`).
		WithArgs(subID).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, store.RetireBySubcontractor(context.Background(), subID))
	assert.NoError(t, mock.ExpectationsWereMet())
}
