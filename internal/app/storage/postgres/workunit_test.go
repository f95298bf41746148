package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendorpay/internal/app/apperr"
	"vendorpay/internal/app/model"
)

func newWorkUnitRepo(t *testing.T) (*WorkUnitRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo, err := NewWorkUnitRepository(db)
	require.NoError(t, err)
	return repo, mock
}

func workUnitRows(id uuid.UUID, vendorID uuid.NullUUID, vendorStatus model.VendorStatus, completion []byte) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "kind", "status", "payment_status", "vendor_status",
		"assigned_vendor", "assigned_at", "assigned_by", "response_deadline", "accepted_at",
		"decline_reason", "cancel_reason", "completion", "created_at", "updated_at",
	}).AddRow(
		id, "ticket", "submitted", "none", string(vendorStatus),
		vendorID, sql.NullTime{}, sql.NullString{}, sql.NullTime{}, sql.NullTime{},
		"", "", completion, now, now,
	)
}

func TestWorkUnitCreate_RejectsUnknownKind(t *testing.T) {
	repo, _ := newWorkUnitRepo(t)

	_, err := repo.Create(context.Background(), &model.WorkUnit{Kind: model.WorkUnitKind("errand")})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestWorkUnitCreate_DefaultsApplied(t *testing.T) {
	repo, mock := newWorkUnitRepo(t)

	mock.ExpectExec("INSERT INTO work_units").
		WillReturnResult(sqlmock.NewResult(0, 1))

	m, err := repo.Create(context.Background(), &model.WorkUnit{Kind: model.WorkUnitTicket})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, m.ID)
	assert.Equal(t, model.StatusSubmitted, m.Status)
	assert.Equal(t, model.PaymentStatusNone, m.PaymentStatus)
	assert.Equal(t, model.VendorStatusUnassigned, m.VendorStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkUnitRead_DecodesCompletion(t *testing.T) {
	repo, mock := newWorkUnitRepo(t)

	id := uuid.New()
	vendorID := uuid.New()
	completion := []byte(`{"resolution":"replaced part","billing_amount":"1000","payment_method":"cash"}`)

	mock.ExpectQuery("FROM work_units WHERE id").
		WithArgs(id).
		WillReturnRows(workUnitRows(id, uuid.NullUUID{UUID: vendorID, Valid: true}, model.VendorStatusCompleted, completion))

	m, err := repo.Read(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, m.Completion)
	assert.Equal(t, "replaced part", m.Completion.Resolution)
	assert.Equal(t, model.PaymentMethodCash, m.Completion.PaymentMethod)
	require.NotNil(t, m.AssignedVendor)
	assert.Equal(t, vendorID, *m.AssignedVendor)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkUnitRead_NotFound(t *testing.T) {
	repo, mock := newWorkUnitRepo(t)

	id := uuid.New()
	mock.ExpectQuery("FROM work_units WHERE id").
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Read(context.Background(), id)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkUnitUpdateAssignment_WinsRace(t *testing.T) {
	repo, mock := newWorkUnitRepo(t)

	m := &model.WorkUnit{
		ID:           uuid.New(),
		Status:       model.StatusAwaitingAssignment,
		VendorStatus: model.VendorStatusPending,
	}

	mock.ExpectExec("UPDATE work_units SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.UpdateAssignment(context.Background(), m, model.VendorStatusUnassigned)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkUnitUpdateAssignment_LosesRace(t *testing.T) {
	repo, mock := newWorkUnitRepo(t)

	m := &model.WorkUnit{
		ID:           uuid.New(),
		VendorStatus: model.VendorStatusUnassigned,
	}

	mock.ExpectExec("UPDATE work_units SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.UpdateAssignment(context.Background(), m, model.VendorStatusPending)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkUnitAppendHistory(t *testing.T) {
	repo, mock := newWorkUnitRepo(t)

	rec := &model.AssignmentRecord{
		UnitID:          uuid.New(),
		VendorID:        uuid.New(),
		AssignedBy:      "dispatcher",
		AssignedAt:      time.Now(),
		ResultingStatus: model.VendorStatusPending,
	}

	mock.ExpectQuery("INSERT INTO work_unit_history").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	err := repo.AppendHistory(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, int64(7), rec.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkUnitDueForAutoReject_FiltersOnDeadline(t *testing.T) {
	repo, mock := newWorkUnitRepo(t)

	now := time.Now()
	id := uuid.New()
	vendorID := uuid.New()

	mock.ExpectQuery("FROM work_units").
		WithArgs(string(model.VendorStatusPending), now).
		WillReturnRows(workUnitRows(id, uuid.NullUUID{UUID: vendorID, Valid: true}, model.VendorStatusPending, nil))

	res, err := repo.DueForAutoReject(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, id, res[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
