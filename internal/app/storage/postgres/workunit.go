package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	pg "github.com/lib/pq"

	"vendorpay/internal/app/apperr"
	"vendorpay/internal/app/logger"
	"vendorpay/internal/app/model"
	"vendorpay/internal/app/storage"
)

// storage.WorkUnitRepository interface implementation
var _ storage.WorkUnitRepository = (*WorkUnitRepository)(nil)

type WorkUnitRepository struct {
	db *sql.DB
}

func (r *WorkUnitRepository) LoggerComponent() string {
	return "WorkUnitRepository"
}

func NewWorkUnitRepository(db *sql.DB) (*WorkUnitRepository, error) {
	s := &WorkUnitRepository{
		db: db,
	}
	return s, nil
}

const sqlWorkUnitColumns = `
		id, kind, status, payment_status, vendor_status,
		assigned_vendor, assigned_at, assigned_by, response_deadline, accepted_at,
		decline_reason, cancel_reason, completion, created_at, updated_at
`

func scanWorkUnit(row interface{ Scan(...interface{}) error }) (*model.WorkUnit, error) {
	m := &model.WorkUnit{}
	var (
		vendor     uuid.NullUUID
		assignedAt sql.NullTime
		deadline   sql.NullTime
		acceptedAt sql.NullTime
		assignedBy sql.NullString
		completion []byte
	)

	err := row.Scan(
		&m.ID, &m.Kind, &m.Status, &m.PaymentStatus, &m.VendorStatus,
		&vendor, &assignedAt, &assignedBy, &deadline, &acceptedAt,
		&m.DeclineReason, &m.CancelReason, &completion, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("scan: %w", err)
	}

	if vendor.Valid {
		id := vendor.UUID
		m.AssignedVendor = &id
	}
	if assignedAt.Valid {
		t := assignedAt.Time
		m.AssignedAt = &t
	}
	if deadline.Valid {
		t := deadline.Time
		m.ResponseDeadline = &t
	}
	if acceptedAt.Valid {
		t := acceptedAt.Time
		m.AcceptedAt = &t
	}
	m.AssignedBy = assignedBy.String
	if len(completion) > 0 {
		c := &model.Completion{}
		if err := json.Unmarshal(completion, c); err != nil {
			return nil, fmt.Errorf("completion decode: %w", err)
		}
		m.Completion = c
	}
	return m, nil
}

// Create implementation of interface storage.WorkUnitRepository
func (r *WorkUnitRepository) Create(ctx context.Context, m *model.WorkUnit) (*model.WorkUnit, error) {
	if m.Kind != model.WorkUnitTicket && m.Kind != model.WorkUnitBooking {
		return nil, apperr.ErrInvalidInput
	}

	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Status == "" {
		m.Status = model.StatusSubmitted
	}
	if m.PaymentStatus == "" {
		m.PaymentStatus = model.PaymentStatusNone
	}
	m.VendorStatus = model.VendorStatusUnassigned
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt

	const SQL = `
		INSERT INTO work_units (id, kind, status, payment_status, vendor_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	_, err := r.db.ExecContext(ctx, SQL,
		m.ID, string(m.Kind), string(m.Status), string(m.PaymentStatus), string(m.VendorStatus),
		m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if pgErr, ok := err.(*pg.Error); ok && pgerrcode.IsIntegrityConstraintViolation(string(pgErr.Code)) {
			return nil, apperr.ErrConflict
		}
		return nil, fmt.Errorf("insert: %w", err)
	}

	return m, nil
}

// Read implementation of interface storage.WorkUnitRepository
func (r *WorkUnitRepository) Read(ctx context.Context, id uuid.UUID) (*model.WorkUnit, error) {
	const SQL = `SELECT` + sqlWorkUnitColumns + `FROM work_units WHERE id=$1`
	return scanWorkUnit(r.db.QueryRowContext(ctx, SQL, id))
}

// UpdateAssignment implementation of interface storage.WorkUnitRepository.
//
// The WHERE clause compares the stored vendor status against the one the
// caller read, so two concurrent transitions on the same unit cannot both
// win.
func (r *WorkUnitRepository) UpdateAssignment(ctx context.Context, m *model.WorkUnit, from model.VendorStatus) (bool, error) {
	l := logger.Ctx(ctx).With().
		Str("method", "UpdateAssignment").
		Str("unit_id", m.ID.String()).
		Str("from", string(from)).
		Str("to", string(m.VendorStatus)).
		Logger()
	l.Debug().Msg("Updating assignment")

	var completion interface{}
	if m.Completion != nil {
		b, err := json.Marshal(m.Completion)
		if err != nil {
			return false, fmt.Errorf("completion encode: %w", err)
		}
		completion = b
	}

	m.UpdatedAt = time.Now()

	const SQL = `
		UPDATE work_units SET
			status=$1, payment_status=$2, vendor_status=$3,
			assigned_vendor=$4, assigned_at=$5, assigned_by=$6,
			response_deadline=$7, accepted_at=$8,
			decline_reason=$9, cancel_reason=$10, completion=$11,
			updated_at=$12
		WHERE id=$13 AND vendor_status=$14
`
	res, err := r.db.ExecContext(ctx, SQL,
		string(m.Status), string(m.PaymentStatus), string(m.VendorStatus),
		nullableUUID(m.AssignedVendor), nullableTime(m.AssignedAt), m.AssignedBy,
		nullableTime(m.ResponseDeadline), nullableTime(m.AcceptedAt),
		m.DeclineReason, m.CancelReason, completion,
		m.UpdatedAt,
		m.ID, string(from),
	)
	if err != nil {
		return false, fmt.Errorf("update: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		l.Debug().Msg("Lost the status race")
	}
	return n > 0, nil
}

// AppendHistory implementation of interface storage.WorkUnitRepository
func (r *WorkUnitRepository) AppendHistory(ctx context.Context, rec *model.AssignmentRecord) error {
	rec.CreatedAt = time.Now()

	const SQL = `
		INSERT INTO work_unit_history (unit_id, vendor_id, assigned_by, assigned_at, resulting_status, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
`
	err := r.db.QueryRowContext(ctx, SQL,
		rec.UnitID, rec.VendorID, rec.AssignedBy, rec.AssignedAt,
		string(rec.ResultingStatus), rec.Notes, rec.CreatedAt,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}

// History implementation of interface storage.WorkUnitRepository
func (r *WorkUnitRepository) History(ctx context.Context, unitID uuid.UUID) ([]*model.AssignmentRecord, error) {
	const SQL = `
		SELECT id, unit_id, vendor_id, assigned_by, assigned_at, resulting_status, notes, created_at
		FROM work_unit_history
		WHERE unit_id=$1
		ORDER BY created_at
`
	rows, err := r.db.QueryContext(ctx, SQL, unitID)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	res := make([]*model.AssignmentRecord, 0)
	for rows.Next() {
		m := &model.AssignmentRecord{}
		if err := rows.Scan(&m.ID, &m.UnitID, &m.VendorID, &m.AssignedBy, &m.AssignedAt, &m.ResultingStatus, &m.Notes, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		res = append(res, m)
	}

	return res, rows.Err()
}

// DueForAutoReject implementation of interface storage.WorkUnitRepository
func (r *WorkUnitRepository) DueForAutoReject(ctx context.Context, now time.Time) ([]*model.WorkUnit, error) {
	l := logger.Ctx(ctx).With().Str("method", "DueForAutoReject").Logger()

	const SQL = `SELECT` + sqlWorkUnitColumns + `
		FROM work_units
		WHERE vendor_status=$1
		  AND assigned_vendor IS NOT NULL
		  AND response_deadline IS NOT NULL
		  AND response_deadline <= $2
		ORDER BY response_deadline
`
	rows, err := r.db.QueryContext(ctx, SQL, string(model.VendorStatusPending), now)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	res := make([]*model.WorkUnit, 0)
	for rows.Next() {
		m, err := scanWorkUnit(rows)
		if err != nil {
			l.Debug().Err(err).Send()
			return nil, err
		}
		res = append(res, m)
	}

	return res, rows.Err()
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
