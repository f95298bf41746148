//go:generate mockgen -source=./interface.go -destination=./mock/storage.go -package=storagemock
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"vendorpay/internal/app/model"
)

// ApplyOptions control how an append folds into the wallet balance.
type ApplyOptions struct {
	// FloorAtZero clamps the deduction so the balance never goes negative.
	// The transaction keeps its requested amount only up to the clamp.
	FloorAtZero bool
	// GuardAvailable rejects the append with apperr.ErrInsufficientFunds when
	// the deduction exceeds balance minus security deposit.
	GuardAvailable bool
}

type WalletRepository interface {
	// Ensure creates the wallet row for vendorID if missing and returns it.
	Ensure(ctx context.Context, vendorID uuid.UUID, securityDeposit decimal.Decimal) (*model.Wallet, error)
	// Read instance of model.Wallet by vendor
	Read(ctx context.Context, vendorID uuid.UUID) (*model.Wallet, error)
	// Apply atomically appends a transaction and folds it into the balance
	// and aggregate counters. Idempotent types return the existing record
	// together with apperr.ErrDuplicate.
	Apply(ctx context.Context, m *model.Transaction, opts ApplyOptions) (*model.Transaction, error)
	// Transactions returns up to limit records, most recent first.
	Transactions(ctx context.Context, vendorID uuid.UUID, limit int) ([]*model.Transaction, error)
	// MonthlyEarnings returns the per-month earnings summary, most recent first.
	MonthlyEarnings(ctx context.Context, vendorID uuid.UUID, months int) ([]*model.MonthlyEarning, error)
	// RebuildAggregates refolds balance and counters from the transaction log.
	RebuildAggregates(ctx context.Context, vendorID uuid.UUID) (*model.Wallet, error)
}

type WorkUnitRepository interface {
	// Create a new model.WorkUnit
	Create(ctx context.Context, m *model.WorkUnit) (*model.WorkUnit, error)
	// Read instance of model.WorkUnit
	Read(ctx context.Context, id uuid.UUID) (*model.WorkUnit, error)
	// UpdateAssignment writes the unit's assignment fields only if the stored
	// vendor status still equals from; reports whether the swap happened.
	UpdateAssignment(ctx context.Context, m *model.WorkUnit, from model.VendorStatus) (bool, error)
	// AppendHistory adds one assignment history record.
	AppendHistory(ctx context.Context, rec *model.AssignmentRecord) error
	// History returns all assignment records for a unit, oldest first.
	History(ctx context.Context, unitID uuid.UUID) ([]*model.AssignmentRecord, error)
	// DueForAutoReject lists Pending units with a live vendor whose response
	// deadline is at or before now.
	DueForAutoReject(ctx context.Context, now time.Time) ([]*model.WorkUnit, error)
}
