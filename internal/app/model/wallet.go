package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet is the per-vendor balance plus its cached aggregate counters. The
// counters are projections of the transaction log, bumped in the same SQL
// transaction as each append and rebuildable from the log.
type Wallet struct {
	ID              uuid.UUID       `json:"id"`
	VendorID        uuid.UUID       `json:"vendor_id"`
	Balance         decimal.Decimal `json:"balance"`
	SecurityDeposit decimal.Decimal `json:"security_deposit"`

	TotalEarnings        decimal.Decimal `json:"total_earnings"`
	TotalPenalties       decimal.Decimal `json:"total_penalties"`
	TotalDeposits        decimal.Decimal `json:"total_deposits"`
	TotalWithdrawals     decimal.Decimal `json:"total_withdrawals"`
	TotalFees            decimal.Decimal `json:"total_fees"`
	TotalCashCollections decimal.Decimal `json:"total_cash_collections"`
	TotalRefunds         decimal.Decimal `json:"total_refunds"`

	CompletedCount    int64 `json:"completed_count"`
	RejectedCount     int64 `json:"rejected_count"`
	CancelledCount    int64 `json:"cancelled_count"`
	AutoRejectedCount int64 `json:"auto_rejected_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Available is the portion of the balance a withdrawal may consume.
func (w *Wallet) Available() decimal.Decimal {
	avail := w.Balance.Sub(w.SecurityDeposit)
	if avail.IsNegative() {
		return decimal.Zero
	}
	return avail
}

// MonthlyEarning is one row of the per-month earnings summary.
type MonthlyEarning struct {
	VendorID  uuid.UUID       `json:"vendor_id"`
	Month     string          `json:"month"` // YYYY-MM
	Earned    decimal.Decimal `json:"earned"`
	Completed int64           `json:"completed"`
}
