package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType int

const (
	TransactionTypeEarning TransactionType = iota + 1
	TransactionTypePenalty
	TransactionTypeDeposit
	TransactionTypeWithdrawal
	TransactionTypeTaskAcceptanceFee
	TransactionTypeCashCollection
	TransactionTypeRefund
	TransactionTypeManualAdjustment
)

var transactionTypeNames = map[TransactionType]string{
	TransactionTypeEarning:           "earning",
	TransactionTypePenalty:           "penalty",
	TransactionTypeDeposit:           "deposit",
	TransactionTypeWithdrawal:        "withdrawal",
	TransactionTypeTaskAcceptanceFee: "task_acceptance_fee",
	TransactionTypeCashCollection:    "cash_collection",
	TransactionTypeRefund:            "refund",
	TransactionTypeManualAdjustment:  "manual_adjustment",
}

func (t TransactionType) String() string {
	return transactionTypeNames[t]
}

// NeedsCase reports whether transactions of this type must reference a work unit.
func (t TransactionType) NeedsCase() bool {
	return t != TransactionTypeDeposit && t != TransactionTypeManualAdjustment
}

type PaymentMethod string

const (
	PaymentMethodOnline PaymentMethod = "online"
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodSystem PaymentMethod = "system"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodOnline, PaymentMethodCash, PaymentMethodSystem:
		return true
	}
	return false
}

type PenaltyKind string

const (
	PenaltyRejection     PenaltyKind = "rejection"
	PenaltyCancellation  PenaltyKind = "cancellation"
	PenaltyAutoRejection PenaltyKind = "auto_rejection"
)

func (k PenaltyKind) Valid() bool {
	switch k {
	case PenaltyRejection, PenaltyCancellation, PenaltyAutoRejection:
		return true
	}
	return false
}

const TransactionStatusCompleted = "completed"

// Transaction is one immutable ledger entry. Amount is signed; deductions are
// negative. BalanceBefore/BalanceAfter snapshot the wallet around the append
// so the log audits without replaying calculator logic.
type Transaction struct {
	ID            uuid.UUID       `json:"id"`
	VendorID      uuid.UUID       `json:"vendor_id"`
	CaseID        *uuid.UUID      `json:"case_id,omitempty"`
	TypeID        TransactionType `json:"-"`
	Type          string          `json:"type"`
	PenaltyKind   PenaltyKind     `json:"penalty_kind,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod PaymentMethod   `json:"payment_method"`

	BillingAmount decimal.Decimal `json:"billing_amount"`
	SpareAmount   decimal.Decimal `json:"spare_amount"`
	TravelAmount  decimal.Decimal `json:"travel_amount"`
	BookingAmount decimal.Decimal `json:"booking_amount"`
	GSTIncluded   bool            `json:"gst_included"`
	GSTAmount     decimal.Decimal `json:"gst_amount"`

	// CalculatedAmount is the derived payout or deduction before sign.
	CalculatedAmount decimal.Decimal `json:"calculated_amount"`
	BalanceBefore    decimal.Decimal `json:"balance_before"`
	BalanceAfter     decimal.Decimal `json:"balance_after"`

	Status      string    `json:"status"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
