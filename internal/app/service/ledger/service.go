// Package ledger owns every mutation of a vendor wallet. Each operation is a
// single atomic append against the wallet row; business rules (tiering,
// idempotency, floors, the security-deposit guard) live here, the row lock
// lives in storage.
package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"vendorpay/internal/app/apperr"
	"vendorpay/internal/app/config"
	"vendorpay/internal/app/earning"
	"vendorpay/internal/app/logger"
	"vendorpay/internal/app/model"
	"vendorpay/internal/app/storage"
)

type Service struct {
	logger  logger.Logger
	wallets storage.WalletRepository
	cfg     config.LedgerConfig
	rates   earning.Rates
}

func New(wallets storage.WalletRepository, cfg config.LedgerConfig) *Service {
	return &Service{
		logger:  logger.Global().WithComponent("Ledger.Service"),
		wallets: wallets,
		cfg:     cfg,
		rates: earning.Rates{
			LowValueThreshold: decimal.NewFromFloat(cfg.LowValueThreshold),
			OnlineDeduction:   decimal.NewFromFloat(cfg.OnlineDeduction),
			PlatformShare:     decimal.NewFromFloat(cfg.PlatformShare),
			GSTRate:           decimal.NewFromFloat(cfg.GSTRate),
		},
	}
}

// Rates exposes the tiering constants the ledger settles with.
func (s *Service) Rates() earning.Rates {
	return s.rates
}

func (s *Service) ensure(ctx context.Context, vendorID uuid.UUID) error {
	_, err := s.wallets.Ensure(ctx, vendorID, s.cfg.SecurityDepositAmount())
	return err
}

// AddEarning credits the payout for a completed work unit. Idempotent by
// (caseID, payment method): a repeat call returns the existing transaction
// and leaves the balance untouched.
func (s *Service) AddEarning(ctx context.Context, vendorID, caseID uuid.UUID, in earning.Input) (*model.Transaction, error) {
	res, err := earning.Calculate(in, s.rates)
	if err != nil {
		return nil, err
	}

	if err := s.ensure(ctx, vendorID); err != nil {
		return nil, err
	}

	m := &model.Transaction{
		VendorID:         vendorID,
		CaseID:           &caseID,
		TypeID:           model.TransactionTypeEarning,
		Type:             model.TransactionTypeEarning.String(),
		Amount:           res.CalculatedAmount,
		PaymentMethod:    in.PaymentMethod,
		BillingAmount:    in.BillingAmount,
		SpareAmount:      in.SpareAmount,
		TravelAmount:     in.TravelAmount,
		BookingAmount:    in.BookingAmount,
		GSTIncluded:      in.GSTIncluded,
		GSTAmount:        res.GSTAmount,
		CalculatedAmount: res.CalculatedAmount,
	}

	m, err = s.wallets.Apply(ctx, m, storage.ApplyOptions{})
	if errors.Is(err, apperr.ErrDuplicate) {
		s.logger.Debug().Str("case_id", caseID.String()).Msg("Earning already posted")
		return m, nil
	}
	return m, err
}

// AddPenalty debits a sanction. The deduction floors at zero so the balance
// never goes negative.
func (s *Service) AddPenalty(ctx context.Context, vendorID, caseID uuid.UUID, kind model.PenaltyKind, amount decimal.Decimal, description string) (*model.Transaction, error) {
	if !kind.Valid() || amount.IsNegative() || amount.IsZero() {
		return nil, apperr.ErrInvalidInput
	}

	if err := s.ensure(ctx, vendorID); err != nil {
		return nil, err
	}

	m := &model.Transaction{
		VendorID:         vendorID,
		CaseID:           &caseID,
		TypeID:           model.TransactionTypePenalty,
		Type:             model.TransactionTypePenalty.String(),
		PenaltyKind:      kind,
		Amount:           amount.Neg(),
		CalculatedAmount: amount,
		PaymentMethod:    model.PaymentMethodSystem,
		Description:      description,
	}

	return s.wallets.Apply(ctx, m, storage.ApplyOptions{FloorAtZero: true})
}

// AddTaskAcceptanceFee debits the fixed fee a vendor pays to accept a task.
func (s *Service) AddTaskAcceptanceFee(ctx context.Context, vendorID, caseID uuid.UUID, fee decimal.Decimal) (*model.Transaction, error) {
	if fee.IsNegative() || fee.IsZero() {
		return nil, apperr.ErrInvalidInput
	}

	if err := s.ensure(ctx, vendorID); err != nil {
		return nil, err
	}

	m := &model.Transaction{
		VendorID:         vendorID,
		CaseID:           &caseID,
		TypeID:           model.TransactionTypeTaskAcceptanceFee,
		Type:             model.TransactionTypeTaskAcceptanceFee.String(),
		Amount:           fee.Neg(),
		CalculatedAmount: fee,
		PaymentMethod:    model.PaymentMethodSystem,
		Description:      "task acceptance fee",
	}

	return s.wallets.Apply(ctx, m, storage.ApplyOptions{FloorAtZero: true})
}

// AddCashCollectionDeduction claws back the platform share of a cash-settled
// job. Idempotent by caseID. Below the low-value threshold the deduction is
// zero and a zero-amount record is kept for the audit trail.
func (s *Service) AddCashCollectionDeduction(ctx context.Context, vendorID, caseID uuid.UUID, in earning.Input) (*model.Transaction, error) {
	deduction, err := earning.CashCollectionDeduction(in, s.rates)
	if err != nil {
		return nil, err
	}

	if err := s.ensure(ctx, vendorID); err != nil {
		return nil, err
	}

	m := &model.Transaction{
		VendorID:         vendorID,
		CaseID:           &caseID,
		TypeID:           model.TransactionTypeCashCollection,
		Type:             model.TransactionTypeCashCollection.String(),
		Amount:           deduction.Neg(),
		PaymentMethod:    model.PaymentMethodCash,
		BillingAmount:    in.BillingAmount,
		SpareAmount:      in.SpareAmount,
		TravelAmount:     in.TravelAmount,
		BookingAmount:    in.BookingAmount,
		GSTIncluded:      in.GSTIncluded,
		GSTAmount:        in.GSTAmount,
		CalculatedAmount: deduction,
	}

	m, err = s.wallets.Apply(ctx, m, storage.ApplyOptions{FloorAtZero: true})
	if errors.Is(err, apperr.ErrDuplicate) {
		s.logger.Debug().Str("case_id", caseID.String()).Msg("Cash collection already posted")
		return m, nil
	}
	return m, err
}

// AddDeposit credits money a vendor paid in.
func (s *Service) AddDeposit(ctx context.Context, vendorID uuid.UUID, amount decimal.Decimal, description string) (*model.Transaction, error) {
	if amount.IsNegative() || amount.IsZero() {
		return nil, apperr.ErrInvalidInput
	}

	if err := s.ensure(ctx, vendorID); err != nil {
		return nil, err
	}

	m := &model.Transaction{
		VendorID:         vendorID,
		TypeID:           model.TransactionTypeDeposit,
		Type:             model.TransactionTypeDeposit.String(),
		Amount:           amount,
		CalculatedAmount: amount,
		PaymentMethod:    model.PaymentMethodSystem,
		Description:      description,
	}

	return s.wallets.Apply(ctx, m, storage.ApplyOptions{})
}

// AddWithdrawal debits a payout to the vendor. Fails with
// apperr.ErrInsufficientFunds when the amount would eat into the security
// deposit.
func (s *Service) AddWithdrawal(ctx context.Context, vendorID uuid.UUID, amount decimal.Decimal, description string) (*model.Transaction, error) {
	if amount.IsNegative() || amount.IsZero() {
		return nil, apperr.ErrInvalidInput
	}

	m := &model.Transaction{
		VendorID:         vendorID,
		TypeID:           model.TransactionTypeWithdrawal,
		Type:             model.TransactionTypeWithdrawal.String(),
		Amount:           amount.Neg(),
		CalculatedAmount: amount,
		PaymentMethod:    model.PaymentMethodSystem,
		Description:      description,
	}

	return s.wallets.Apply(ctx, m, storage.ApplyOptions{GuardAvailable: true})
}

// AddRefund credits money returned to the vendor for a work unit.
func (s *Service) AddRefund(ctx context.Context, vendorID, caseID uuid.UUID, amount decimal.Decimal, description string) (*model.Transaction, error) {
	if amount.IsNegative() || amount.IsZero() {
		return nil, apperr.ErrInvalidInput
	}

	if err := s.ensure(ctx, vendorID); err != nil {
		return nil, err
	}

	m := &model.Transaction{
		VendorID:         vendorID,
		CaseID:           &caseID,
		TypeID:           model.TransactionTypeRefund,
		Type:             model.TransactionTypeRefund.String(),
		Amount:           amount,
		CalculatedAmount: amount,
		PaymentMethod:    model.PaymentMethodSystem,
		Description:      description,
	}

	return s.wallets.Apply(ctx, m, storage.ApplyOptions{})
}

// AddManualAdjustment posts a signed admin correction. Negative adjustments
// floor at zero like any other deduction.
func (s *Service) AddManualAdjustment(ctx context.Context, vendorID uuid.UUID, amount decimal.Decimal, description string) (*model.Transaction, error) {
	if amount.IsZero() {
		return nil, apperr.ErrInvalidInput
	}

	if err := s.ensure(ctx, vendorID); err != nil {
		return nil, err
	}

	m := &model.Transaction{
		VendorID:         vendorID,
		TypeID:           model.TransactionTypeManualAdjustment,
		Type:             model.TransactionTypeManualAdjustment.String(),
		Amount:           amount,
		CalculatedAmount: amount.Abs(),
		PaymentMethod:    model.PaymentMethodSystem,
		Description:      description,
	}

	return s.wallets.Apply(ctx, m, storage.ApplyOptions{FloorAtZero: true})
}

// Balance returns the wallet with its current and aggregate figures.
func (s *Service) Balance(ctx context.Context, vendorID uuid.UUID) (*model.Wallet, error) {
	return s.wallets.Read(ctx, vendorID)
}

// Transactions returns up to limit records, most recent first.
func (s *Service) Transactions(ctx context.Context, vendorID uuid.UUID, limit int) ([]*model.Transaction, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return s.wallets.Transactions(ctx, vendorID, limit)
}

// MonthlyEarnings returns the per-month earnings summary, most recent first.
func (s *Service) MonthlyEarnings(ctx context.Context, vendorID uuid.UUID, months int) ([]*model.MonthlyEarning, error) {
	if months <= 0 || months > 36 {
		months = 12
	}
	return s.wallets.MonthlyEarnings(ctx, vendorID, months)
}

// RebuildAggregates refolds the cached wallet projection from the log.
func (s *Service) RebuildAggregates(ctx context.Context, vendorID uuid.UUID) (*model.Wallet, error) {
	return s.wallets.RebuildAggregates(ctx, vendorID)
}
