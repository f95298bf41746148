// Package taskflow governs the assignment lifecycle of a work unit:
// Unassigned -> Pending -> {Accepted -> {Completed, Cancelled}, Declined},
// with Declined re-entering Pending via a new assignment. Terminal
// transitions post to the wallet ledger through the Ledger interface; the
// ledger never reaches back into this package.
package taskflow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/xid"
	"github.com/shopspring/decimal"

	"vendorpay/internal/app/apperr"
	"vendorpay/internal/app/config"
	"vendorpay/internal/app/earning"
	"vendorpay/internal/app/logger"
	"vendorpay/internal/app/model"
	"vendorpay/internal/app/notify"
	"vendorpay/internal/app/storage"
)

// Ledger is the slice of the wallet ledger the state machine drives.
type Ledger interface {
	AddEarning(ctx context.Context, vendorID, caseID uuid.UUID, in earning.Input) (*model.Transaction, error)
	AddPenalty(ctx context.Context, vendorID, caseID uuid.UUID, kind model.PenaltyKind, amount decimal.Decimal, description string) (*model.Transaction, error)
	AddTaskAcceptanceFee(ctx context.Context, vendorID, caseID uuid.UUID, fee decimal.Decimal) (*model.Transaction, error)
	AddCashCollectionDeduction(ctx context.Context, vendorID, caseID uuid.UUID, in earning.Input) (*model.Transaction, error)
}

type Service struct {
	logger   logger.Logger
	units    storage.WorkUnitRepository
	ledger   Ledger
	notifier notify.Dispatcher

	responseWindow      time.Duration
	rejectionPenalty    decimal.Decimal
	cancellationPenalty decimal.Decimal
	acceptanceFee       decimal.Decimal

	now func() time.Time
}

func New(units storage.WorkUnitRepository, l Ledger, n notify.Dispatcher, ledgerCfg config.LedgerConfig, schedCfg config.SchedulerConfig) *Service {
	return &Service{
		logger:              logger.Global().WithComponent("Taskflow.Service"),
		units:               units,
		ledger:              l,
		notifier:            n,
		responseWindow:      schedCfg.ResponseWindow,
		rejectionPenalty:    ledgerCfg.RejectionPenaltyAmount(),
		cancellationPenalty: ledgerCfg.CancellationPenaltyAmount(),
		acceptanceFee:       ledgerCfg.AcceptanceFeeAmount(),
		now:                 time.Now,
	}
}

// WithClock overrides the time source; tests drive deadlines with it.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create registers a new, unassigned work unit.
func (s *Service) Create(ctx context.Context, kind model.WorkUnitKind) (*model.WorkUnit, error) {
	return s.units.Create(ctx, &model.WorkUnit{Kind: kind})
}

// Read returns a work unit by id.
func (s *Service) Read(ctx context.Context, id uuid.UUID) (*model.WorkUnit, error) {
	return s.units.Read(ctx, id)
}

// History returns a unit's assignment trail, oldest first.
func (s *Service) History(ctx context.Context, id uuid.UUID) ([]*model.AssignmentRecord, error) {
	return s.units.History(ctx, id)
}

// Assign hands a unit to a vendor. Valid from Unassigned or Declined; starts
// the response window. Touches no wallet.
func (s *Service) Assign(ctx context.Context, unitID, vendorID uuid.UUID, assignedBy, notes string) (*model.WorkUnit, error) {
	l := logger.Get(ctx, "Taskflow.Assign")

	u, err := s.units.Read(ctx, unitID)
	if err != nil {
		return nil, err
	}

	from := u.VendorStatus
	if from != model.VendorStatusUnassigned && from != model.VendorStatusDeclined {
		return nil, apperr.ErrInvalidState
	}

	now := s.now()
	deadline := now.Add(s.responseWindow)

	u.VendorStatus = model.VendorStatusPending
	u.AssignedVendor = &vendorID
	u.AssignedAt = &now
	u.AssignedBy = assignedBy
	u.ResponseDeadline = &deadline
	u.AcceptedAt = nil
	u.DeclineReason = ""
	u.CancelReason = ""

	ok, err := s.units.UpdateAssignment(ctx, u, from)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.ErrConflict
	}

	s.appendHistory(ctx, u, vendorID, assignedBy, notes)
	s.notifier.Notify(ctx, notify.Event{Kind: notify.EventAssigned, UnitID: u.ID, VendorID: vendorID, Message: notes})

	l.Info().Str("unit_id", unitID.String()).Str("vendor_id", vendorID.String()).Msg("Unit assigned")
	return u, nil
}

// Accept confirms the assignment. Pending only, assigned vendor only.
func (s *Service) Accept(ctx context.Context, unitID, vendorID uuid.UUID) (*model.WorkUnit, error) {
	l := logger.Get(ctx, "Taskflow.Accept")

	u, err := s.units.Read(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if err := checkActor(u, vendorID); err != nil {
		return nil, err
	}
	if u.VendorStatus != model.VendorStatusPending {
		return nil, apperr.ErrInvalidState
	}

	now := s.now()
	u.VendorStatus = model.VendorStatusAccepted
	u.AcceptedAt = &now
	u.ResponseDeadline = nil

	ok, err := s.units.UpdateAssignment(ctx, u, model.VendorStatusPending)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.ErrConflict
	}

	s.appendHistory(ctx, u, vendorID, u.AssignedBy, "accepted")

	if s.acceptanceFee.IsPositive() {
		if _, err := s.ledger.AddTaskAcceptanceFee(ctx, vendorID, unitID, s.acceptanceFee); err != nil {
			s.reconcile(unitID, vendorID, "task_acceptance_fee", err)
		}
	}

	s.notifier.Notify(ctx, notify.Event{Kind: notify.EventAccepted, UnitID: u.ID, VendorID: vendorID})

	l.Info().Str("unit_id", unitID.String()).Msg("Unit accepted")
	return u, nil
}

// Decline refuses the assignment. Pending only, assigned vendor only; always
// posts the fixed rejection penalty. The status change is authoritative even
// when the penalty cannot be posted; the miss is surfaced for reconciliation.
func (s *Service) Decline(ctx context.Context, unitID, vendorID uuid.UUID, reason string) (*model.WorkUnit, error) {
	l := logger.Get(ctx, "Taskflow.Decline")

	u, err := s.units.Read(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if err := checkActor(u, vendorID); err != nil {
		return nil, err
	}
	if u.VendorStatus != model.VendorStatusPending {
		return nil, apperr.ErrInvalidState
	}

	u.VendorStatus = model.VendorStatusDeclined
	u.DeclineReason = reason
	u.Status = model.StatusCancelled
	u.ResponseDeadline = nil

	ok, err := s.units.UpdateAssignment(ctx, u, model.VendorStatusPending)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.ErrConflict
	}

	s.appendHistory(ctx, u, vendorID, u.AssignedBy, "declined: "+reason)

	if _, err := s.ledger.AddPenalty(ctx, vendorID, unitID, model.PenaltyRejection, s.rejectionPenalty, "assignment declined"); err != nil {
		s.reconcile(unitID, vendorID, "rejection_penalty", err)
	}

	s.notifier.Notify(ctx, notify.Event{Kind: notify.EventDeclined, UnitID: u.ID, VendorID: vendorID, Message: reason})

	l.Info().Str("unit_id", unitID.String()).Msg("Unit declined")
	return u, nil
}

// Complete records the job as done. Accepted only, assigned vendor only.
// Cash settles the public status immediately; online stays in progress until
// ConfirmPayment. No wallet is touched here: "task is done" and "money has
// moved" are separate steps because online payments settle asynchronously.
func (s *Service) Complete(ctx context.Context, unitID, vendorID uuid.UUID, c *model.Completion) (*model.WorkUnit, error) {
	l := logger.Get(ctx, "Taskflow.Complete")

	if c == nil || !c.PaymentMethod.Valid() ||
		c.BillingAmount.IsNegative() || c.SpareAmount.IsNegative() ||
		c.TravelAmount.IsNegative() ||
		c.BookingAmount.IsNegative() || c.GSTAmount.IsNegative() {
		return nil, apperr.ErrInvalidInput
	}
	for _, p := range c.SpareParts {
		// a negative part would make the stored completion unsettlable
		if p.Amount.IsNegative() {
			return nil, apperr.ErrInvalidInput
		}
	}

	u, err := s.units.Read(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if err := checkActor(u, vendorID); err != nil {
		return nil, err
	}
	if u.VendorStatus != model.VendorStatusAccepted {
		return nil, apperr.ErrInvalidState
	}

	c.CompletedAt = s.now()
	c.SpareAmount = c.SpareTotal()

	u.VendorStatus = model.VendorStatusCompleted
	u.Completion = c
	if c.PaymentMethod == model.PaymentMethodCash {
		u.Status = model.StatusResolved
		u.PaymentStatus = model.PaymentStatusPaid
	} else {
		u.Status = model.StatusInProgress
		u.PaymentStatus = model.PaymentStatusPending
	}

	ok, err := s.units.UpdateAssignment(ctx, u, model.VendorStatusAccepted)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.ErrConflict
	}

	s.appendHistory(ctx, u, vendorID, u.AssignedBy, "completed")
	s.notifier.Notify(ctx, notify.Event{Kind: notify.EventCompleted, UnitID: u.ID, VendorID: vendorID})

	l.Info().Str("unit_id", unitID.String()).Str("payment_method", string(c.PaymentMethod)).Msg("Unit completed")
	return u, nil
}

// ConfirmPayment settles the money for a completed unit: credits the earning
// and, for cash jobs, posts the cash-collection deduction. Explicitly
// triggered (payment confirmation event for online, settlement run for
// cash); safe to retry, both postings are idempotent by case.
func (s *Service) ConfirmPayment(ctx context.Context, unitID uuid.UUID) (*model.WorkUnit, error) {
	l := logger.Get(ctx, "Taskflow.ConfirmPayment")

	u, err := s.units.Read(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if u.VendorStatus != model.VendorStatusCompleted || u.Completion == nil || u.AssignedVendor == nil {
		return nil, apperr.ErrInvalidState
	}

	vendorID := *u.AssignedVendor
	c := u.Completion
	in := earning.Input{
		BillingAmount: c.BillingAmount,
		SpareAmount:   c.SpareAmount,
		TravelAmount:  c.TravelAmount,
		BookingAmount: c.BookingAmount,
		PaymentMethod: c.PaymentMethod,
		GSTIncluded:   c.GSTIncluded,
		GSTAmount:     c.GSTAmount,
	}

	if _, err := s.ledger.AddEarning(ctx, vendorID, unitID, in); err != nil {
		return nil, err
	}
	if c.PaymentMethod == model.PaymentMethodCash {
		if _, err := s.ledger.AddCashCollectionDeduction(ctx, vendorID, unitID, in); err != nil {
			return nil, err
		}
	}

	u.Status = model.StatusResolved
	u.PaymentStatus = model.PaymentStatusPaid

	ok, err := s.units.UpdateAssignment(ctx, u, model.VendorStatusCompleted)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.ErrConflict
	}

	s.notifier.Notify(ctx, notify.Event{Kind: notify.EventSettled, UnitID: u.ID, VendorID: vendorID})

	l.Info().Str("unit_id", unitID.String()).Msg("Unit settled")
	return u, nil
}

// Cancel aborts an accepted job. Accepted only, assigned vendor only; posts
// the cancellation penalty and closes the unit.
func (s *Service) Cancel(ctx context.Context, unitID, vendorID uuid.UUID, reason string) (*model.WorkUnit, error) {
	l := logger.Get(ctx, "Taskflow.Cancel")

	u, err := s.units.Read(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if err := checkActor(u, vendorID); err != nil {
		return nil, err
	}
	if u.VendorStatus != model.VendorStatusAccepted {
		return nil, apperr.ErrInvalidState
	}

	u.VendorStatus = model.VendorStatusCancelled
	u.CancelReason = reason
	u.Status = model.StatusClosed
	u.ResponseDeadline = nil

	ok, err := s.units.UpdateAssignment(ctx, u, model.VendorStatusAccepted)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.ErrConflict
	}

	s.appendHistory(ctx, u, vendorID, u.AssignedBy, "cancelled by vendor: "+reason)

	if _, err := s.ledger.AddPenalty(ctx, vendorID, unitID, model.PenaltyCancellation, s.cancellationPenalty, "job cancelled by vendor"); err != nil {
		s.reconcile(unitID, vendorID, "cancellation_penalty", err)
	}

	s.notifier.Notify(ctx, notify.Event{Kind: notify.EventCancelled, UnitID: u.ID, VendorID: vendorID, Message: reason})

	l.Info().Str("unit_id", unitID.String()).Msg("Unit cancelled")
	return u, nil
}

func checkActor(u *model.WorkUnit, vendorID uuid.UUID) error {
	if u.AssignedVendor == nil || *u.AssignedVendor != vendorID {
		return apperr.ErrNotAssignedVendor
	}
	return nil
}

// appendHistory records the transition; the trail is supporting data, so a
// failed insert is logged without aborting the committed transition.
func (s *Service) appendHistory(ctx context.Context, u *model.WorkUnit, vendorID uuid.UUID, assignedBy, notes string) {
	at := s.now()
	if u.AssignedAt != nil {
		at = *u.AssignedAt
	}
	rec := &model.AssignmentRecord{
		UnitID:          u.ID,
		VendorID:        vendorID,
		AssignedBy:      assignedBy,
		AssignedAt:      at,
		ResultingStatus: u.VendorStatus,
		Notes:           notes,
	}
	if err := s.units.AppendHistory(ctx, rec); err != nil {
		s.logger.Error().Err(err).Str("unit_id", u.ID.String()).Msg("History append failed")
	}
}

// reconcile surfaces a ledger posting that failed after its state transition
// committed. The xid ties the log line to the out-of-band retry.
func (s *Service) reconcile(unitID, vendorID uuid.UUID, posting string, err error) {
	s.logger.Error().
		Err(err).
		Str("reconciliation_id", xid.New().String()).
		Str("unit_id", unitID.String()).
		Str("vendor_id", vendorID.String()).
		Str("posting", posting).
		Msg("Ledger posting failed after committed transition; needs reconciliation")
}
