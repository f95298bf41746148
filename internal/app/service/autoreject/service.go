// Package autoreject sweeps work units stuck in Pending past their response
// deadline, penalizes the unresponsive vendor and returns the unit to the
// pool. Unlike an explicit decline, which closes the unit, an auto-reject
// re-queues it for assignment.
package autoreject

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"vendorpay/internal/app/logger"
	"vendorpay/internal/app/model"
	"vendorpay/internal/app/notify"
	"vendorpay/internal/app/storage"
)

// Penalizer is the slice of the wallet ledger the sweep posts to.
type Penalizer interface {
	AddPenalty(ctx context.Context, vendorID, caseID uuid.UUID, kind model.PenaltyKind, amount decimal.Decimal, description string) (*model.Transaction, error)
}

// Service is an explicitly constructed, explicitly owned sweeper: injected
// dependencies, injected clock, Start/Stop lifecycle. Tests run several
// isolated instances and trigger Sweep directly.
type Service struct {
	logger   logger.Logger
	units    storage.WorkUnitRepository
	ledger   Penalizer
	notifier notify.Dispatcher

	interval time.Duration
	penalty  decimal.Decimal
	now      func() time.Time

	mu      sync.Mutex
	stopCh  chan struct{}
	running bool
}

func New(units storage.WorkUnitRepository, ledger Penalizer, notifier notify.Dispatcher, interval time.Duration, penalty decimal.Decimal) *Service {
	return &Service{
		logger:   logger.Global().WithComponent("AutoReject.Service"),
		units:    units,
		ledger:   ledger,
		notifier: notifier,
		interval: interval,
		penalty:  penalty,
		now:      time.Now,
	}
}

// WithClock overrides the time source; tests drive deadlines with it.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Start launches the periodic sweep loop. Calling Start on a running service
// is a no-op.
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})

	go func(stop chan struct{}) {
		t := time.NewTimer(s.interval)
		for {
			select {
			case <-stop:
				t.Stop()
				return
			case <-t.C:
				n, err := s.Sweep(context.Background())
				if err != nil {
					s.logger.Error().Err(err).Msg("Sweep failed")
				} else if n > 0 {
					s.logger.Info().Int("auto_rejected", n).Msg("Sweep done")
				}
				t.Reset(s.interval)
			}
		}
	}(s.stopCh)

	s.logger.Info().Dur("interval", s.interval).Msg("Scheduler started")
}

// Stop halts the sweep loop. Safe to call more than once.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	close(s.stopCh)
	s.logger.Debug().Msg("Scheduler stopped")
}

// Sweep runs one scan. Exposed as the manual trigger for operational
// testing. Returns how many units were auto-rejected; per-item failures are
// logged and do not halt the batch.
func (s *Service) Sweep(ctx context.Context) (int, error) {
	now := s.now()
	l := s.logger.With().Time("sweep_at", now).Logger()

	due, err := s.units.DueForAutoReject(ctx, now)
	if err != nil {
		return 0, pkgerrors.Wrap(err, "due scan")
	}
	if len(due) > 0 {
		l.Debug().Int("due", len(due)).Msg("Overdue units found")
	}

	processed := 0
	for _, u := range due {
		if u.AssignedVendor == nil {
			continue
		}
		vendorID := *u.AssignedVendor

		if ok := s.reject(ctx, u, vendorID); ok {
			processed++
		}
	}

	return processed, nil
}

// reject returns one overdue unit to the pool and penalizes its vendor. The
// compare-and-swap out of Pending runs first, so a unit that a concurrent
// sweep or a late vendor action already moved is skipped and never penalized
// twice.
func (s *Service) reject(ctx context.Context, u *model.WorkUnit, vendorID uuid.UUID) bool {
	l := s.logger.With().
		Str("unit_id", u.ID.String()).
		Str("vendor_id", vendorID.String()).
		Logger()

	u.VendorStatus = model.VendorStatusUnassigned
	u.Status = model.StatusAwaitingAssignment
	u.AssignedVendor = nil
	u.AssignedAt = nil
	u.AssignedBy = ""
	u.ResponseDeadline = nil

	ok, err := s.units.UpdateAssignment(ctx, u, model.VendorStatusPending)
	if err != nil {
		l.Error().Err(err).Msg("Re-queue failed; leaving for next sweep")
		return false
	}
	if !ok {
		l.Debug().Msg("Unit no longer pending; skipping")
		return false
	}

	if _, err := s.ledger.AddPenalty(ctx, vendorID, u.ID, model.PenaltyAutoRejection, s.penalty, "no response before deadline"); err != nil {
		// the unit is already back in the pool; surface the missed penalty
		l.Error().Err(pkgerrors.Wrap(err, "auto-reject penalty")).Msg("Penalty posting failed; needs reconciliation")
	}

	if err := s.units.AppendHistory(ctx, &model.AssignmentRecord{
		UnitID:          u.ID,
		VendorID:        vendorID,
		AssignedAt:      s.now(),
		ResultingStatus: model.VendorStatusUnassigned,
		Notes:           "auto-rejected: response deadline elapsed",
	}); err != nil {
		l.Error().Err(err).Msg("History append failed")
	}

	s.notifier.Notify(ctx, notify.Event{Kind: notify.EventAutoRejected, UnitID: u.ID, VendorID: vendorID})

	l.Info().Msg("Unit auto-rejected")
	return true
}
