package autoreject_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendorpay/internal/app/model"
	"vendorpay/internal/app/notify"
	"vendorpay/internal/app/service/autoreject"
	storagemock "vendorpay/internal/app/storage/mock"
)

type penaltyCall struct {
	vendorID uuid.UUID
	caseID   uuid.UUID
	kind     model.PenaltyKind
	amount   decimal.Decimal
}

type fakePenalizer struct {
	calls []penaltyCall
	err   error
}

func (f *fakePenalizer) AddPenalty(_ context.Context, vendorID, caseID uuid.UUID, kind model.PenaltyKind, amount decimal.Decimal, _ string) (*model.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.calls = append(f.calls, penaltyCall{vendorID, caseID, kind, amount})
	return &model.Transaction{}, nil
}

type fakeNotifier struct {
	events []notify.Event
}

func (f *fakeNotifier) Notify(_ context.Context, e notify.Event) {
	f.events = append(f.events, e)
}

var frozen = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newSweeper(t *testing.T) (*autoreject.Service, *storagemock.MockWorkUnitRepository, *fakePenalizer, *fakeNotifier) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	units := storagemock.NewMockWorkUnitRepository(ctrl)
	led := &fakePenalizer{}
	n := &fakeNotifier{}

	svc := autoreject.New(units, led, n, time.Minute, decimal.NewFromInt(100)).
		WithClock(func() time.Time { return frozen })
	return svc, units, led, n
}

func overdueUnit(vendorID uuid.UUID) *model.WorkUnit {
	deadline := frozen.Add(-time.Minute)
	at := frozen.Add(-16 * time.Minute)
	return &model.WorkUnit{
		ID:               uuid.New(),
		VendorStatus:     model.VendorStatusPending,
		Status:           model.StatusAwaitingAssignment,
		AssignedVendor:   &vendorID,
		AssignedAt:       &at,
		AssignedBy:       "dispatcher",
		ResponseDeadline: &deadline,
	}
}

func TestSweep_RequeuesAndPenalizesOverdueUnit(t *testing.T) {
	svc, units, led, n := newSweeper(t)

	vendorID := uuid.New()
	u := overdueUnit(vendorID)
	unitID := u.ID

	units.EXPECT().DueForAutoReject(gomock.Any(), frozen).Return([]*model.WorkUnit{u}, nil)
	units.EXPECT().
		UpdateAssignment(gomock.Any(), gomock.Any(), model.VendorStatusPending).
		DoAndReturn(func(_ context.Context, m *model.WorkUnit, _ model.VendorStatus) (bool, error) {
			assert.Equal(t, model.VendorStatusUnassigned, m.VendorStatus)
			assert.Equal(t, model.StatusAwaitingAssignment, m.Status)
			assert.Nil(t, m.AssignedVendor)
			assert.Nil(t, m.ResponseDeadline)
			return true, nil
		})
	units.EXPECT().AppendHistory(gomock.Any(), gomock.Any()).Return(nil)

	processed, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	require.Len(t, led.calls, 1)
	assert.Equal(t, vendorID, led.calls[0].vendorID)
	assert.Equal(t, unitID, led.calls[0].caseID)
	assert.Equal(t, model.PenaltyAutoRejection, led.calls[0].kind)
	assert.True(t, decimal.NewFromInt(100).Equal(led.calls[0].amount))

	require.Len(t, n.events, 1)
	assert.Equal(t, notify.EventAutoRejected, n.events[0].Kind)
}

func TestSweep_NothingDueIsNoOp(t *testing.T) {
	svc, units, led, _ := newSweeper(t)

	units.EXPECT().DueForAutoReject(gomock.Any(), frozen).Return(nil, nil)

	processed, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, processed)
	assert.Empty(t, led.calls)
}

func TestSweep_SkipsUnitAlreadyMoved(t *testing.T) {
	svc, units, led, n := newSweeper(t)

	u := overdueUnit(uuid.New())
	units.EXPECT().DueForAutoReject(gomock.Any(), frozen).Return([]*model.WorkUnit{u}, nil)
	// concurrent sweep or a late vendor action won the compare-and-swap
	units.EXPECT().UpdateAssignment(gomock.Any(), gomock.Any(), model.VendorStatusPending).Return(false, nil)

	processed, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, processed)
	assert.Empty(t, led.calls, "a unit moved by someone else must not be penalized")
	assert.Empty(t, n.events)
}

func TestSweep_PerItemFailureDoesNotHaltBatch(t *testing.T) {
	svc, units, led, _ := newSweeper(t)

	first := overdueUnit(uuid.New())
	second := overdueUnit(uuid.New())

	units.EXPECT().DueForAutoReject(gomock.Any(), frozen).Return([]*model.WorkUnit{first, second}, nil)
	gomock.InOrder(
		units.EXPECT().UpdateAssignment(gomock.Any(), gomock.Any(), model.VendorStatusPending).Return(false, errors.New("db down")),
		units.EXPECT().UpdateAssignment(gomock.Any(), gomock.Any(), model.VendorStatusPending).Return(true, nil),
	)
	units.EXPECT().AppendHistory(gomock.Any(), gomock.Any()).Return(nil)

	processed, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	require.Len(t, led.calls, 1)
}

func TestSweep_ScanFailurePropagates(t *testing.T) {
	svc, units, _, _ := newSweeper(t)

	units.EXPECT().DueForAutoReject(gomock.Any(), frozen).Return(nil, errors.New("db down"))

	_, err := svc.Sweep(context.Background())
	assert.Error(t, err)
}

func TestSweep_RequeueStandsWhenPenaltyFails(t *testing.T) {
	svc, units, led, n := newSweeper(t)

	u := overdueUnit(uuid.New())
	led.err = errors.New("wallet store down")

	units.EXPECT().DueForAutoReject(gomock.Any(), frozen).Return([]*model.WorkUnit{u}, nil)
	units.EXPECT().UpdateAssignment(gomock.Any(), gomock.Any(), model.VendorStatusPending).Return(true, nil)
	units.EXPECT().AppendHistory(gomock.Any(), gomock.Any()).Return(nil)

	processed, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	require.Len(t, n.events, 1)
}

func TestStartStop_Lifecycle(t *testing.T) {
	svc, units, _, _ := newSweeper(t)

	units.EXPECT().DueForAutoReject(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	svc.Start()
	svc.Start() // second call is a no-op
	svc.Stop()
	svc.Stop() // idempotent

	// a fresh cycle can start after a stop
	svc.Start()
	svc.Stop()
}
