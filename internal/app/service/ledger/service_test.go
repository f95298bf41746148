package ledger_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendorpay/internal/app/apperr"
	"vendorpay/internal/app/config"
	"vendorpay/internal/app/earning"
	"vendorpay/internal/app/model"
	"vendorpay/internal/app/service/ledger"
	"vendorpay/internal/app/storage"
	storagemock "vendorpay/internal/app/storage/mock"
)

func testConfig() config.LedgerConfig {
	return config.LedgerConfig{
		RejectionPenalty:    100,
		CancellationPenalty: 100,
		AutoRejectPenalty:   100,
		SecurityDeposit:     0,
		LowValueThreshold:   500,
		OnlineDeduction:     20,
		PlatformShare:       0.5,
		GSTRate:             0.18,
	}
}

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestAddEarning_PostsCalculatedAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	wallets := storagemock.NewMockWalletRepository(ctrl)
	svc := ledger.New(wallets, testConfig())

	vendorID := uuid.New()
	caseID := uuid.New()

	wallets.EXPECT().Ensure(gomock.Any(), vendorID, gomock.Any()).Return(&model.Wallet{VendorID: vendorID}, nil)
	wallets.EXPECT().
		Apply(gomock.Any(), gomock.Any(), storage.ApplyOptions{}).
		DoAndReturn(func(_ context.Context, m *model.Transaction, _ storage.ApplyOptions) (*model.Transaction, error) {
			assert.Equal(t, model.TransactionTypeEarning, m.TypeID)
			assert.True(t, dec(575).Equal(m.Amount), "amount %s", m.Amount)
			assert.True(t, dec(575).Equal(m.CalculatedAmount))
			require.NotNil(t, m.CaseID)
			assert.Equal(t, caseID, *m.CaseID)
			return m, nil
		})

	m, err := svc.AddEarning(context.Background(), vendorID, caseID, earning.Input{
		BillingAmount: dec(1000),
		SpareAmount:   dec(100),
		TravelAmount:  dec(50),
		PaymentMethod: model.PaymentMethodOnline,
	})

	require.NoError(t, err)
	assert.True(t, dec(575).Equal(m.Amount))
}

func TestAddEarning_DuplicateIsNoOp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	wallets := storagemock.NewMockWalletRepository(ctrl)
	svc := ledger.New(wallets, testConfig())

	vendorID := uuid.New()
	caseID := uuid.New()
	existing := &model.Transaction{ID: uuid.New(), TypeID: model.TransactionTypeEarning}

	wallets.EXPECT().Ensure(gomock.Any(), vendorID, gomock.Any()).Return(&model.Wallet{VendorID: vendorID}, nil)
	wallets.EXPECT().Apply(gomock.Any(), gomock.Any(), gomock.Any()).Return(existing, apperr.ErrDuplicate)

	m, err := svc.AddEarning(context.Background(), vendorID, caseID, earning.Input{
		BillingAmount: dec(400),
		PaymentMethod: model.PaymentMethodCash,
	})

	require.NoError(t, err)
	assert.Equal(t, existing.ID, m.ID)
}

func TestAddEarning_InvalidInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	wallets := storagemock.NewMockWalletRepository(ctrl)
	svc := ledger.New(wallets, testConfig())

	_, err := svc.AddEarning(context.Background(), uuid.New(), uuid.New(), earning.Input{
		BillingAmount: dec(400),
		PaymentMethod: model.PaymentMethod("barter"),
	})

	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestAddPenalty_NegativeFlooredEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	wallets := storagemock.NewMockWalletRepository(ctrl)
	svc := ledger.New(wallets, testConfig())

	vendorID := uuid.New()
	caseID := uuid.New()

	wallets.EXPECT().Ensure(gomock.Any(), vendorID, gomock.Any()).Return(&model.Wallet{VendorID: vendorID}, nil)
	wallets.EXPECT().
		Apply(gomock.Any(), gomock.Any(), storage.ApplyOptions{FloorAtZero: true}).
		DoAndReturn(func(_ context.Context, m *model.Transaction, _ storage.ApplyOptions) (*model.Transaction, error) {
			assert.Equal(t, model.TransactionTypePenalty, m.TypeID)
			assert.Equal(t, model.PenaltyRejection, m.PenaltyKind)
			assert.True(t, dec(-100).Equal(m.Amount), "amount %s", m.Amount)
			return m, nil
		})

	_, err := svc.AddPenalty(context.Background(), vendorID, caseID, model.PenaltyRejection, dec(100), "assignment declined")
	require.NoError(t, err)
}

func TestAddPenalty_RejectsBadKindAndAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	wallets := storagemock.NewMockWalletRepository(ctrl)
	svc := ledger.New(wallets, testConfig())

	_, err := svc.AddPenalty(context.Background(), uuid.New(), uuid.New(), model.PenaltyKind("late"), dec(100), "")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.AddPenalty(context.Background(), uuid.New(), uuid.New(), model.PenaltyRejection, dec(-5), "")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.AddPenalty(context.Background(), uuid.New(), uuid.New(), model.PenaltyRejection, decimal.Zero, "")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestAddCashCollectionDeduction_ZeroBelowThreshold(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	wallets := storagemock.NewMockWalletRepository(ctrl)
	svc := ledger.New(wallets, testConfig())

	vendorID := uuid.New()

	wallets.EXPECT().Ensure(gomock.Any(), vendorID, gomock.Any()).Return(&model.Wallet{VendorID: vendorID}, nil)
	wallets.EXPECT().
		Apply(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m *model.Transaction, _ storage.ApplyOptions) (*model.Transaction, error) {
			assert.Equal(t, model.TransactionTypeCashCollection, m.TypeID)
			assert.True(t, m.Amount.IsZero(), "amount %s", m.Amount)
			return m, nil
		})

	_, err := svc.AddCashCollectionDeduction(context.Background(), vendorID, uuid.New(), earning.Input{
		BillingAmount: dec(400),
		PaymentMethod: model.PaymentMethodCash,
	})
	require.NoError(t, err)
}

func TestAddCashCollectionDeduction_AboveThreshold(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	wallets := storagemock.NewMockWalletRepository(ctrl)
	svc := ledger.New(wallets, testConfig())

	vendorID := uuid.New()

	wallets.EXPECT().Ensure(gomock.Any(), vendorID, gomock.Any()).Return(&model.Wallet{VendorID: vendorID}, nil)
	wallets.EXPECT().
		Apply(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m *model.Transaction, _ storage.ApplyOptions) (*model.Transaction, error) {
			assert.True(t, dec(-425).Equal(m.Amount), "amount %s", m.Amount)
			return m, nil
		})

	_, err := svc.AddCashCollectionDeduction(context.Background(), vendorID, uuid.New(), earning.Input{
		BillingAmount: dec(1000),
		SpareAmount:   dec(100),
		TravelAmount:  dec(50),
		PaymentMethod: model.PaymentMethodCash,
	})
	require.NoError(t, err)
}

func TestAddWithdrawal_GuardsAvailableBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	wallets := storagemock.NewMockWalletRepository(ctrl)
	svc := ledger.New(wallets, testConfig())

	vendorID := uuid.New()

	wallets.EXPECT().
		Apply(gomock.Any(), gomock.Any(), storage.ApplyOptions{GuardAvailable: true}).
		Return(nil, apperr.ErrInsufficientFunds)

	_, err := svc.AddWithdrawal(context.Background(), vendorID, dec(500), "payout")
	assert.ErrorIs(t, err, apperr.ErrInsufficientFunds)
}

func TestAddWithdrawal_NegativeAmountRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	wallets := storagemock.NewMockWalletRepository(ctrl)
	svc := ledger.New(wallets, testConfig())

	_, err := svc.AddWithdrawal(context.Background(), uuid.New(), dec(-10), "")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestAddDeposit_PositiveEntryNoCase(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	wallets := storagemock.NewMockWalletRepository(ctrl)
	svc := ledger.New(wallets, testConfig())

	vendorID := uuid.New()

	wallets.EXPECT().Ensure(gomock.Any(), vendorID, gomock.Any()).Return(&model.Wallet{VendorID: vendorID}, nil)
	wallets.EXPECT().
		Apply(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m *model.Transaction, _ storage.ApplyOptions) (*model.Transaction, error) {
			assert.Equal(t, model.TransactionTypeDeposit, m.TypeID)
			assert.Nil(t, m.CaseID)
			assert.True(t, dec(1500).Equal(m.Amount))
			return m, nil
		})

	_, err := svc.AddDeposit(context.Background(), vendorID, dec(1500), "security deposit top-up")
	require.NoError(t, err)
}

func TestAddManualAdjustment_KeepsSign(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	wallets := storagemock.NewMockWalletRepository(ctrl)
	svc := ledger.New(wallets, testConfig())

	vendorID := uuid.New()

	wallets.EXPECT().Ensure(gomock.Any(), vendorID, gomock.Any()).Return(&model.Wallet{VendorID: vendorID}, nil)
	wallets.EXPECT().
		Apply(gomock.Any(), gomock.Any(), storage.ApplyOptions{FloorAtZero: true}).
		DoAndReturn(func(_ context.Context, m *model.Transaction, _ storage.ApplyOptions) (*model.Transaction, error) {
			assert.True(t, dec(-30).Equal(m.Amount))
			return m, nil
		})

	_, err := svc.AddManualAdjustment(context.Background(), vendorID, dec(-30), "correction")
	require.NoError(t, err)

	_, err = svc.AddManualAdjustment(context.Background(), vendorID, decimal.Zero, "nothing")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}
