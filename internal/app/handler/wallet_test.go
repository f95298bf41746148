package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendorpay/internal/app/config"
	"vendorpay/internal/app/handler"
	"vendorpay/internal/app/model"
	"vendorpay/internal/app/service/ledger"
	"vendorpay/internal/app/storage"
	storagemock "vendorpay/internal/app/storage/mock"
)

func refundRequest(t *testing.T, vendorID uuid.UUID, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/vendors/"+vendorID.String()+"/wallet/refund", strings.NewReader(body))

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", vendorID.String())
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestWalletRefund_AcceptsAnyUUIDVersion(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	wallets := storagemock.NewMockWalletRepository(ctrl)
	h := handler.NewWalletHandler(ledger.New(wallets, config.LedgerConfig{}))

	vendorID := uuid.New()
	// name-based v3 id, as an upstream system might mint
	caseID := uuid.NewMD5(uuid.NameSpaceDNS, []byte("case-42"))

	wallets.EXPECT().Ensure(gomock.Any(), vendorID, gomock.Any()).Return(&model.Wallet{VendorID: vendorID}, nil)
	wallets.EXPECT().Apply(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m *model.Transaction, _ storage.ApplyOptions) (*model.Transaction, error) {
			require.NotNil(t, m.CaseID)
			assert.Equal(t, caseID, *m.CaseID)
			return m, nil
		})

	rec := httptest.NewRecorder()
	h.Refund(rec, refundRequest(t, vendorID,
		`{"case_id":"`+caseID.String()+`","amount":"120","description":"parts returned"}`))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestWalletRefund_RejectsMalformedCaseID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	wallets := storagemock.NewMockWalletRepository(ctrl)
	h := handler.NewWalletHandler(ledger.New(wallets, config.LedgerConfig{}))

	rec := httptest.NewRecorder()
	h.Refund(rec, refundRequest(t, uuid.New(), `{"case_id":"42","amount":"120"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
