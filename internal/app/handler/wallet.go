package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"vendorpay/internal/app/apperr"
	"vendorpay/internal/app/logger"
	"vendorpay/internal/app/service/ledger"
)

type WalletHandler struct {
	ledger *ledger.Service
}

func NewWalletHandler(l *ledger.Service) *WalletHandler {
	return &WalletHandler{
		ledger: l,
	}
}

func vendorID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperr.ErrInvalidInput
	}
	return id, nil
}

func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Get(ctx, "Handler.Wallet.Balance")
	l.Debug().Send()

	id, err := vendorID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	wallet, err := h.ledger.Balance(ctx, id)
	if err != nil {
		l.Debug().Err(err).Send()
		writeDomainError(w, err)
		return
	}

	out := struct {
		Current   decimal.Decimal `json:"current"`
		Available decimal.Decimal `json:"available"`
		Deposit   decimal.Decimal `json:"security_deposit"`
	}{
		Current:   wallet.Balance,
		Available: wallet.Available(),
		Deposit:   wallet.SecurityDeposit,
	}

	WriteResponse(w, out, http.StatusOK)
}

func (h *WalletHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Get(ctx, "Handler.Wallet.Transactions")
	l.Debug().Send()

	id, err := vendorID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	mm, err := h.ledger.Transactions(ctx, id, limit)
	if err != nil {
		l.Debug().Err(err).Send()
		writeDomainError(w, err)
		return
	}

	WriteResponse(w, mm, http.StatusOK)
}

func (h *WalletHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Get(ctx, "Handler.Wallet.Monthly")
	l.Debug().Send()

	id, err := vendorID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	months, _ := strconv.Atoi(r.URL.Query().Get("months"))

	mm, err := h.ledger.MonthlyEarnings(ctx, id, months)
	if err != nil {
		l.Debug().Err(err).Send()
		writeDomainError(w, err)
		return
	}

	WriteResponse(w, mm, http.StatusOK)
}

type amountRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

func (h *WalletHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Get(ctx, "Handler.Wallet.Deposit")
	l.Debug().Send()

	id, err := vendorID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	in := &amountRequest{}
	if err := readBody(r, in); err != nil {
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	m, err := h.ledger.AddDeposit(ctx, id, in.Amount, in.Description)
	if err != nil {
		l.Debug().Err(err).Send()
		writeDomainError(w, err)
		return
	}

	WriteResponse(w, m, http.StatusOK)
}

func (h *WalletHandler) Withdrawal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Get(ctx, "Handler.Wallet.Withdrawal")
	l.Debug().Send()

	id, err := vendorID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	in := &amountRequest{}
	if err := readBody(r, in); err != nil {
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	m, err := h.ledger.AddWithdrawal(ctx, id, in.Amount, in.Description)
	if err != nil {
		l.Debug().Err(err).Send()
		writeDomainError(w, err)
		return
	}

	WriteResponse(w, m, http.StatusOK)
}

func (h *WalletHandler) Refund(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Get(ctx, "Handler.Wallet.Refund")
	l.Debug().Send()

	id, err := vendorID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	in := &struct {
		CaseID      string          `json:"case_id" validate:"required,uuid"`
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description"`
	}{}
	if err := readBody(r, in); err != nil {
		WriteError(w, err, http.StatusBadRequest)
		return
	}
	if !validateData(w, in) {
		return
	}

	caseID, err := uuid.Parse(in.CaseID)
	if err != nil {
		writeDomainError(w, apperr.ErrInvalidInput)
		return
	}

	m, err := h.ledger.AddRefund(ctx, id, caseID, in.Amount, in.Description)
	if err != nil {
		l.Debug().Err(err).Send()
		writeDomainError(w, err)
		return
	}

	WriteResponse(w, m, http.StatusOK)
}

func (h *WalletHandler) Adjustment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Get(ctx, "Handler.Wallet.Adjustment")
	l.Debug().Send()

	id, err := vendorID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	in := &amountRequest{}
	if err := readBody(r, in); err != nil {
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	m, err := h.ledger.AddManualAdjustment(ctx, id, in.Amount, in.Description)
	if err != nil {
		l.Debug().Err(err).Send()
		writeDomainError(w, err)
		return
	}

	WriteResponse(w, m, http.StatusOK)
}

// Rebuild refolds the cached balance and counters from the transaction log.
func (h *WalletHandler) Rebuild(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Get(ctx, "Handler.Wallet.Rebuild")
	l.Debug().Send()

	id, err := vendorID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	wallet, err := h.ledger.RebuildAggregates(ctx, id)
	if err != nil {
		l.Error().Err(err).Send()
		writeDomainError(w, err)
		return
	}

	WriteResponse(w, wallet, http.StatusOK)
}
