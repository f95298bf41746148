package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"vendorpay/internal/app/apperr"
	"vendorpay/internal/app/logger"
	"vendorpay/internal/app/model"
	"vendorpay/internal/app/service/autoreject"
	"vendorpay/internal/app/service/taskflow"
)

type WorkUnitHandler struct {
	flow    *taskflow.Service
	sweeper *autoreject.Service
}

func NewWorkUnitHandler(flow *taskflow.Service, sweeper *autoreject.Service) *WorkUnitHandler {
	return &WorkUnitHandler{
		flow:    flow,
		sweeper: sweeper,
	}
}

func unitID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperr.ErrInvalidInput
	}
	return id, nil
}

func (h *WorkUnitHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Get(ctx, "Handler.WorkUnit.Create")
	l.Debug().Send()

	in := &struct {
		Kind string `json:"kind" validate:"required,oneof=ticket booking"`
	}{}
	if err := readBody(r, in); err != nil {
		WriteError(w, err, http.StatusBadRequest)
		return
	}
	if !validateData(w, in) {
		return
	}

	m, err := h.flow.Create(ctx, model.WorkUnitKind(in.Kind))
	if err != nil {
		l.Debug().Err(err).Send()
		writeDomainError(w, err)
		return
	}

	WriteResponse(w, m, http.StatusCreated)
}

func (h *WorkUnitHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := unitID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	m, err := h.flow.Read(ctx, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	WriteResponse(w, m, http.StatusOK)
}

func (h *WorkUnitHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := unitID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	mm, err := h.flow.History(ctx, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	WriteResponse(w, mm, http.StatusOK)
}

func (h *WorkUnitHandler) Assign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Get(ctx, "Handler.WorkUnit.Assign")
	l.Debug().Send()

	actor, err := ReadContextActor(ctx)
	if err != nil {
		WriteError(w, err, http.StatusUnauthorized)
		return
	}

	id, err := unitID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	in := &struct {
		VendorID string `json:"vendor_id" validate:"required,uuid"`
		Notes    string `json:"notes"`
	}{}
	if err := readBody(r, in); err != nil {
		WriteError(w, err, http.StatusBadRequest)
		return
	}
	if !validateData(w, in) {
		return
	}

	vendorID, err := uuid.Parse(in.VendorID)
	if err != nil {
		writeDomainError(w, apperr.ErrInvalidInput)
		return
	}

	m, err := h.flow.Assign(ctx, id, vendorID, actor.ID.String(), in.Notes)
	if err != nil {
		l.Debug().Err(err).Send()
		writeDomainError(w, err)
		return
	}

	WriteResponse(w, m, http.StatusOK)
}

func (h *WorkUnitHandler) Accept(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Get(ctx, "Handler.WorkUnit.Accept")
	l.Debug().Send()

	actor, err := ReadContextActor(ctx)
	if err != nil {
		WriteError(w, err, http.StatusUnauthorized)
		return
	}

	id, err := unitID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	m, err := h.flow.Accept(ctx, id, actor.ID)
	if err != nil {
		l.Debug().Err(err).Send()
		writeDomainError(w, err)
		return
	}

	WriteResponse(w, m, http.StatusOK)
}

func (h *WorkUnitHandler) Decline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Get(ctx, "Handler.WorkUnit.Decline")
	l.Debug().Send()

	actor, err := ReadContextActor(ctx)
	if err != nil {
		WriteError(w, err, http.StatusUnauthorized)
		return
	}

	id, err := unitID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	in := &struct {
		Reason string `json:"reason" validate:"required"`
	}{}
	if err := readBody(r, in); err != nil {
		WriteError(w, err, http.StatusBadRequest)
		return
	}
	if !validateData(w, in) {
		return
	}

	m, err := h.flow.Decline(ctx, id, actor.ID, in.Reason)
	if err != nil {
		l.Debug().Err(err).Send()
		writeDomainError(w, err)
		return
	}

	WriteResponse(w, m, http.StatusOK)
}

type completionRequest struct {
	Resolution    string            `json:"resolution" validate:"required"`
	SpareParts    []model.SparePart `json:"spare_parts"`
	SpareAmount   decimal.Decimal   `json:"spare_amount"`
	TravelAmount  decimal.Decimal   `json:"travel_amount"`
	BillingAmount decimal.Decimal   `json:"billing_amount"`
	BookingAmount decimal.Decimal   `json:"booking_amount"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=online cash"`
	GSTIncluded   bool              `json:"gst_included"`
	GSTAmount     decimal.Decimal   `json:"gst_amount"`
}

func (h *WorkUnitHandler) Complete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Get(ctx, "Handler.WorkUnit.Complete")
	l.Debug().Send()

	actor, err := ReadContextActor(ctx)
	if err != nil {
		WriteError(w, err, http.StatusUnauthorized)
		return
	}

	id, err := unitID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	in := &completionRequest{}
	if err := readBody(r, in); err != nil {
		WriteError(w, err, http.StatusBadRequest)
		return
	}
	if !validateData(w, in) {
		return
	}

	m, err := h.flow.Complete(ctx, id, actor.ID, &model.Completion{
		Resolution:    in.Resolution,
		SpareParts:    in.SpareParts,
		SpareAmount:   in.SpareAmount,
		TravelAmount:  in.TravelAmount,
		BillingAmount: in.BillingAmount,
		BookingAmount: in.BookingAmount,
		PaymentMethod: model.PaymentMethod(in.PaymentMethod),
		GSTIncluded:   in.GSTIncluded,
		GSTAmount:     in.GSTAmount,
	})
	if err != nil {
		l.Debug().Err(err).Send()
		writeDomainError(w, err)
		return
	}

	WriteResponse(w, m, http.StatusOK)
}

func (h *WorkUnitHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Get(ctx, "Handler.WorkUnit.Cancel")
	l.Debug().Send()

	actor, err := ReadContextActor(ctx)
	if err != nil {
		WriteError(w, err, http.StatusUnauthorized)
		return
	}

	id, err := unitID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	in := &struct {
		Reason string `json:"reason" validate:"required"`
	}{}
	if err := readBody(r, in); err != nil {
		WriteError(w, err, http.StatusBadRequest)
		return
	}
	if !validateData(w, in) {
		return
	}

	m, err := h.flow.Cancel(ctx, id, actor.ID, in.Reason)
	if err != nil {
		l.Debug().Err(err).Send()
		writeDomainError(w, err)
		return
	}

	WriteResponse(w, m, http.StatusOK)
}

// ConfirmPayment is the explicit settlement trigger: the payment gateway's
// confirmation webhook handler (outside this service) or an operator calls it
// once the money is in.
func (h *WorkUnitHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Get(ctx, "Handler.WorkUnit.ConfirmPayment")
	l.Debug().Send()

	id, err := unitID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	m, err := h.flow.ConfirmPayment(ctx, id)
	if err != nil {
		l.Debug().Err(err).Send()
		writeDomainError(w, err)
		return
	}

	WriteResponse(w, m, http.StatusOK)
}

// Sweep manually triggers one auto-reject scan.
func (h *WorkUnitHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Get(ctx, "Handler.WorkUnit.Sweep")
	l.Debug().Send()

	n, err := h.sweeper.Sweep(ctx)
	if err != nil {
		l.Error().Err(err).Send()
		writeDomainError(w, err)
		return
	}

	WriteResponse(w, struct {
		AutoRejected int `json:"auto_rejected"`
	}{n}, http.StatusOK)
}
