package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"vendorpay/internal/app/apperr"
)

// readBody into json struct
func readBody(r *http.Request, v interface{}) error {
	body, err := io.ReadAll(r.Body)
	_ = r.Body.Close()
	if err != nil {
		return fmt.Errorf("body read: %w", err)
	}

	err = json.Unmarshal(body, v)
	if err != nil {
		return fmt.Errorf("json decode: %w", err)
	}

	return nil
}

type jsonError struct {
	Message string `json:"error"`
}

// WriteError formatted in json
func WriteError(w http.ResponseWriter, err error, statusCode int) {
	WriteResponse(w, &jsonError{Message: err.Error()}, statusCode)
}

// WriteResponse formatted in json
func WriteResponse(w http.ResponseWriter, v interface{}, statusCode int) {
	resBody, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(resBody)
}

// writeDomainError maps the typed error taxonomy onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrInvalidInput):
		WriteError(w, err, http.StatusUnprocessableEntity)
	case errors.Is(err, apperr.ErrNotFound):
		WriteError(w, err, http.StatusNotFound)
	case errors.Is(err, apperr.ErrNotAssignedVendor):
		WriteError(w, err, http.StatusForbidden)
	case errors.Is(err, apperr.ErrInvalidState), errors.Is(err, apperr.ErrConflict):
		WriteError(w, err, http.StatusConflict)
	case errors.Is(err, apperr.ErrInsufficientFunds):
		WriteError(w, err, http.StatusPaymentRequired)
	case errors.Is(err, apperr.ErrUnauthorized):
		WriteError(w, err, http.StatusUnauthorized)
	default:
		WriteError(w, err, http.StatusInternalServerError)
	}
}

type ValidationErrorResponse struct {
	Errors ValidationErrors `json:"errors"`
}

type ValidationErrors []ValidationError

type ValidationError struct {
	Msg   string `json:"msg"`
	Param string `json:"param"`
	Value string `json:"value"`
}

// validateData and send errors, returns true if no validation errors
func validateData(w http.ResponseWriter, v interface{}) bool {
	validate := validator.New()
	err := validate.Struct(v)
	if err != nil {
		errs := make(ValidationErrors, 0)
		for _, err := range err.(validator.ValidationErrors) {
			errs = append(errs, ValidationError{
				Msg:   err.Error(),
				Param: err.Field(),
				Value: fmt.Sprintf("%v", err.Value()),
			})
		}
		WriteResponse(w, ValidationErrorResponse{errs}, http.StatusBadRequest)
		return false
	}

	return true
}

// Actor is the identity performing a request: a vendor acting on their
// assignment or an operator acting on a wallet.
type Actor struct {
	ID   uuid.UUID
	Role string
}

type ContextKeyActor struct{}

func ReadContextActor(ctx context.Context) (Actor, error) {
	if a, ok := ctx.Value(ContextKeyActor{}).(Actor); ok {
		return a, nil
	}
	return Actor{}, apperr.ErrUnauthorized
}
