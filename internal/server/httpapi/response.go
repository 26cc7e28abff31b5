package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/obslog/internal/common"
)

// errorBody is the JSON shape of every failed response.
type errorBody struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps the sentinel error kinds onto HTTP statuses and the
// stable error codes clients match on.
func writeError(w http.ResponseWriter, err error) {
	code := "INTERNAL"
	status := http.StatusInternalServerError
	message := "Internal server error"
	var fields []string

	var appErr *common.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
		fields = appErr.Fields
	}

	switch {
	case errors.Is(err, common.ErrValidation):
		code, status = "VALIDATION_ERROR", http.StatusBadRequest
	case errors.Is(err, common.ErrInvalidTransition):
		code, status = "INVALID_TRANSITION", http.StatusBadRequest
	case errors.Is(err, common.ErrUnauthorized):
		code, status = "UNAUTHORIZED", http.StatusUnauthorized
	case errors.Is(err, common.ErrNotFound):
		code, status = "NOT_FOUND", http.StatusNotFound
	case errors.Is(err, common.ErrMailDelivery):
		code, status = "MAIL_DELIVERY_FAILED", http.StatusInternalServerError
	}

	writeJSON(w, status, errorBody{Code: code, Message: message, Fields: fields})
}

func writeUnauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, errorBody{Code: "UNAUTHORIZED", Message: "Login required"})
}
