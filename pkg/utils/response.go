package utils

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"workshop-backend/internal/apperrors"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Error maps a business error to its HTTP status and writes it as JSON.
// Errors outside the taxonomy are logged and surfaced as opaque 500s so
// callers can tell "your request was invalid" from "try again".
func Error(w http.ResponseWriter, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		log.Printf("[HTTP] internal error: %v", err)
		JSON(w, http.StatusInternalServerError, errorBody{Error: "Internal server error"})
		return
	}

	JSON(w, statusFor(appErr.Kind), errorBody{Error: appErr.Message, Code: string(appErr.Kind)})
}

func statusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindForbidden:
		return http.StatusForbidden
	case apperrors.KindUnauthorized:
		return http.StatusUnauthorized
	case apperrors.KindDuplicate:
		return http.StatusConflict
	case apperrors.KindInvalidTransition,
		apperrors.KindInvalidState,
		apperrors.KindPaymentIncomplete,
		apperrors.KindInvalidAmount,
		apperrors.KindMalformedCode,
		apperrors.KindInvalidInput:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
