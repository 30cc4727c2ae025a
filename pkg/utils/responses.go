package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"store-rating/internal/apperr"
)

type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// ResponseJSON writes the standard envelope with a custom status code.
func ResponseJSON(w http.ResponseWriter, code int, status bool, message string, data, errs any) {
	response := Response{
		Status:  status,
		Message: message,
		Data:    data,
		Errors:  errs,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(response)
}

func ResponseSuccess(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusOK, true, message, data, nil)
}

func ResponseCreated(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusCreated, true, message, data, nil)
}

func ResponseBadRequest(w http.ResponseWriter, message string, errs any) {
	ResponseJSON(w, http.StatusBadRequest, false, message, nil, errs)
}

func ResponseUnauthorized(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusUnauthorized, false, message, nil, nil)
}

func ResponseForbidden(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusForbidden, false, message, nil, nil)
}

func ResponseNotFound(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusNotFound, false, message, nil, nil)
}

func ResponseConflict(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusConflict, false, message, nil, nil)
}

func ResponseUnavailable(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusServiceUnavailable, false, message, nil, nil)
}

func ResponseInternalError(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusInternalServerError, false, message, nil, nil)
}

// ResponseError maps the apperr taxonomy onto HTTP status codes. Forbidden is
// surfaced distinctly from NotFound so clients can redirect instead of
// treating the resource as missing.
func ResponseError(w http.ResponseWriter, err error) {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		ResponseBadRequest(w, ve.Message, ve.Fields)
		return
	}

	switch {
	case apperr.IsNotFound(err):
		ResponseNotFound(w, err.Error())
	case apperr.IsForbidden(err):
		ResponseForbidden(w, err.Error())
	case apperr.IsUnauthorized(err):
		ResponseUnauthorized(w, err.Error())
	case apperr.IsConflict(err):
		ResponseConflict(w, err.Error())
	case apperr.IsUnavailable(err):
		ResponseUnavailable(w, err.Error())
	default:
		ResponseInternalError(w, "Internal server error")
	}
}
