package server

import (
	"encoding/json"
	"net/http"

	"github.com/causemap/causemap/pkg/errors"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the standard error envelope.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code errors.Code, msg string) {
	writeJSON(w, status, errorResponse{Error: string(code), Message: msg})
}

// writeDomainError maps an error from the pipeline onto an HTTP status
// using its structured code.
func writeDomainError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	writeError(w, statusForCode(code), code, errors.UserMessage(err))
}

func statusForCode(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidParameter,
		errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidSession:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
