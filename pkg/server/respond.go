package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/wayfinder/pkg/errors"
)

// errorResponse is the JSON body for every failed request.
type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	writeJSON(w, statusFor(code), errorResponse{
		Error: errors.UserMessage(err),
		Code:  code,
	})
}

// statusFor maps an error code to an HTTP status. Unknown codes are
// treated as internal failures.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidMap,
		errors.ErrCodeInvalidEndpoint,
		errors.ErrCodeInvalidConfig,
		errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errors.ErrCodeNoSuchNode,
		errors.ErrCodeNoSuchEdge,
		errors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case errors.ErrCodeSessionExpired:
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}
