package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/jetleads/internal/usecase"
)

const maxBodyBytes = 64 << 10

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// decodeJSON reads at most maxBodyBytes. The error is handed to the use case
// so malformed bodies still count against the caller's rate limit.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	return dec.Decode(dst)
}

// writeUseCaseError maps use case errors to status codes. Anything
// unclassified is a 500 with a generic message.
func writeUseCaseError(w http.ResponseWriter, err error) {
	var (
		throttled   *usecase.ThrottledError
		validation  *usecase.ValidationError
		conflict    *usecase.ConflictError
		notFound    *usecase.NotFoundError
		persistence *usecase.PersistenceError
	)

	switch {
	case errors.As(err, &throttled):
		if wait := time.Until(throttled.RetryAt); wait > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(int(wait.Seconds())+1))
		}
		writeErrorResponse(w, http.StatusTooManyRequests, usecase.CodeRateLimited, throttled.Error())
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Code:    usecase.CodeValidation,
			Details: validation.Fields,
		})
	case errors.As(err, &conflict):
		writeErrorResponse(w, http.StatusBadRequest, conflict.Code, conflict.Message)
	case errors.As(err, &notFound):
		writeErrorResponse(w, http.StatusNotFound, notFound.Code, notFound.Message)
	case errors.As(err, &persistence):
		writeErrorResponse(w, http.StatusInternalServerError, usecase.CodePersistence, persistence.Error())
	default:
		logrus.WithError(err).Error("unhandled use case error")
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
