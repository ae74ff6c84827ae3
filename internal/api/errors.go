package api

import (
	"encoding/json"
	"net/http"

	"github.com/nerrad567/smarthouse/internal/home"
)

// Error represents a structured error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes.
const (
	ErrCodeBadRequest     = "bad_request"
	ErrCodeNotFound       = "not_found"
	ErrCodeConflict       = "conflict"
	ErrCodeUnavailable    = "unavailable"
	ErrCodeInternal       = "internal_error"
	ErrCodeMethodNotAllow = "method_not_allowed"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// writeNotFound writes a 404 error response.
func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// statusForKind maps a repository error kind to an HTTP status and error code.
func statusForKind(k home.Kind) (int, string) {
	switch k {
	case home.KindNotFound:
		return http.StatusNotFound, ErrCodeNotFound
	case home.KindConflict:
		return http.StatusConflict, ErrCodeConflict
	case home.KindUnavailable:
		return http.StatusServiceUnavailable, ErrCodeUnavailable
	default:
		return http.StatusInternalServerError, ErrCodeInternal
	}
}

// writeRepoError maps a repository error onto its HTTP response.
// Not-found errors are expected traffic and are not logged.
func (s *Server) writeRepoError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusForKind(home.KindOf(err))
	if status != http.StatusNotFound {
		s.logger.Error("repository operation failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"error", err,
			"request_id", requestIDFrom(r.Context()),
		)
	}
	writeError(w, status, code, err.Error())
}
