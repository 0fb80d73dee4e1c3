package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/skillswap/internal/logger"
	"github.com/sbilibin2017/skillswap/internal/middlewares"
	"github.com/sbilibin2017/skillswap/internal/models"
	"github.com/sbilibin2017/skillswap/internal/services"
)

// ErrorResponse represents an error response
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Error message
	// default: Internal server error
	Error string `json:"error"`

	// Optional detail
	Message string `json:"message,omitempty"`

	// Field-level validation messages
	Fields map[string]string `json:"fields,omitempty"`
}

// MessageResponse represents a plain confirmation
// swagger:model MessageResponse
type MessageResponse struct {
	// default: OK
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeServiceError maps a service error to its HTTP status. Unexpected
// errors are logged and reported without detail.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: verr.Err.Error(), Fields: verr.Fields})
	case errors.Is(err, services.ErrUserAlreadyExists):
		writeError(w, http.StatusBadRequest, "Username or email already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, models.ErrInvalidValue):
		writeError(w, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	default:
		logger.Log.Errorw("internal server error", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeJSON reads the request body into v, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// currentSession returns the session set by the session middleware,
// answering 401 when there is none.
func currentSession(w http.ResponseWriter, r *http.Request) (*models.Session, bool) {
	session := middlewares.SessionFromContext(r.Context())
	if session == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return nil, false
	}
	return session, true
}

// pathID parses the {id} URL parameter, answering 404 when it is not a
// positive integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusNotFound, "Not found")
		return 0, false
	}
	return id, true
}
