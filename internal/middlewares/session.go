package middlewares

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sbilibin2017/skillswap/internal/logger"
	"github.com/sbilibin2017/skillswap/internal/models"
	"github.com/sbilibin2017/skillswap/internal/services"
)

// Sessioner validates and refreshes a session.
type Sessioner interface {
	Touch(ctx context.Context, id string) (*models.Session, error)
}

// SessionCookier reads and writes the session cookie.
type SessionCookier interface {
	GetSessionIDFromRequest(ctx context.Context, r *http.Request) (string, error)
	Set(ctx context.Context, w http.ResponseWriter, sessionID string)
	Clear(ctx context.Context, w http.ResponseWriter)
}

// ErrorResponse is the JSON body of a rejected request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: msg, Message: detail})
}

// SessionMiddleware admits only requests carrying a live session. The
// session's last activity is refreshed and the cookie re-issued on every
// admitted request.
func SessionMiddleware(sessions Sessioner, cookie SessionCookier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			sessionID, err := cookie.GetSessionIDFromRequest(ctx, r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Authentication required", "")
				return
			}

			session, err := sessions.Touch(ctx, sessionID)
			switch {
			case errors.Is(err, services.ErrSessionExpired):
				cookie.Clear(ctx, w)
				writeError(w, http.StatusUnauthorized, "Session expired", "Please log in again")
				return
			case errors.Is(err, services.ErrSessionNotFound):
				cookie.Clear(ctx, w)
				writeError(w, http.StatusUnauthorized, "Authentication required", "")
				return
			case err != nil:
				logger.Log.Errorw("failed to check session", "err", err)
				writeError(w, http.StatusInternalServerError, "Internal server error", "")
				return
			}

			cookie.Set(ctx, w, session.ID)
			next.ServeHTTP(w, r.WithContext(ContextWithSession(ctx, session)))
		})
	}
}

type sessionKey struct{}

// ContextWithSession stores the caller's session in ctx.
func ContextWithSession(ctx context.Context, session *models.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the session stored by SessionMiddleware, or nil.
func SessionFromContext(ctx context.Context) *models.Session {
	session, _ := ctx.Value(sessionKey{}).(*models.Session)
	return session
}
