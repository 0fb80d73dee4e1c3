package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/skillswap/internal/logger"
	"github.com/sbilibin2017/skillswap/internal/models"
)

// DefaultIdleTimeout is how long a session survives without a gated request.
const DefaultIdleTimeout = 30 * time.Minute

// SessionStore persists session records.
type SessionStore interface {
	Save(ctx context.Context, session *models.Session) error
	Refresh(ctx context.Context, session *models.Session) (bool, error)
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}

// SessionService owns the session lifecycle: start on login, touch on every
// gated request, end on logout or idle expiry.
type SessionService struct {
	store       SessionStore
	idleTimeout time.Duration
	now         func() time.Time
	newID       func() string
}

// SessionOption configures a SessionService.
type SessionOption func(*SessionService)

// WithIdleTimeout sets the idle timeout.
func WithIdleTimeout(d time.Duration) SessionOption {
	return func(s *SessionService) {
		s.idleTimeout = d
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) SessionOption {
	return func(s *SessionService) {
		s.now = now
	}
}

// WithIDGenerator replaces the session id generator.
func WithIDGenerator(newID func() string) SessionOption {
	return func(s *SessionService) {
		s.newID = newID
	}
}

// NewSessionService creates a new SessionService instance.
func NewSessionService(store SessionStore, opts ...SessionOption) *SessionService {
	s := &SessionService{
		store:       store,
		idleTimeout: DefaultIdleTimeout,
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IdleTimeout returns the configured idle timeout.
func (s *SessionService) IdleTimeout() time.Duration {
	return s.idleTimeout
}

// Start creates and persists a session for userID.
func (s *SessionService) Start(ctx context.Context, userID int64) (*models.Session, error) {
	now := s.now().UTC()
	session := &models.Session{
		ID:           s.newID(),
		UserID:       userID,
		LoginTime:    now,
		LastActivity: now,
	}

	if err := s.store.Save(ctx, session); err != nil {
		logger.Log.Errorw("failed to save session", "user_id", userID, "err", err)
		return nil, err
	}

	logger.Log.Infow("session started", "user_id", userID)
	return session, nil
}

// Touch checks the idle timeout and refreshes last activity.
// An idle session is deleted and ErrSessionExpired returned.
func (s *SessionService) Touch(ctx context.Context, id string) (*models.Session, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to load session", "err", err)
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	now := s.now().UTC()
	if now.Sub(session.LastActivity) > s.idleTimeout {
		if err := s.store.Delete(ctx, id); err != nil {
			logger.Log.Errorw("failed to delete expired session", "user_id", session.UserID, "err", err)
			return nil, err
		}
		logger.Log.Infow("session expired", "user_id", session.UserID, "idle", now.Sub(session.LastActivity))
		return nil, ErrSessionExpired
	}

	// Refresh only overwrites a record that still exists, so a concurrent
	// logout or expiry is not undone.
	session.LastActivity = now
	refreshed, err := s.store.Refresh(ctx, session)
	if err != nil {
		logger.Log.Errorw("failed to refresh session", "user_id", session.UserID, "err", err)
		return nil, err
	}
	if !refreshed {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// End deletes the session.
func (s *SessionService) End(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		logger.Log.Errorw("failed to delete session", "err", err)
		return err
	}
	return nil
}
