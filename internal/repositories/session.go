package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/skillswap/internal/logger"
	"github.com/sbilibin2017/skillswap/internal/models"
)

// SessionRepository keeps session records in Redis.
type SessionRepository struct {
	client *redis.Client
	exp    time.Duration // how long an untouched record is retained
}

// NewSessionRepository creates a repository whose records expire after retention.
func NewSessionRepository(client *redis.Client, retention time.Duration) *SessionRepository {
	return &SessionRepository{
		client: client,
		exp:    retention,
	}
}

func sessionKey(id string) string {
	return "session:" + id
}

// Save writes the session and resets its retention.
func (r *SessionRepository) Save(ctx context.Context, session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	err = r.client.Set(ctx, sessionKey(session.ID), data, r.exp).Err()

	logger.Log.Debugw("session saved", "user_id", session.UserID, "error", err)

	return err
}

// Refresh overwrites an existing session and resets its retention.
// It reports false, writing nothing, when the session no longer exists.
func (r *SessionRepository) Refresh(ctx context.Context, session *models.Session) (bool, error) {
	data, err := json.Marshal(session)
	if err != nil {
		return false, err
	}

	ok, err := r.client.SetXX(ctx, sessionKey(session.ID), data, r.exp).Result()
	if errors.Is(err, redis.Nil) {
		ok, err = false, nil
	}

	logger.Log.Debugw("session refreshed", "user_id", session.UserID, "found", ok, "error", err)

	return ok, err
}

// Get returns the session or nil when it does not exist.
func (r *SessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	val, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		logger.Log.Errorw("failed to read session", "error", err)
		return nil, err
	}

	var session models.Session
	if err := json.Unmarshal(val, &session); err != nil {
		logger.Log.Errorw("failed to decode session", "error", err)
		return nil, err
	}
	return &session, nil
}

// Delete removes the session. Deleting a missing session is not an error.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	err := r.client.Del(ctx, sessionKey(id)).Err()

	logger.Log.Debugw("session deleted", "error", err)

	return err
}
