package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/skillswap/internal/logger"
)

// Schema creates the tables used by the service. It is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	username VARCHAR(150) NOT NULL UNIQUE,
	email VARCHAR(254) NOT NULL UNIQUE,
	password_hash VARCHAR(255) NOT NULL,
	first_name VARCHAR(150) NOT NULL DEFAULT '',
	last_name VARCHAR(150) NOT NULL DEFAULT '',
	location VARCHAR(255),
	availability VARCHAR(100),
	profile_photo VARCHAR(255),
	is_public BOOLEAN NOT NULL DEFAULT TRUE,
	rating NUMERIC(3,1) NOT NULL DEFAULT 0.0,
	bio TEXT,
	date_joined TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS skills (
	id BIGSERIAL PRIMARY KEY,
	name VARCHAR(100) NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS user_skills (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	skill_id BIGINT NOT NULL REFERENCES skills(id) ON DELETE CASCADE,
	is_offered BOOLEAN NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (user_id, skill_id, is_offered)
);

CREATE TABLE IF NOT EXISTS swap_requests (
	id BIGSERIAL PRIMARY KEY,
	sender_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	receiver_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	sender_skill_id BIGINT REFERENCES skills(id) ON DELETE SET NULL,
	receiver_skill_id BIGINT REFERENCES skills(id) ON DELETE SET NULL,
	message TEXT NOT NULL DEFAULT '',
	status VARCHAR(10) NOT NULL DEFAULT 'pending'
		CHECK (status IN ('pending', 'accepted', 'rejected')),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS swap_requests_sender_idx ON swap_requests (sender_id);
CREATE INDEX IF NOT EXISTS swap_requests_receiver_idx ON swap_requests (receiver_id);
CREATE UNIQUE INDEX IF NOT EXISTS swap_requests_one_pending_idx
	ON swap_requests (sender_id, receiver_id) WHERE status = 'pending';
`

// Migrate applies Schema.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, Schema)
	if err != nil {
		logger.Log.Errorw("failed to apply schema", "error", err)
		return err
	}
	logger.Log.Info("schema applied")
	return nil
}
