package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/skillswap/internal/models"
)

const swapRequestSelect = `
	SELECT sr.id, sr.sender_id, su.username AS sender_username,
	       sr.receiver_id, ru.username AS receiver_username,
	       sr.sender_skill_id, ss.name AS sender_skill_name,
	       sr.receiver_skill_id, rs.name AS receiver_skill_name,
	       sr.message, sr.status, sr.created_at, sr.updated_at
	FROM swap_requests sr
	JOIN users su ON su.id = sr.sender_id
	JOIN users ru ON ru.id = sr.receiver_id
	LEFT JOIN skills ss ON ss.id = sr.sender_skill_id
	LEFT JOIN skills rs ON rs.id = sr.receiver_skill_id`

// SwapRequestReadRepository reads swap requests.
type SwapRequestReadRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewSwapRequestReadRepository(db *sqlx.DB, txGetter TxGetter) *SwapRequestReadRepository {
	return &SwapRequestReadRepository{db: db, txGetter: txGetter}
}

// GetByIDForUser returns the request when userID is its sender or receiver, otherwise nil.
func (r *SwapRequestReadRepository) GetByIDForUser(ctx context.Context, id, userID int64) (*models.SwapRequestDB, error) {
	query := swapRequestSelect + `
		WHERE sr.id = $1 AND (sr.sender_id = $2 OR sr.receiver_id = $2)`

	var swap models.SwapRequestDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &swap, query, id, userID)

	logQuery(query, []any{id, userID}, swap.ID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &swap, nil
}

// ListForUser returns the requests where userID plays role, newest first.
// models.SwapRoleAny matches both roles.
func (r *SwapRequestReadRepository) ListForUser(ctx context.Context, userID int64, role string) ([]models.SwapRequestDB, error) {
	var where string
	switch role {
	case models.SwapRoleSender:
		where = ` WHERE sr.sender_id = $1`
	case models.SwapRoleReceiver:
		where = ` WHERE sr.receiver_id = $1`
	default:
		where = ` WHERE sr.sender_id = $1 OR sr.receiver_id = $1`
	}
	query := swapRequestSelect + where + ` ORDER BY sr.created_at DESC, sr.id DESC`

	swaps := []models.SwapRequestDB{}
	err := sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &swaps, query, userID)

	logQuery(query, []any{userID, role}, len(swaps), err)

	return swaps, err
}

// HasPending reports whether senderID already has a pending request to receiverID.
func (r *SwapRequestReadRepository) HasPending(ctx context.Context, senderID, receiverID int64) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM swap_requests
			WHERE sender_id = $1 AND receiver_id = $2 AND status = 'pending'
		)`

	var exists bool
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &exists, query, senderID, receiverID)

	logQuery(query, []any{senderID, receiverID}, exists, err)

	return exists, err
}

// SwapRequestWriteRepository writes swap requests.
type SwapRequestWriteRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewSwapRequestWriteRepository(db *sqlx.DB, txGetter TxGetter) *SwapRequestWriteRepository {
	return &SwapRequestWriteRepository{db: db, txGetter: txGetter}
}

// Save inserts a pending request and returns its id. A second pending
// request for the same sender and receiver is models.ErrUniqueViolation.
func (r *SwapRequestWriteRepository) Save(ctx context.Context, swap models.NewSwapRequest) (int64, error) {
	const query = `
		INSERT INTO swap_requests (sender_id, receiver_id, sender_skill_id, receiver_skill_id, message, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 'pending', NOW(), NOW())
		RETURNING id`
	args := []any{swap.SenderID, swap.ReceiverID, swap.SenderSkillID, swap.ReceiverSkillID, swap.Message}

	var id int64
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &id, query, args...)

	logQuery(query, args, id, err)

	return id, translateError(err)
}

// UpdateStatusFromPending moves a pending request to status.
// It reports false when the request is no longer pending.
func (r *SwapRequestWriteRepository) UpdateStatusFromPending(ctx context.Context, id int64, status string) (bool, error) {
	const query = `
		UPDATE swap_requests
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'`

	res, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, id, status)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logQuery(query, []any{id, status}, rowsAffected, err)

	return rowsAffected > 0, err
}
