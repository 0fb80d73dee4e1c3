package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/skillswap/internal/models"
)

const userColumns = `
	u.id, u.username, u.email, u.password_hash, u.first_name, u.last_name,
	u.location, u.availability, u.profile_photo, u.is_public, u.rating, u.bio, u.date_joined`

// UserReadRepository reads accounts.
type UserReadRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewUserReadRepository(db *sqlx.DB, txGetter TxGetter) *UserReadRepository {
	return &UserReadRepository{db: db, txGetter: txGetter}
}

// GetByID returns the account or nil when it does not exist.
func (r *UserReadRepository) GetByID(ctx context.Context, id int64) (*models.UserDB, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.id = $1`
	return r.getOne(ctx, query, id)
}

// GetByUsernameOrEmail returns the first account matching any non-nil argument, or nil.
func (r *UserReadRepository) GetByUsernameOrEmail(ctx context.Context, username, email *string) (*models.UserDB, error) {
	query := `SELECT ` + userColumns + `
		FROM users u
		WHERE ($1::VARCHAR IS NOT NULL AND u.username = $1)
		   OR ($2::VARCHAR IS NOT NULL AND u.email = $2)
		ORDER BY u.id
		LIMIT 1`
	return r.getOne(ctx, query, username, email)
}

func (r *UserReadRepository) getOne(ctx context.Context, query string, args ...any) (*models.UserDB, error) {
	var user models.UserDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &user, query, args...)

	logQuery(query, args, user.ID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Search returns public accounts other than the caller matching every non-empty filter.
func (r *UserReadRepository) Search(ctx context.Context, filter models.UserSearchFilter) ([]models.UserDB, error) {
	query := `SELECT ` + userColumns + `
		FROM users u
		WHERE u.is_public = TRUE
		  AND u.id <> $1
		  AND ($2::TEXT = '' OR u.username ILIKE $2 OR u.first_name ILIKE $2
		       OR u.last_name ILIKE $2 OR COALESCE(u.bio, '') ILIKE $2)
		  AND ($3::TEXT = '' OR COALESCE(u.location, '') ILIKE $3)
		  AND ($4::TEXT = '' OR EXISTS (
		        SELECT 1 FROM user_skills us
		        JOIN skills s ON s.id = us.skill_id
		        WHERE us.user_id = u.id AND s.name ILIKE $4))
		ORDER BY u.id
		LIMIT $5`
	args := []any{
		filter.CallerID,
		containsPattern(filter.Query),
		containsPattern(filter.Location),
		containsPattern(filter.Skill),
		filter.Limit,
	}

	users := []models.UserDB{}
	err := sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &users, query, args...)

	logQuery(query, args, len(users), err)

	return users, err
}

// UserWriteRepository writes accounts.
type UserWriteRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewUserWriteRepository(db *sqlx.DB, txGetter TxGetter) *UserWriteRepository {
	return &UserWriteRepository{db: db, txGetter: txGetter}
}

// Save inserts a new account and returns the stored row.
func (r *UserWriteRepository) Save(ctx context.Context, user models.NewUser) (*models.UserDB, error) {
	query := `
		INSERT INTO users AS u (username, email, password_hash, first_name, last_name, date_joined)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING ` + userColumns

	var saved models.UserDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &saved, query,
		user.Username, user.Email, user.PasswordHash, user.FirstName, user.LastName)

	logQuery(query, []any{user.Username, user.Email}, saved.ID, err)

	if err != nil {
		return nil, translateError(err)
	}
	return &saved, nil
}

// UpdateProfile writes the mutable profile columns of user and returns the stored row.
func (r *UserWriteRepository) UpdateProfile(ctx context.Context, user *models.UserDB) (*models.UserDB, error) {
	query := `
		UPDATE users AS u
		SET first_name = $2, last_name = $3, location = $4, availability = $5,
		    profile_photo = $6, is_public = $7, bio = $8
		WHERE u.id = $1
		RETURNING ` + userColumns
	args := []any{
		user.ID, user.FirstName, user.LastName, user.Location, user.Availability,
		user.ProfilePhoto, user.IsPublic, user.Bio,
	}

	var saved models.UserDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &saved, query, args...)

	logQuery(query, args, saved.ID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err)
	}
	return &saved, nil
}
