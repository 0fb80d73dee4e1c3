package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/skillswap/internal/models"
)

// UserSkillReadRepository reads user-skill associations.
type UserSkillReadRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewUserSkillReadRepository(db *sqlx.DB, txGetter TxGetter) *UserSkillReadRepository {
	return &UserSkillReadRepository{db: db, txGetter: txGetter}
}

// ListByUser returns every association owned by userID.
func (r *UserSkillReadRepository) ListByUser(ctx context.Context, userID int64) ([]models.UserSkillDB, error) {
	const query = `
		SELECT us.id, us.user_id, us.skill_id, s.name AS skill_name, us.is_offered, us.created_at, us.updated_at
		FROM user_skills us
		JOIN skills s ON s.id = us.skill_id
		WHERE us.user_id = $1
		ORDER BY us.id`

	userSkills := []models.UserSkillDB{}
	err := sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &userSkills, query, userID)

	logQuery(query, []any{userID}, len(userSkills), err)

	return userSkills, err
}

// GetByID returns the association when it is owned by userID, otherwise nil.
func (r *UserSkillReadRepository) GetByID(ctx context.Context, id, userID int64) (*models.UserSkillDB, error) {
	const query = `
		SELECT us.id, us.user_id, us.skill_id, s.name AS skill_name, us.is_offered, us.created_at, us.updated_at
		FROM user_skills us
		JOIN skills s ON s.id = us.skill_id
		WHERE us.id = $1 AND us.user_id = $2`

	var userSkill models.UserSkillDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &userSkill, query, id, userID)

	logQuery(query, []any{id, userID}, userSkill.ID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &userSkill, nil
}

// UserSkillWriteRepository writes user-skill associations.
type UserSkillWriteRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewUserSkillWriteRepository(db *sqlx.DB, txGetter TxGetter) *UserSkillWriteRepository {
	return &UserSkillWriteRepository{db: db, txGetter: txGetter}
}

// Save strictly inserts an association. An existing triple yields models.ErrUniqueViolation.
func (r *UserSkillWriteRepository) Save(ctx context.Context, userID, skillID int64, isOffered bool) (*models.UserSkillDB, error) {
	const query = `
		WITH ins AS (
			INSERT INTO user_skills (user_id, skill_id, is_offered, created_at, updated_at)
			VALUES ($1, $2, $3, NOW(), NOW())
			RETURNING id, user_id, skill_id, is_offered, created_at, updated_at
		)
		SELECT ins.id, ins.user_id, ins.skill_id, s.name AS skill_name, ins.is_offered, ins.created_at, ins.updated_at
		FROM ins
		JOIN skills s ON s.id = ins.skill_id`
	args := []any{userID, skillID, isOffered}

	var userSkill models.UserSkillDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &userSkill, query, args...)

	logQuery(query, args, userSkill.ID, err)

	if err != nil {
		return nil, translateError(err)
	}
	return &userSkill, nil
}

// Update changes skill and direction of an association owned by userID.
// It returns nil when no such row exists.
func (r *UserSkillWriteRepository) Update(ctx context.Context, id, userID, skillID int64, isOffered bool) (*models.UserSkillDB, error) {
	const query = `
		WITH upd AS (
			UPDATE user_skills
			SET skill_id = $3, is_offered = $4, updated_at = NOW()
			WHERE id = $1 AND user_id = $2
			RETURNING id, user_id, skill_id, is_offered, created_at, updated_at
		)
		SELECT upd.id, upd.user_id, upd.skill_id, s.name AS skill_name, upd.is_offered, upd.created_at, upd.updated_at
		FROM upd
		JOIN skills s ON s.id = upd.skill_id`
	args := []any{id, userID, skillID, isOffered}

	var userSkill models.UserSkillDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &userSkill, query, args...)

	logQuery(query, args, userSkill.ID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err)
	}
	return &userSkill, nil
}

// Upsert inserts the triple or, when it exists, touches it in place.
// created reports whether a new row was inserted.
func (r *UserSkillWriteRepository) Upsert(ctx context.Context, userID, skillID int64, isOffered bool) (userSkill *models.UserSkillDB, created bool, err error) {
	const query = `
		WITH up AS (
			INSERT INTO user_skills (user_id, skill_id, is_offered, created_at, updated_at)
			VALUES ($1, $2, $3, NOW(), NOW())
			ON CONFLICT (user_id, skill_id, is_offered)
			DO UPDATE SET updated_at = NOW()
			RETURNING id, user_id, skill_id, is_offered, created_at, updated_at, (xmax = 0) AS created
		)
		SELECT up.id, up.user_id, up.skill_id, s.name AS skill_name, up.is_offered, up.created_at, up.updated_at, up.created
		FROM up
		JOIN skills s ON s.id = up.skill_id`
	args := []any{userID, skillID, isOffered}

	var row struct {
		models.UserSkillDB
		Created bool `db:"created"`
	}
	err = sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &row, query, args...)

	logQuery(query, args, row.Created, err)

	if err != nil {
		return nil, false, err
	}
	return &row.UserSkillDB, row.Created, nil
}

// Delete removes an association owned by userID and reports whether a row was removed.
func (r *UserSkillWriteRepository) Delete(ctx context.Context, id, userID int64) (bool, error) {
	const query = `DELETE FROM user_skills WHERE id = $1 AND user_id = $2`

	res, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, id, userID)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logQuery(query, []any{id, userID}, rowsAffected, err)

	return rowsAffected > 0, err
}
