package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/skillswap/internal/models"
)

// SkillReadRepository reads the skill catalog.
type SkillReadRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewSkillReadRepository(db *sqlx.DB, txGetter TxGetter) *SkillReadRepository {
	return &SkillReadRepository{db: db, txGetter: txGetter}
}

// List returns skills ordered by name, optionally filtered by a name substring.
func (r *SkillReadRepository) List(ctx context.Context, search string) ([]models.Skill, error) {
	const query = `
		SELECT id, name
		FROM skills
		WHERE ($1::TEXT = '' OR name ILIKE $1)
		ORDER BY name`
	pattern := containsPattern(search)

	skills := []models.Skill{}
	err := sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &skills, query, pattern)

	logQuery(query, []any{pattern}, len(skills), err)

	return skills, err
}

// GetByID returns the skill or nil when it does not exist.
func (r *SkillReadRepository) GetByID(ctx context.Context, id int64) (*models.Skill, error) {
	const query = `SELECT id, name FROM skills WHERE id = $1`

	var skill models.Skill
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &skill, query, id)

	logQuery(query, []any{id}, skill, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

// SkillWriteRepository writes the skill catalog.
type SkillWriteRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewSkillWriteRepository(db *sqlx.DB, txGetter TxGetter) *SkillWriteRepository {
	return &SkillWriteRepository{db: db, txGetter: txGetter}
}

// Save inserts a skill. A taken name yields models.ErrUniqueViolation.
func (r *SkillWriteRepository) Save(ctx context.Context, name string) (*models.Skill, error) {
	const query = `INSERT INTO skills (name) VALUES ($1) RETURNING id, name`

	var skill models.Skill
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &skill, query, name)

	logQuery(query, []any{name}, skill, err)

	if err != nil {
		return nil, translateError(err)
	}
	return &skill, nil
}

// EnsureNames inserts the missing names and reports how many were created.
func (r *SkillWriteRepository) EnsureNames(ctx context.Context, names []string) (int, error) {
	const query = `INSERT INTO skills (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`

	exec := executor(ctx, r.db, r.txGetter)
	created := 0
	for _, name := range names {
		res, err := exec.ExecContext(ctx, query, name)
		var rowsAffected int64
		if res != nil {
			rowsAffected, _ = res.RowsAffected()
		}

		logQuery(query, []any{name}, rowsAffected, err)

		if err != nil {
			return created, err
		}
		created += int(rowsAffected)
	}
	return created, nil
}
