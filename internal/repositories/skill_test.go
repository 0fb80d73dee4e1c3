package repositories

import (
	"context"
	"testing"

	"github.com/sbilibin2017/skillswap/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillRepositories(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	ctx := context.Background()
	readRepo := NewSkillReadRepository(db, nil)
	writeRepo := NewSkillWriteRepository(db, nil)

	logo, err := writeRepo.Save(ctx, "Logo Design")
	require.NoError(t, err)
	_, err = writeRepo.Save(ctx, "Cooking")
	require.NoError(t, err)

	t.Run("SaveDuplicate", func(t *testing.T) {
		_, err := writeRepo.Save(ctx, "Logo Design")
		assert.ErrorIs(t, err, models.ErrUniqueViolation)
	})

	t.Run("ListOrderedByName", func(t *testing.T) {
		skills, err := readRepo.List(ctx, "")
		assert.NoError(t, err)
		assert.Equal(t, []models.Skill{{ID: skills[0].ID, Name: "Cooking"}, {ID: logo.ID, Name: "Logo Design"}}, skills)
	})

	t.Run("ListSearch", func(t *testing.T) {
		skills, err := readRepo.List(ctx, "LOGO")
		assert.NoError(t, err)
		assert.Equal(t, []models.Skill{*logo}, skills)
	})

	t.Run("GetByID", func(t *testing.T) {
		skill, err := readRepo.GetByID(ctx, logo.ID)
		assert.NoError(t, err)
		assert.Equal(t, logo, skill)

		skill, err = readRepo.GetByID(ctx, 424242)
		assert.NoError(t, err)
		assert.Nil(t, skill)
	})

	t.Run("EnsureNamesIsIdempotent", func(t *testing.T) {
		created, err := writeRepo.EnsureNames(ctx, []string{"Cooking", "Yoga", "Painting"})
		assert.NoError(t, err)
		assert.Equal(t, 2, created)

		created, err = writeRepo.EnsureNames(ctx, []string{"Cooking", "Yoga", "Painting"})
		assert.NoError(t, err)
		assert.Equal(t, 0, created)
	})
}
