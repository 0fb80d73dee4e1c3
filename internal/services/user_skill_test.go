package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/skillswap/internal/models"
	"github.com/sbilibin2017/skillswap/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userSkillMocks struct {
	skills *services.MockSkillReader
	reader *services.MockUserSkillReader
	writer *services.MockUserSkillWriter
}

func newUserSkillService(t *testing.T) (*services.UserSkillService, userSkillMocks) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := userSkillMocks{
		skills: services.NewMockSkillReader(ctrl),
		reader: services.NewMockUserSkillReader(ctrl),
		writer: services.NewMockUserSkillWriter(ctrl),
	}
	return services.NewUserSkillService(m.skills, m.reader, m.writer), m
}

func TestUserSkillService_Create(t *testing.T) {
	tests := []struct {
		name    string
		input   models.UserSkillInput
		skill   *models.Skill
		saveErr error
		wantErr error
		wantMsg string
	}{
		{
			name:  "offered skill",
			input: models.UserSkillInput{SkillID: 1, IsOffered: true},
			skill: &models.Skill{ID: 1, Name: "Python"},
		},
		{
			name:    "unknown skill",
			input:   models.UserSkillInput{SkillID: 9},
			wantErr: services.ErrSkillDoesNotExist,
			wantMsg: "skill with id 9 does not exist",
		},
		{
			name:    "duplicate direction",
			input:   models.UserSkillInput{SkillID: 1, IsOffered: true},
			skill:   &models.Skill{ID: 1, Name: "Python"},
			saveErr: models.ErrUniqueViolation,
			wantErr: services.ErrUserSkillAlreadyExists,
			wantMsg: "you already have this skill marked as offered",
		},
		{
			name:    "duplicate wanted",
			input:   models.UserSkillInput{SkillID: 1, IsOffered: false},
			skill:   &models.Skill{ID: 1, Name: "Python"},
			saveErr: models.ErrUniqueViolation,
			wantErr: services.ErrUserSkillAlreadyExists,
			wantMsg: "you already have this skill marked as wanted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newUserSkillService(t)

			m.skills.EXPECT().GetByID(gomock.Any(), tt.input.SkillID).Return(tt.skill, nil)
			if tt.skill != nil {
				var saved *models.UserSkillDB
				if tt.saveErr == nil {
					saved = &models.UserSkillDB{ID: 5, UserID: 1, SkillID: tt.skill.ID, SkillName: tt.skill.Name, IsOffered: tt.input.IsOffered}
				}
				m.writer.EXPECT().Save(gomock.Any(), int64(1), tt.input.SkillID, tt.input.IsOffered).Return(saved, tt.saveErr)
			}

			userSkill, err := svc.Create(context.Background(), 1, tt.input)
			if tt.wantErr != nil {
				assert.Nil(t, userSkill)
				assert.ErrorIs(t, err, tt.wantErr)
				var verr *services.ValidationError
				require.True(t, errors.As(err, &verr))
				assert.Equal(t, tt.wantMsg, verr.Fields["skill_id"])
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Python", userSkill.SkillName)
		})
	}
}

func TestUserSkillService_Update(t *testing.T) {
	t.Run("not owned", func(t *testing.T) {
		svc, m := newUserSkillService(t)
		m.reader.EXPECT().GetByID(gomock.Any(), int64(5), int64(1)).Return(nil, nil)

		_, err := svc.Update(context.Background(), 1, 5, models.UserSkillInput{SkillID: 2})
		assert.ErrorIs(t, err, services.ErrNotFound)
	})

	t.Run("switch direction", func(t *testing.T) {
		svc, m := newUserSkillService(t)
		m.reader.EXPECT().GetByID(gomock.Any(), int64(5), int64(1)).
			Return(&models.UserSkillDB{ID: 5, UserID: 1, SkillID: 2, IsOffered: true}, nil)
		m.skills.EXPECT().GetByID(gomock.Any(), int64(2)).Return(&models.Skill{ID: 2, Name: "Yoga"}, nil)
		m.writer.EXPECT().Update(gomock.Any(), int64(5), int64(1), int64(2), false).
			Return(&models.UserSkillDB{ID: 5, UserID: 1, SkillID: 2, SkillName: "Yoga", IsOffered: false}, nil)

		userSkill, err := svc.Update(context.Background(), 1, 5, models.UserSkillInput{SkillID: 2, IsOffered: false})
		require.NoError(t, err)
		assert.False(t, userSkill.IsOffered)
	})

	t.Run("collides with existing pair", func(t *testing.T) {
		svc, m := newUserSkillService(t)
		m.reader.EXPECT().GetByID(gomock.Any(), int64(5), int64(1)).Return(&models.UserSkillDB{ID: 5}, nil)
		m.skills.EXPECT().GetByID(gomock.Any(), int64(2)).Return(&models.Skill{ID: 2}, nil)
		m.writer.EXPECT().Update(gomock.Any(), int64(5), int64(1), int64(2), true).Return(nil, models.ErrUniqueViolation)

		_, err := svc.Update(context.Background(), 1, 5, models.UserSkillInput{SkillID: 2, IsOffered: true})
		assert.ErrorIs(t, err, services.ErrUserSkillAlreadyExists)
	})
}

func TestUserSkillService_Delete(t *testing.T) {
	svc, m := newUserSkillService(t)

	m.writer.EXPECT().Delete(gomock.Any(), int64(5), int64(1)).Return(true, nil)
	assert.NoError(t, svc.Delete(context.Background(), 1, 5))

	m.writer.EXPECT().Delete(gomock.Any(), int64(5), int64(2)).Return(false, nil)
	assert.ErrorIs(t, svc.Delete(context.Background(), 2, 5), services.ErrNotFound)
}

func TestUserSkillService_BulkUpsert(t *testing.T) {
	t.Run("mixed batch", func(t *testing.T) {
		svc, m := newUserSkillService(t)

		m.skills.EXPECT().GetByID(gomock.Any(), int64(1)).Return(&models.Skill{ID: 1, Name: "Python"}, nil)
		m.skills.EXPECT().GetByID(gomock.Any(), int64(99)).Return(nil, nil)
		m.skills.EXPECT().GetByID(gomock.Any(), int64(2)).Return(&models.Skill{ID: 2, Name: "Yoga"}, nil)

		m.writer.EXPECT().Upsert(gomock.Any(), int64(1), int64(1), true).
			Return(&models.UserSkillDB{ID: 10, SkillID: 1, IsOffered: true}, true, nil)
		m.writer.EXPECT().Upsert(gomock.Any(), int64(1), int64(2), false).
			Return(&models.UserSkillDB{ID: 4, SkillID: 2, IsOffered: false}, false, nil)

		result, err := svc.BulkUpsert(context.Background(), 1, []models.UserSkillInput{
			{SkillID: 1, IsOffered: true},
			{SkillID: 99, IsOffered: true},
			{SkillID: 2, IsOffered: false},
		})
		require.NoError(t, err)
		require.Len(t, result.Created, 1)
		require.Len(t, result.Updated, 1)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, int64(10), result.Created[0].ID)
		assert.Equal(t, int64(4), result.Updated[0].ID)
		assert.Equal(t, models.BulkItemError{Index: 1, SkillID: 99, Error: "skill with id 99 does not exist"}, result.Errors[0])
	})

	t.Run("empty list", func(t *testing.T) {
		svc, _ := newUserSkillService(t)
		_, err := svc.BulkUpsert(context.Background(), 1, nil)
		assert.ErrorIs(t, err, services.ErrInvalidInput)
	})

	t.Run("store error aborts", func(t *testing.T) {
		svc, m := newUserSkillService(t)
		m.skills.EXPECT().GetByID(gomock.Any(), int64(1)).Return(&models.Skill{ID: 1}, nil)
		m.writer.EXPECT().Upsert(gomock.Any(), int64(1), int64(1), true).Return(nil, false, errors.New("db error"))

		result, err := svc.BulkUpsert(context.Background(), 1, []models.UserSkillInput{
			{SkillID: 1, IsOffered: true},
			{SkillID: 2, IsOffered: true},
		})
		assert.Nil(t, result)
		assert.EqualError(t, err, "db error")
	})
}
