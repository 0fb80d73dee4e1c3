package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/skillswap/internal/models"
	"github.com/sbilibin2017/skillswap/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillService_Create(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		saveName  string
		saveErr   error
		wantErr   error
		wantField bool
	}{
		{name: "trimmed name", input: "  Python  ", saveName: "Python"},
		{name: "empty name", input: "   ", wantErr: services.ErrInvalidInput, wantField: true},
		{name: "name too long", input: strings.Repeat("a", 101), wantErr: services.ErrInvalidInput, wantField: true},
		{name: "null byte", input: "Py\x00thon", wantErr: services.ErrInvalidInput, wantField: true},
		{name: "duplicate", input: "Python", saveName: "Python", saveErr: models.ErrUniqueViolation, wantErr: services.ErrSkillAlreadyExists, wantField: true},
		{name: "store error", input: "Python", saveName: "Python", saveErr: errors.New("db error"), wantErr: errors.New("db error")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			writer := services.NewMockSkillWriter(ctrl)
			svc := services.NewSkillService(services.NewMockSkillReader(ctrl), writer)

			if tt.saveName != "" {
				var skill *models.Skill
				if tt.saveErr == nil {
					skill = &models.Skill{ID: 1, Name: tt.saveName}
				}
				writer.EXPECT().Save(gomock.Any(), tt.saveName).Return(skill, tt.saveErr)
			}

			skill, err := svc.Create(context.Background(), tt.input)
			if tt.wantErr != nil {
				assert.Nil(t, skill)
				if !tt.wantField {
					assert.EqualError(t, err, tt.wantErr.Error())
					return
				}
				assert.ErrorIs(t, err, tt.wantErr)
				var verr *services.ValidationError
				require.True(t, errors.As(err, &verr))
				assert.Contains(t, verr.Fields, "name")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.saveName, skill.Name)
		})
	}
}

func TestSkillService_ListAndGet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reader := services.NewMockSkillReader(ctrl)
	svc := services.NewSkillService(reader, services.NewMockSkillWriter(ctrl))

	skills := []models.Skill{{ID: 2, Name: "Cooking"}, {ID: 1, Name: "Python"}}
	reader.EXPECT().List(gomock.Any(), "o").Return(skills, nil)

	got, err := svc.List(context.Background(), "o")
	require.NoError(t, err)
	assert.Equal(t, skills, got)

	reader.EXPECT().GetByID(gomock.Any(), int64(1)).Return(&skills[1], nil)
	skill, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Python", skill.Name)

	reader.EXPECT().GetByID(gomock.Any(), int64(9)).Return(nil, nil)
	_, err = svc.Get(context.Background(), 9)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestSkillService_SeedDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	writer := services.NewMockSkillWriter(ctrl)
	svc := services.NewSkillService(services.NewMockSkillReader(ctrl), writer)

	writer.EXPECT().EnsureNames(gomock.Any(), services.DefaultSkills).Return(len(services.DefaultSkills), nil)
	created, err := svc.SeedDefaults(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(services.DefaultSkills), created)

	writer.EXPECT().EnsureNames(gomock.Any(), services.DefaultSkills).Return(0, nil)
	created, err = svc.SeedDefaults(context.Background())
	require.NoError(t, err)
	assert.Zero(t, created)
}
