package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/skillswap/internal/models"
	"github.com/sbilibin2017/skillswap/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListUserSkillsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockUserSkillManager(ctrl)
	mockSvc.EXPECT().List(gomock.Any(), int64(1)).Return([]models.UserSkillDB{
		{ID: 5, UserID: 1, SkillID: 2, SkillName: "Yoga", IsOffered: true},
	}, nil)

	rr := httptest.NewRecorder()
	NewListUserSkillsHandler(mockSvc).ServeHTTP(rr, newRequest(t, http.MethodGet, "/api/user-skills", nil, 1, ""))

	require.Equal(t, http.StatusOK, rr.Code)
	items := decodeBody[[]map[string]any](t, rr)
	require.Len(t, items, 1)
	assert.Equal(t, "Yoga", items[0]["skill_name"])
	assert.Equal(t, true, items[0]["is_offered"])
	assert.NotContains(t, items[0], "user_id")
}

func TestCreateUserSkillHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		body         any
		mockSetup    func(m *MockUserSkillManager)
		expectedCode int
		expectedErr  string
	}{
		{
			name: "created",
			body: models.UserSkillInput{SkillID: 2, IsOffered: true},
			mockSetup: func(m *MockUserSkillManager) {
				m.EXPECT().Create(gomock.Any(), int64(1), models.UserSkillInput{SkillID: 2, IsOffered: true}).
					Return(&models.UserSkillDB{ID: 5, SkillID: 2, IsOffered: true}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "already marked",
			body: models.UserSkillInput{SkillID: 2, IsOffered: true},
			mockSetup: func(m *MockUserSkillManager) {
				m.EXPECT().Create(gomock.Any(), int64(1), gomock.Any()).Return(nil, &services.ValidationError{
					Err:    services.ErrUserSkillAlreadyExists,
					Fields: map[string]string{"skill_id": "you already have this skill marked as offered"},
				})
			},
			expectedCode: http.StatusBadRequest,
			expectedErr:  services.ErrUserSkillAlreadyExists.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockUserSkillManager(ctrl)
			tt.mockSetup(mockSvc)

			rr := httptest.NewRecorder()
			NewCreateUserSkillHandler(mockSvc).ServeHTTP(rr, newRequest(t, http.MethodPost, "/api/user-skills", tt.body, 1, ""))

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedErr != "" {
				resp := decodeBody[ErrorResponse](t, rr)
				assert.Equal(t, tt.expectedErr, resp.Error)
				assert.Equal(t, "you already have this skill marked as offered", resp.Fields["skill_id"])
			}
		})
	}
}

func TestUserSkillItemHandlers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockUserSkillManager(ctrl)

	t.Run("get others' row is 404", func(t *testing.T) {
		mockSvc.EXPECT().Get(gomock.Any(), int64(2), int64(5)).Return(nil, services.ErrNotFound)
		rr := httptest.NewRecorder()
		NewGetUserSkillHandler(mockSvc).ServeHTTP(rr, newRequest(t, http.MethodGet, "/api/user-skills/5", nil, 2, "5"))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("update", func(t *testing.T) {
		mockSvc.EXPECT().Update(gomock.Any(), int64(1), int64(5), models.UserSkillInput{SkillID: 3, IsOffered: false}).
			Return(&models.UserSkillDB{ID: 5, SkillID: 3}, nil)
		rr := httptest.NewRecorder()
		NewUpdateUserSkillHandler(mockSvc).ServeHTTP(rr, newRequest(t, http.MethodPut, "/api/user-skills/5",
			models.UserSkillInput{SkillID: 3, IsOffered: false}, 1, "5"))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("delete then delete again", func(t *testing.T) {
		gomock.InOrder(
			mockSvc.EXPECT().Delete(gomock.Any(), int64(1), int64(5)).Return(nil),
			mockSvc.EXPECT().Delete(gomock.Any(), int64(1), int64(5)).Return(services.ErrNotFound),
		)

		rr := httptest.NewRecorder()
		NewDeleteUserSkillHandler(mockSvc).ServeHTTP(rr, newRequest(t, http.MethodDelete, "/api/user-skills/5", nil, 1, "5"))
		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.String())

		rr = httptest.NewRecorder()
		NewDeleteUserSkillHandler(mockSvc).ServeHTTP(rr, newRequest(t, http.MethodDelete, "/api/user-skills/5", nil, 1, "5"))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestBulkUserSkillsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockUserSkillManager(ctrl)
	items := []models.UserSkillInput{{SkillID: 1, IsOffered: true}, {SkillID: 99, IsOffered: false}}

	mockSvc.EXPECT().BulkUpsert(gomock.Any(), int64(1), items).Return(&models.BulkResult{
		Created: []models.UserSkillDB{{ID: 7, SkillID: 1, IsOffered: true}},
		Updated: []models.UserSkillDB{},
		Errors:  []models.BulkItemError{{Index: 1, SkillID: 99, Error: "skill with id 99 does not exist"}},
	}, nil)

	rr := httptest.NewRecorder()
	NewBulkUserSkillsHandler(mockSvc).ServeHTTP(rr, newRequest(t, http.MethodPost, "/api/user-skills/bulk",
		BulkUserSkillsRequest{Skills: items}, 1, ""))

	require.Equal(t, http.StatusOK, rr.Code)
	result := decodeBody[models.BulkResult](t, rr)
	assert.Len(t, result.Created, 1)
	assert.Empty(t, result.Updated)
	assert.Equal(t, []models.BulkItemError{{Index: 1, SkillID: 99, Error: "skill with id 99 does not exist"}}, result.Errors)

	mockSvc.EXPECT().BulkUpsert(gomock.Any(), int64(1), gomock.Nil()).Return(nil, &services.ValidationError{
		Err:    services.ErrInvalidInput,
		Fields: map[string]string{"skills": "this list may not be empty"},
	})
	rr = httptest.NewRecorder()
	NewBulkUserSkillsHandler(mockSvc).ServeHTTP(rr, newRequest(t, http.MethodPost, "/api/user-skills/bulk", `{}`, 1, ""))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
