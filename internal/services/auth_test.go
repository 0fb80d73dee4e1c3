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
	"golang.org/x/crypto/bcrypt"
)

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockSessions := services.NewMockSessionManager(ctrl)

	svc := services.NewAuthService(mockReader, mockWriter, mockSessions)

	valid := services.RegisterInput{
		Username:        "alice",
		Email:           "alice@example.com",
		FirstName:       "Alice",
		LastName:        "Smith",
		Password:        "pass1234",
		PasswordConfirm: "pass1234",
	}

	tests := []struct {
		name         string
		input        services.RegisterInput
		existingUser *models.UserDB
		readerErr    error
		writerErr    error
		expectRead   bool
		expectSave   bool
		wantErr      error
		wantFields   []string
	}{
		{
			name:       "successful registration",
			input:      valid,
			expectRead: true,
			expectSave: true,
		},
		{
			name:         "user already exists",
			input:        valid,
			existingUser: &models.UserDB{ID: 7, Username: "alice"},
			expectRead:   true,
			wantErr:      services.ErrUserAlreadyExists,
		},
		{
			name:       "unique violation on insert",
			input:      valid,
			expectRead: true,
			expectSave: true,
			writerErr:  models.ErrUniqueViolation,
			wantErr:    services.ErrUserAlreadyExists,
		},
		{
			name:       "reader error",
			input:      valid,
			readerErr:  errors.New("db error"),
			expectRead: true,
			wantErr:    errors.New("db error"),
		},
		{
			name:       "writer error",
			input:      valid,
			writerErr:  errors.New("save error"),
			expectRead: true,
			expectSave: true,
			wantErr:    errors.New("save error"),
		},
		{
			name: "password mismatch",
			input: services.RegisterInput{
				Username:        "alice",
				Email:           "alice@example.com",
				Password:        "pass1234",
				PasswordConfirm: "pass12345",
			},
			wantErr:    services.ErrPasswordMismatch,
			wantFields: []string{"password_confirm"},
		},
		{
			name: "missing fields",
			input: services.RegisterInput{
				Email: "not-an-email",
			},
			wantErr:    services.ErrInvalidInput,
			wantFields: []string{"username", "email", "password"},
		},
		{
			name: "values exceed column limits",
			input: services.RegisterInput{
				Username:        strings.Repeat("u", 200),
				Email:           strings.Repeat("e", 250) + "@example.com",
				FirstName:       strings.Repeat("é", 151),
				LastName:        "Smith",
				Password:        "pass1234",
				PasswordConfirm: "pass1234",
			},
			wantErr:    services.ErrInvalidInput,
			wantFields: []string{"username", "email", "first_name"},
		},
		{
			name: "null byte and oversized password",
			input: services.RegisterInput{
				Username:        "alice",
				Email:           "alice@example.com",
				LastName:        "Sm\x00ith",
				Password:        strings.Repeat("p", 73),
				PasswordConfirm: strings.Repeat("p", 73),
			},
			wantErr:    services.ErrInvalidInput,
			wantFields: []string{"last_name", "password"},
		},
		{
			name:       "database rejects a value",
			input:      valid,
			expectRead: true,
			expectSave: true,
			writerErr:  models.ErrInvalidValue,
			wantErr:    models.ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.expectRead {
				mockReader.EXPECT().
					GetByUsernameOrEmail(gomock.Any(), &tt.input.Username, &tt.input.Email).
					Return(tt.existingUser, tt.readerErr)
			}

			if tt.expectSave {
				saved := &models.UserDB{ID: 1, Username: tt.input.Username, Email: tt.input.Email}
				mockWriter.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, u models.NewUser) (*models.UserDB, error) {
						assert.Equal(t, tt.input.Username, u.Username)
						assert.NotEqual(t, tt.input.Password, u.PasswordHash)
						assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(tt.input.Password)))
						if tt.writerErr != nil {
							return nil, tt.writerErr
						}
						return saved, nil
					})
				if tt.writerErr == nil {
					mockSessions.EXPECT().
						Start(gomock.Any(), int64(1)).
						Return(&models.Session{ID: "sid", UserID: 1}, nil)
				}
			}

			user, session, err := svc.Register(context.Background(), tt.input)
			if tt.wantErr != nil {
				assert.Nil(t, user)
				assert.Nil(t, session)

				if len(tt.wantFields) == 0 {
					assert.EqualError(t, err, tt.wantErr.Error())
					return
				}
				assert.ErrorIs(t, err, tt.wantErr)
				var verr *services.ValidationError
				require.True(t, errors.As(err, &verr))
				for _, f := range tt.wantFields {
					assert.Contains(t, verr.Fields, f)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, int64(1), user.ID)
			assert.Equal(t, "sid", session.ID)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockSessions := services.NewMockSessionManager(ctrl)

	svc := services.NewAuthService(mockReader, mockWriter, mockSessions)

	password := "secret123"
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	alice := &models.UserDB{ID: 1, Username: "alice", Email: "alice@example.com", PasswordHash: string(hashed)}

	tests := []struct {
		name        string
		identifier  string
		password    string
		byUsername  *models.UserDB
		byEmail     *models.UserDB
		expectEmail bool
		readerErr   error
		startErr    error
		wantErr     error
	}{
		{
			name:       "login by username",
			identifier: "alice",
			password:   password,
			byUsername: alice,
		},
		{
			name:        "login by email",
			identifier:  "alice@example.com",
			password:    password,
			expectEmail: true,
			byEmail:     alice,
		},
		{
			name:        "unknown identifier",
			identifier:  "nobody",
			password:    password,
			expectEmail: true,
			wantErr:     services.ErrInvalidCredentials,
		},
		{
			name:       "wrong password",
			identifier: "alice",
			password:   "wrongpass",
			byUsername: alice,
			wantErr:    services.ErrInvalidCredentials,
		},
		{
			name:       "reader error",
			identifier: "alice",
			password:   password,
			readerErr:  errors.New("db error"),
			wantErr:    errors.New("db error"),
		},
		{
			name:       "session store error",
			identifier: "alice",
			password:   password,
			byUsername: alice,
			startErr:   errors.New("redis down"),
			wantErr:    errors.New("redis down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReader.EXPECT().
				GetByUsernameOrEmail(gomock.Any(), &tt.identifier, (*string)(nil)).
				Return(tt.byUsername, tt.readerErr)

			if tt.expectEmail {
				mockReader.EXPECT().
					GetByUsernameOrEmail(gomock.Any(), (*string)(nil), &tt.identifier).
					Return(tt.byEmail, nil)
			}

			if tt.wantErr == nil || tt.startErr != nil {
				var session *models.Session
				if tt.startErr == nil {
					session = &models.Session{ID: "sid", UserID: alice.ID}
				}
				mockSessions.EXPECT().
					Start(gomock.Any(), alice.ID).
					Return(session, tt.startErr)
			}

			user, session, err := svc.Login(context.Background(), tt.identifier, tt.password)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, user)
				assert.Nil(t, session)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, alice.ID, user.ID)
			assert.Equal(t, "sid", session.ID)
		})
	}
}

func TestAuthService_Login_EmptyInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := services.NewAuthService(
		services.NewMockUserReader(ctrl),
		services.NewMockUserWriter(ctrl),
		services.NewMockSessionManager(ctrl),
	)

	_, _, err := svc.Login(context.Background(), "  ", "")
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestAuthService_Logout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSessions := services.NewMockSessionManager(ctrl)
	svc := services.NewAuthService(services.NewMockUserReader(ctrl), services.NewMockUserWriter(ctrl), mockSessions)

	mockSessions.EXPECT().End(gomock.Any(), "sid").Return(nil)
	assert.NoError(t, svc.Logout(context.Background(), "sid"))
}
