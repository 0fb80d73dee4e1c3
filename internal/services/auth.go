package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"

	"github.com/sbilibin2017/skillswap/internal/logger"
	"github.com/sbilibin2017/skillswap/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserReader defines read-only operations for accounts.
type UserReader interface {
	GetByID(ctx context.Context, id int64) (*models.UserDB, error)
	GetByUsernameOrEmail(ctx context.Context, username *string, email *string) (*models.UserDB, error)
	Search(ctx context.Context, filter models.UserSearchFilter) ([]models.UserDB, error)
}

// UserWriter defines write operations for accounts.
type UserWriter interface {
	Save(ctx context.Context, user models.NewUser) (*models.UserDB, error)
	UpdateProfile(ctx context.Context, user *models.UserDB) (*models.UserDB, error)
}

// SessionManager starts and ends sessions.
type SessionManager interface {
	Start(ctx context.Context, userID int64) (*models.Session, error)
	End(ctx context.Context, id string) error
}

// RegisterInput holds the registration form.
type RegisterInput struct {
	Username        string
	Email           string
	FirstName       string
	LastName        string
	Password        string
	PasswordConfirm string
}

// AuthService handles registration, login and logout.
type AuthService struct {
	reader   UserReader
	writer   UserWriter
	sessions SessionManager
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(reader UserReader, writer UserWriter, sessions SessionManager) *AuthService {
	return &AuthService{
		reader:   reader,
		writer:   writer,
		sessions: sessions,
	}
}

func validateRegistration(in RegisterInput) error {
	fields := map[string]string{}
	if in.Username == "" {
		fields["username"] = "this field is required"
	}
	if in.Email == "" {
		fields["email"] = "this field is required"
	} else if _, err := mail.ParseAddress(in.Email); err != nil {
		fields["email"] = "enter a valid email address"
	}
	if in.Password == "" {
		fields["password"] = "this field is required"
	} else if len(in.Password) > maxPasswordBytes {
		fields["password"] = fmt.Sprintf("ensure this field has no more than %d bytes", maxPasswordBytes)
	}
	checkText(fields, "username", in.Username, maxNameLength)
	checkText(fields, "email", in.Email, maxEmailLength)
	checkText(fields, "first_name", in.FirstName, maxNameLength)
	checkText(fields, "last_name", in.LastName, maxNameLength)
	if len(fields) > 0 {
		return &ValidationError{Err: ErrInvalidInput, Fields: fields}
	}
	if in.Password != in.PasswordConfirm {
		return invalidField(ErrPasswordMismatch, "password_confirm")
	}
	return nil
}

// Register creates an account and starts a session for it.
func (svc *AuthService) Register(ctx context.Context, in RegisterInput) (*models.UserDB, *models.Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if err := validateRegistration(in); err != nil {
		return nil, nil, err
	}

	existing, err := svc.reader.GetByUsernameOrEmail(ctx, &in.Username, &in.Email)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return nil, nil, err
	}
	if existing != nil {
		logger.Log.Infow("user already exists", "username", in.Username)
		return nil, nil, ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, nil, err
	}

	user, err := svc.writer.Save(ctx, models.NewUser{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hashedPassword),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
	})
	if errors.Is(err, models.ErrUniqueViolation) {
		return nil, nil, ErrUserAlreadyExists
	}
	if err != nil {
		logger.Log.Errorw("failed to save user", "err", err)
		return nil, nil, err
	}

	session, err := svc.sessions.Start(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	logger.Log.Infow("user registered", "user_id", user.ID)
	return user, session, nil
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// burnCompare runs a bcrypt comparison against a fixed hash, matching the
// latency of a real password check.
func burnCompare(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("skillswap-dummy-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// Login resolves identifier as a username, then as an email, checks the
// password and starts a session. Every failure is ErrInvalidCredentials.
func (svc *AuthService) Login(ctx context.Context, identifier, password string) (*models.UserDB, *models.Session, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, nil, &ValidationError{
			Err:    ErrInvalidInput,
			Fields: map[string]string{"username": "username and password are required"},
		}
	}
	if strings.ContainsRune(identifier, 0) {
		burnCompare(password)
		return nil, nil, ErrInvalidCredentials
	}

	user, err := svc.reader.GetByUsernameOrEmail(ctx, &identifier, nil)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return nil, nil, err
	}
	if user == nil {
		user, err = svc.reader.GetByUsernameOrEmail(ctx, nil, &identifier)
		if err != nil {
			logger.Log.Errorw("failed to get user", "err", err)
			return nil, nil, err
		}
	}
	if user == nil {
		burnCompare(password)
		logger.Log.Infow("login failed")
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Log.Infow("login failed", "user_id", user.ID)
		return nil, nil, ErrInvalidCredentials
	}

	session, err := svc.sessions.Start(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	return user, session, nil
}

// Logout ends the session.
func (svc *AuthService) Logout(ctx context.Context, sessionID string) error {
	return svc.sessions.End(ctx, sessionID)
}
