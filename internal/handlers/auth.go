package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/sbilibin2017/skillswap/internal/logger"
	"github.com/sbilibin2017/skillswap/internal/models"
	"github.com/sbilibin2017/skillswap/internal/services"
)

// Registerer defines the interface that the registration service must implement.
type Registerer interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.UserDB, *models.Session, error)
}

// Loginer defines the interface that the login service must implement.
type Loginer interface {
	Login(ctx context.Context, identifier, password string) (*models.UserDB, *models.Session, error)
}

// Logouter ends a session.
type Logouter interface {
	Logout(ctx context.Context, sessionID string) error
}

// CookieWriter issues and clears the session cookie.
type CookieWriter interface {
	Set(ctx context.Context, w http.ResponseWriter, sessionID string)
	Clear(ctx context.Context, w http.ResponseWriter)
}

// RegisterRequest represents the JSON body for user registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	// required: true
	// default: john_doe
	Username string `json:"username"`

	// required: true
	// default: john@example.com
	Email string `json:"email"`

	// default: John
	FirstName string `json:"first_name"`

	// default: Doe
	LastName string `json:"last_name"`

	// required: true
	// default: secret123
	Password string `json:"password"`

	// required: true
	// default: secret123
	PasswordConfirm string `json:"password_confirm"`
}

// LoginRequest represents the JSON body for user login
// swagger:model LoginRequest
type LoginRequest struct {
	// Username or email
	// required: true
	// default: john_doe
	Username string `json:"username"`

	// required: true
	// default: secret123
	Password string `json:"password"`
}

// AuthResponse represents a successful registration or login
// swagger:model AuthResponse
type AuthResponse struct {
	// default: Login successful
	Message string         `json:"message"`
	User    *models.UserDB `json:"user"`
}

// SessionResponse describes the caller's session
// swagger:model SessionResponse
type SessionResponse struct {
	UserID       int64     `json:"user_id"`
	LoginTime    time.Time `json:"login_time"`
	LastActivity time.Time `json:"last_activity"`

	// Seconds until the session expires without further activity
	ExpiresIn int64 `json:"expires_in"`
}

// NewRegisterHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Creates an account with a unique username and email and starts a session.
// @Tags auth
// @Accept json
// @Produce json
// @Param registerRequest body handlers.RegisterRequest true "User registration request"
// @Success 201 {object} handlers.AuthResponse "User successfully registered"
// @Failure 400 {object} handlers.ErrorResponse "Invalid input or username/email taken"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /auth/register [post]
func NewRegisterHandler(svc Registerer, cookie CookieWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		user, session, err := svc.Register(r.Context(), services.RegisterInput{
			Username:        req.Username,
			Email:           req.Email,
			FirstName:       req.FirstName,
			LastName:        req.LastName,
			Password:        req.Password,
			PasswordConfirm: req.PasswordConfirm,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		cookie.Set(r.Context(), w, session.ID)
		writeJSON(w, http.StatusCreated, AuthResponse{
			Message: "User registered successfully",
			User:    user,
		})
	}
}

// NewLoginHandler returns an HTTP handler for user login.
// @Summary User login
// @Description Authenticates by username or email and starts a session cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param loginRequest body handlers.LoginRequest true "Login Request"
// @Success 200 {object} handlers.AuthResponse "Session started"
// @Failure 400 {object} handlers.ErrorResponse "Missing username or password"
// @Failure 401 {object} handlers.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func NewLoginHandler(svc Loginer, cookie CookieWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		user, session, err := svc.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		cookie.Set(r.Context(), w, session.ID)
		writeJSON(w, http.StatusOK, AuthResponse{
			Message: "Login successful",
			User:    user,
		})
	}
}

// NewLogoutHandler returns an HTTP handler that ends the caller's session.
// @Summary User logout
// @Tags auth
// @Produce json
// @Success 200 {object} handlers.MessageResponse "Logged out"
// @Failure 401 {object} handlers.ErrorResponse "Authentication required"
// @Router /auth/logout [post]
func NewLogoutHandler(svc Logouter, cookie CookieWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := currentSession(w, r)
		if !ok {
			return
		}

		if err := svc.Logout(r.Context(), session.ID); err != nil {
			writeServiceError(w, err)
			return
		}

		logger.Log.Infow("user logged out", "user_id", session.UserID)
		cookie.Clear(r.Context(), w)
		writeJSON(w, http.StatusOK, MessageResponse{Message: "Successfully logged out"})
	}
}

// NewSessionHandler returns an HTTP handler describing the caller's session.
// @Summary Current session
// @Tags auth
// @Produce json
// @Success 200 {object} handlers.SessionResponse "Session state"
// @Failure 401 {object} handlers.ErrorResponse "Authentication required or session expired"
// @Router /auth/session [get]
func NewSessionHandler(idleTimeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := currentSession(w, r)
		if !ok {
			return
		}

		expiresAt := session.LastActivity.Add(idleTimeout)
		remaining := int64(time.Until(expiresAt).Seconds())
		if remaining < 0 {
			remaining = 0
		}

		writeJSON(w, http.StatusOK, SessionResponse{
			UserID:       session.UserID,
			LoginTime:    session.LoginTime,
			LastActivity: session.LastActivity,
			ExpiresIn:    remaining,
		})
	}
}
