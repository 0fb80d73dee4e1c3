package cookie

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// ErrNoSession is returned when the request carries no session cookie.
var ErrNoSession = errors.New("session cookie missing")

// DefaultName is the session cookie name.
const DefaultName = "sessionid"

// Cookie issues, reads and clears the session cookie.
type Cookie struct {
	Name   string        // Cookie name
	MaxAge time.Duration // Lifetime set on every issue, normally the idle timeout
	Secure bool          // Send only over HTTPS
}

// Opt configures a Cookie.
type Opt func(*Cookie)

// WithName sets the cookie name.
func WithName(name string) Opt {
	return func(c *Cookie) {
		if name != "" {
			c.Name = name
		}
	}
}

// WithMaxAge sets the cookie lifetime.
func WithMaxAge(d time.Duration) Opt {
	return func(c *Cookie) {
		c.MaxAge = d
	}
}

// WithSecure marks the cookie Secure.
func WithSecure(secure bool) Opt {
	return func(c *Cookie) {
		c.Secure = secure
	}
}

// New creates a new Cookie instance.
func New(opts ...Opt) *Cookie {
	c := &Cookie{Name: DefaultName}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cookie) build(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Set issues the cookie for sessionID.
func (c *Cookie) Set(ctx context.Context, w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, c.build(sessionID, int(c.MaxAge.Seconds())))
}

// Clear tells the client to drop the cookie.
func (c *Cookie) Clear(ctx context.Context, w http.ResponseWriter) {
	http.SetCookie(w, c.build("", -1))
}

// GetSessionIDFromRequest extracts the session id from the request cookie.
func (c *Cookie) GetSessionIDFromRequest(ctx context.Context, r *http.Request) (string, error) {
	ck, err := r.Cookie(c.Name)
	if err != nil || ck.Value == "" {
		return "", ErrNoSession
	}
	return ck.Value, nil
}
