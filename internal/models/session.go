package models

import "time"

// Session is the server-side state behind a session cookie
type Session struct {
	ID           string    `json:"id"`            // Random id delivered in the cookie
	UserID       int64     `json:"user_id"`       // Authenticated account
	LoginTime    time.Time `json:"login_time"`    // Set once on login
	LastActivity time.Time `json:"last_activity"` // Refreshed on every gated request
}
