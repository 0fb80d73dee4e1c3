package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserDB represents an account record in the database
type UserDB struct {
	ID           int64           `json:"id" db:"id"`                       // Primary key
	Username     string          `json:"username" db:"username"`           // Unique username
	Email        string          `json:"email" db:"email"`                 // Unique email
	PasswordHash string          `json:"-" db:"password_hash"`             // bcrypt hash
	FirstName    string          `json:"first_name" db:"first_name"`       // Display first name
	LastName     string          `json:"last_name" db:"last_name"`         // Display last name
	Location     *string         `json:"location" db:"location"`           // Free-text location, NULL when unset
	Availability *string         `json:"availability" db:"availability"`   // e.g. weekends, evenings
	ProfilePhoto *string         `json:"profile_photo" db:"profile_photo"` // Reference to a stored image
	IsPublic     bool            `json:"is_public" db:"is_public"`         // Visible in discovery
	Rating       decimal.Decimal `json:"rating" db:"rating"`               // One fractional digit, never computed
	Bio          *string         `json:"bio" db:"bio"`                     // NULL when unset
	DateJoined   time.Time       `json:"date_joined" db:"date_joined"`     // Server-set on registration
}

// UserProfile is an account together with its offered and wanted skills.
type UserProfile struct {
	*UserDB
	OfferedSkills []Skill `json:"offered_skills"`
	WantedSkills  []Skill `json:"wanted_skills"`
	SkillCount    int     `json:"skill_count"`
}

// ProfileUpdate holds the mutable profile fields. Nil means unchanged.
type ProfileUpdate struct {
	FirstName    *string
	LastName     *string
	Location     *string
	Availability *string
	ProfilePhoto *string
	IsPublic     *bool
	Bio          *string
}

// NewUser holds the fields written at registration.
type NewUser struct {
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
}

// UserSearchFilter narrows account discovery.
type UserSearchFilter struct {
	CallerID int64  // Always excluded from results
	Query    string // Substring of username, first/last name or bio
	Location string // Substring of location
	Skill    string // Substring of an associated skill name
	Limit    int
}
