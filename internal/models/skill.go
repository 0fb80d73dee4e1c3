package models

// Skill represents a catalog entry shared by all accounts
type Skill struct {
	ID   int64  `json:"id" db:"id"`     // Primary key
	Name string `json:"name" db:"name"` // Unique name
}
