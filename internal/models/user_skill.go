package models

import "time"

// UserSkillDB links an account to a skill in one direction
type UserSkillDB struct {
	ID        int64     `json:"id" db:"id"`                 // Primary key
	UserID    int64     `json:"-" db:"user_id"`             // Owning account
	SkillID   int64     `json:"skill_id" db:"skill_id"`     // Referenced skill
	SkillName string    `json:"skill_name" db:"skill_name"` // Joined from skills
	IsOffered bool      `json:"is_offered" db:"is_offered"` // true = offered, false = wanted
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// UserSkillInput is one {skill_id, is_offered} pair.
type UserSkillInput struct {
	SkillID   int64 `json:"skill_id"`
	IsOffered bool  `json:"is_offered"`
}

// BulkItemError reports a skipped item of a bulk upsert.
type BulkItemError struct {
	Index   int    `json:"index"`
	SkillID int64  `json:"skill_id"`
	Error   string `json:"error"`
}

// BulkResult is the outcome of a bulk upsert.
type BulkResult struct {
	Created []UserSkillDB   `json:"created"`
	Updated []UserSkillDB   `json:"updated"`
	Errors  []BulkItemError `json:"errors"`
}
