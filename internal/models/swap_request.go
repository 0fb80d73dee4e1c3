package models

import "time"

// Swap request statuses
const (
	SwapStatusPending  = "pending"
	SwapStatusAccepted = "accepted"
	SwapStatusRejected = "rejected"
)

// Roles used to partition a caller's swap requests
const (
	SwapRoleAny      = ""
	SwapRoleSender   = "sender"
	SwapRoleReceiver = "receiver"
)

// SwapRequestDB represents a swap request row joined with party and skill names
type SwapRequestDB struct {
	ID                int64     `db:"id"`
	SenderID          int64     `db:"sender_id"`
	SenderUsername    string    `db:"sender_username"`
	ReceiverID        int64     `db:"receiver_id"`
	ReceiverUsername  string    `db:"receiver_username"`
	SenderSkillID     *int64    `db:"sender_skill_id"`   // NULL when not given or skill deleted
	SenderSkillName   *string   `db:"sender_skill_name"` // Joined from skills
	ReceiverSkillID   *int64    `db:"receiver_skill_id"`
	ReceiverSkillName *string   `db:"receiver_skill_name"`
	Message           string    `db:"message"`
	Status            string    `db:"status"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

// NewSwapRequest holds the fields written when a request is created.
type NewSwapRequest struct {
	SenderID        int64
	ReceiverID      int64
	SenderSkillID   *int64
	ReceiverSkillID *int64
	Message         string
}

// SwapRequestEvent is published for every creation and status transition.
type SwapRequestEvent struct {
	EventID       string `json:"event_id"`
	Type          string `json:"type"` // created, accepted, rejected
	SwapRequestID int64  `json:"swap_request_id"`
	SenderID      int64  `json:"sender_id"`
	ReceiverID    int64  `json:"receiver_id"`
	Status        string `json:"status"`
	Timestamp     int64  `json:"timestamp"`
}
