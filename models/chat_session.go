package models

import "time"

// Chat conversation states for the webhook state machine.
const (
	ChatStateIdle       = "IDLE"
	ChatStateRepairDesc = "REPAIR_DESC"
)

// ChatSession holds the per-user conversation state for the chat-bot
// webhook, keyed by the platform's user id. Only used to capture a
// free-text repair description after the menu trigger.
type ChatSession struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ChatUserID string    `gorm:"uniqueIndex;size:128;column:chat_user_id" json:"chatUserId"`
	State      string    `gorm:"size:32;default:IDLE" json:"state"`
	UpdatedAt  time.Time `json:"updated_at"`
	CreatedAt  time.Time `json:"created_at"`
}
