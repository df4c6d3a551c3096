package models

import "time"

// VerificationCode links a pre-generated code to a resident. A
// resident sends "#CODE" to the chat bot to attach their chat identity
// to the Resident record.
type VerificationCode struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	ResidentID uint       `gorm:"index" json:"residentId"`
	Code       string     `gorm:"uniqueIndex;size:16" json:"code"`
	UsedAt     *time.Time `json:"usedAt,omitempty"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
