package models

import (
	"gorm.io/gorm"
)

type IssueStatus string

const (
	IssueOpen       IssueStatus = "Open"
	IssueInProgress IssueStatus = "InProgress"
	IssueResolved   IssueStatus = "Resolved"
)

// Issue is a repair/maintenance report, filed by staff or by a
// resident through the chat bot.
type Issue struct {
	gorm.Model

	OrganizationID uint  `gorm:"index" json:"organization_id"`
	RoomID         *uint `gorm:"index;column:room_id" json:"roomId,omitempty"`
	ResidentID     *uint `gorm:"index;column:resident_id" json:"residentId,omitempty"`

	Description string      `gorm:"type:text" json:"description"`
	Status      IssueStatus `gorm:"size:32;default:Open" json:"status"`
	ReportedVia string      `gorm:"size:32" json:"reportedVia"` // "chat" or "admin"
}
