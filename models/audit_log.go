package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog records one mutating admin operation: who did what to which
// entity, with before/after snapshots as JSON.
type AuditLog struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	OrganizationID uint   `gorm:"index" json:"organization_id"`
	AdminID        uint   `gorm:"index;column:admin_id" json:"adminId"`
	Action         string `gorm:"size:64;index" json:"action"`
	Entity         string `gorm:"size:64;index" json:"entity"`
	EntityID       uint   `gorm:"index;column:entity_id" json:"entityId"`

	Before datatypes.JSON `json:"before,omitempty"`
	After  datatypes.JSON `json:"after,omitempty"`

	IPAddress string    `gorm:"size:64" json:"ipAddress"`
	CreatedAt time.Time `json:"created_at"`
}
