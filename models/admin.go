package models

import (
	"time"

	"gorm.io/gorm"
)

type Admin struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	OrganizationID uint   `gorm:"index" json:"organization_id"`
	FullName       string `gorm:"size:255" json:"full_name"`
	Username       string `gorm:"uniqueIndex;size:150" json:"username"`
	Password       string `gorm:"size:255" json:"-"` // store hashed password, never return in JSON
	Role           string `gorm:"size:50;default:staff" json:"role"`

	InviteToken        *string    `gorm:"size:128;index" json:"-"`
	InviteTokenExpires *time.Time `json:"-"`
	ResetToken         *string    `gorm:"size:128;index" json:"-"`
	ResetTokenExpires  *time.Time `json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"`
}

// Admin roles. Owner can manage admins; staff runs day-to-day
// operations but cannot review payments or touch backups.
const (
	RoleOwner = "owner"
	RoleAdmin = "admin"
	RoleStaff = "staff"
)
