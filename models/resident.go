package models

import (
	"time"

	"gorm.io/gorm"
)

type ResidentStatus string

const (
	ResidentActive     ResidentStatus = "Active"
	ResidentCheckedOut ResidentStatus = "CheckedOut"
)

type DepositStatus string

const (
	DepositHeld      DepositStatus = "Held"
	DepositReturned  DepositStatus = "Returned"
	DepositForfeited DepositStatus = "Forfeited"
)

// Resident is a person occupying (or formerly occupying) a room. A
// resident is soft-closed at checkout (RoomID nulled, status
// CheckedOut) and never deleted.
type Resident struct {
	gorm.Model

	OrganizationID uint  `gorm:"index" json:"organization_id"`
	RoomID         *uint `gorm:"index;column:room_id" json:"roomId,omitempty"`

	FullName string `gorm:"size:255" json:"fullName"`
	Phone    string `gorm:"size:50" json:"phone"`
	Email    string `gorm:"size:150" json:"email"`

	Status       ResidentStatus `gorm:"size:32;default:Active" json:"status"`
	IsMainTenant bool           `gorm:"column:is_main_tenant;default:false" json:"isMainTenant"`

	Deposit         float64       `json:"deposit"`
	DepositStatus   DepositStatus `gorm:"size:32;default:Held" json:"depositStatus"`
	DepositReturned float64       `gorm:"column:deposit_returned" json:"depositReturned"`
	ForfeitReason   string        `gorm:"type:text" json:"forfeitReason,omitempty"`

	ContractStartDate *time.Time `json:"contractStartDate,omitempty"`
	ContractEndDate   *time.Time `json:"contractEndDate,omitempty"`
	ContractMonths    int        `gorm:"column:contract_months" json:"contractMonths"`

	CheckInDate  *time.Time `json:"checkInDate,omitempty"`
	CheckOutDate *time.Time `json:"checkOutDate,omitempty"`

	// Linked chat identity for self-service notifications (nullable
	// until the resident redeems a verification code).
	ChatUserID *string `gorm:"size:128;index;column:chat_user_id" json:"chatUserId,omitempty"`

	Room Room `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
}
