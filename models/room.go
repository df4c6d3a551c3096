package models

import (
	"gorm.io/gorm"
)

// RoomStatus is the occupancy state of a room. Status strings are
// compared through these constants only, never ad hoc.
type RoomStatus string

const (
	RoomAvailable RoomStatus = "Available"
	RoomOccupied  RoomStatus = "Occupied"
	RoomReserved  RoomStatus = "Reserved"
)

type Room struct {
	gorm.Model

	OrganizationID uint   `gorm:"uniqueIndex:idx_org_room" json:"organization_id"`
	RoomNumber     string `json:"roomNumber" gorm:"column:room_number;uniqueIndex:idx_org_room;type:varchar(50)"`
	Floor          string `json:"floor" gorm:"type:varchar(10)"`

	Price  float64    `json:"price"` // monthly rent
	Status RoomStatus `json:"status" gorm:"size:32;default:Available"`

	DefaultContractMonths int     `json:"defaultContractMonths" gorm:"column:default_contract_months;default:6"`
	DefaultDeposit        float64 `json:"defaultDeposit" gorm:"column:default_deposit"`
	ChargeCommonArea      bool    `json:"chargeCommonArea" gorm:"column:charge_common_area;default:true"`

	Description string `json:"description" gorm:"type:text"`
}
