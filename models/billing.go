package models

import (
	"time"

	"gorm.io/gorm"
)

// PaymentStatus is the billing payment state. Transitions between
// states go through the billing service only.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentReview  PaymentStatus = "Review"
	PaymentPaid    PaymentStatus = "Paid"
)

// Billing is one rent + utility invoice for a room for one period. The
// meter snapshot fields and TotalAmount are frozen at creation; the
// system never re-derives the total afterwards. Billing rows are never
// deleted (financial record).
type Billing struct {
	gorm.Model

	OrganizationID uint  `gorm:"index" json:"organization_id"`
	RoomID         uint  `gorm:"index;column:room_id" json:"roomId"`
	ResidentID     *uint `gorm:"index;column:resident_id" json:"residentId,omitempty"`

	Month time.Time `gorm:"index" json:"month"`

	RoomPrice float64 `gorm:"column:room_price" json:"roomPrice"`

	WaterMeterLast    float64 `gorm:"column:water_meter_last" json:"waterMeterLast"`
	WaterMeterCurrent float64 `gorm:"column:water_meter_current" json:"waterMeterCurrent"`
	WaterRate         float64 `gorm:"column:water_rate" json:"waterRate"`
	WaterCost         float64 `gorm:"column:water_cost" json:"waterCost"`

	ElectricMeterLast    float64 `gorm:"column:electric_meter_last" json:"electricMeterLast"`
	ElectricMeterCurrent float64 `gorm:"column:electric_meter_current" json:"electricMeterCurrent"`
	ElectricRate         float64 `gorm:"column:electric_rate" json:"electricRate"`
	ElectricCost         float64 `gorm:"column:electric_cost" json:"electricCost"`

	TrashFee    float64 `gorm:"column:trash_fee" json:"trashFee"`
	InternetFee float64 `gorm:"column:internet_fee" json:"internetFee"`
	OtherFee    float64 `gorm:"column:other_fee" json:"otherFee"`
	CommonFee   float64 `gorm:"column:common_fee" json:"commonFee"`

	TotalAmount float64 `gorm:"column:total_amount" json:"totalAmount"`

	PaymentStatus PaymentStatus `gorm:"size:32;index;default:Pending" json:"paymentStatus"`
	PaymentDate   *time.Time    `json:"paymentDate,omitempty"`
	SlipImage     string        `gorm:"size:512" json:"slipImage,omitempty"`

	ReviewedBy *uint      `gorm:"column:reviewed_by" json:"reviewedBy,omitempty"`
	ReviewedAt *time.Time `json:"reviewedAt,omitempty"`
	ReviewNote string     `gorm:"type:text" json:"reviewNote,omitempty"`

	Room     Room      `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
	Resident *Resident `gorm:"foreignKey:ResidentID;references:ID" json:"resident,omitempty"`
}
