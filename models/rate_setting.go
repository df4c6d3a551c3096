package models

import "time"

// RateSetting is the per-organization fee schedule used to default
// bill line items and the lifecycle/overdue grace windows.
type RateSetting struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	OrganizationID uint `gorm:"uniqueIndex" json:"organization_id"`

	WaterRate    float64 `gorm:"column:water_rate" json:"waterRate"`       // per unit
	ElectricRate float64 `gorm:"column:electric_rate" json:"electricRate"` // per unit

	TrashFee    float64 `gorm:"column:trash_fee" json:"trashFee"`
	InternetFee float64 `gorm:"column:internet_fee" json:"internetFee"`
	CommonFee   float64 `gorm:"column:common_fee" json:"commonFee"`

	// Checkout earlier than contract end minus this many days forfeits
	// the deposit.
	CheckoutGraceDays int `gorm:"column:checkout_grace_days;default:3" json:"checkoutGraceDays"`

	// Pending bills for the current month become overdue after this
	// day of month.
	OverdueGraceDay int `gorm:"column:overdue_grace_day;default:5" json:"overdueGraceDay"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
