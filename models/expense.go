package models

import (
	"time"

	"gorm.io/gorm"
)

// RecurringExpense is a monthly expense template (e.g. cleaning
// service, garbage collection). The generator materializes one Expense
// per template per month.
type RecurringExpense struct {
	gorm.Model

	OrganizationID uint    `gorm:"index" json:"organization_id"`
	Name           string  `gorm:"size:255" json:"name"`
	Category       string  `gorm:"size:100" json:"category"`
	Amount         float64 `json:"amount"`
	Active         bool    `gorm:"default:true" json:"active"`
}

type Expense struct {
	gorm.Model

	OrganizationID     uint  `gorm:"index" json:"organization_id"`
	RecurringExpenseID *uint `gorm:"index;column:recurring_expense_id" json:"recurringExpenseId,omitempty"`

	Name     string    `gorm:"size:255" json:"name"`
	Category string    `gorm:"size:100" json:"category"`
	Amount   float64   `json:"amount"`
	Month    time.Time `gorm:"index" json:"month"`
}
