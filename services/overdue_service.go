package services

import (
	"fmt"
	"log"
	"time"

	"dorm-backend/models"

	"gorm.io/gorm"
)

// OverdueService classifies Pending bills as overdue and fires the
// reminder batch. The overdue policy is calendar-aligned: a bill is
// overdue when its billing month is before the current calendar month,
// or it is the current month and today's day-of-month is past the
// grace day. (The alternative "created N days ago" sliding window was
// considered and rejected; one policy only.)
type OverdueService struct {
	DB       *gorm.DB
	Notifier Notifier
	clock    func() time.Time
}

func NewOverdueService(db *gorm.DB, notifier Notifier) *OverdueService {
	return &OverdueService{DB: db, Notifier: notifier, clock: time.Now}
}

// isOverdue applies the calendar cutoff for one bill month.
func isOverdue(billMonth, now time.Time, graceDay int) bool {
	by, bm := billMonth.Year(), billMonth.Month()
	ny, nm := now.Year(), now.Month()

	if by < ny || (by == ny && bm < nm) {
		return true
	}
	return by == ny && bm == nm && now.Day() > graceDay
}

// FindOverdue returns the organization's overdue Pending bills.
func (s *OverdueService) FindOverdue(orgID uint) ([]models.Billing, error) {
	rates, err := (&BillingService{DB: s.DB}).Rates(orgID)
	if err != nil {
		return nil, err
	}

	var pending []models.Billing
	if err := s.DB.Preload("Room").Preload("Resident").
		Where("organization_id = ? AND payment_status = ?", orgID, models.PaymentPending).
		Find(&pending).Error; err != nil {
		return nil, fmt.Errorf("failed to scan pending bills: %w", err)
	}

	now := s.clock()
	overdue := make([]models.Billing, 0, len(pending))
	for _, bill := range pending {
		if isOverdue(bill.Month, now, rates.OverdueGraceDay) {
			overdue = append(overdue, bill)
		}
	}
	return overdue, nil
}

// ReminderReport summarizes one reminder batch run.
type ReminderReport struct {
	Overdue  int `json:"overdue"`
	Notified int `json:"notified"`
	Failed   int `json:"failed"`
	Skipped  int `json:"skipped"` // no linked chat identity
}

// SendReminders pushes a reminder for each overdue bill. Individual
// send failures are counted but never halt the batch.
func (s *OverdueService) SendReminders(orgID uint) (*ReminderReport, error) {
	overdue, err := s.FindOverdue(orgID)
	if err != nil {
		return nil, err
	}

	report := &ReminderReport{Overdue: len(overdue)}
	for _, bill := range overdue {
		if bill.Resident == nil || bill.Resident.ChatUserID == nil || *bill.Resident.ChatUserID == "" {
			report.Skipped++
			continue
		}
		msg := fmt.Sprintf("Reminder: bill #%d for room %s (%.2f baht, %s) is overdue. Please pay and upload your slip.",
			bill.ID, bill.Room.RoomNumber, bill.TotalAmount, bill.Month.Format("2006-01"))
		if err := s.Notifier.PushText(*bill.Resident.ChatUserID, msg); err != nil {
			log.Printf("⚠️  overdue reminder failed for bill %d: %v", bill.ID, err)
			report.Failed++
			continue
		}
		report.Notified++
	}
	return report, nil
}
