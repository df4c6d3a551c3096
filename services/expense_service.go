package services

import (
	"errors"
	"fmt"
	"time"

	"dorm-backend/models"

	"gorm.io/gorm"
)

type ExpenseService struct {
	DB    *gorm.DB
	clock func() time.Time
}

func NewExpenseService(db *gorm.DB) *ExpenseService {
	return &ExpenseService{DB: db, clock: time.Now}
}

func (s *ExpenseService) CreateRecurring(orgID uint, e models.RecurringExpense) (*models.RecurringExpense, error) {
	e.OrganizationID = orgID
	if e.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if err := s.DB.Create(&e).Error; err != nil {
		return nil, fmt.Errorf("failed to create recurring expense: %w", err)
	}
	return &e, nil
}

func (s *ExpenseService) ListRecurring(orgID uint) ([]models.RecurringExpense, error) {
	var list []models.RecurringExpense
	err := s.DB.Where("organization_id = ?", orgID).Order("id ASC").Find(&list).Error
	return list, err
}

func (s *ExpenseService) UpdateRecurring(id uint, updates map[string]interface{}) (*models.RecurringExpense, error) {
	delete(updates, "id")
	delete(updates, "organization_id")
	delete(updates, "created_at")
	delete(updates, "deleted_at")

	var e models.RecurringExpense
	if err := s.DB.First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: recurring expense %d", ErrNotFound, id)
		}
		return nil, err
	}
	if len(updates) > 0 {
		if err := s.DB.Model(&e).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update recurring expense: %w", err)
		}
	}
	return &e, nil
}

func (s *ExpenseService) DeleteRecurring(id uint) error {
	result := s.DB.Delete(&models.RecurringExpense{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: recurring expense %d", ErrNotFound, id)
	}
	return nil
}

// monthStart truncates to the first day of the month, which is how
// generated expenses are keyed for idempotency.
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// GenerateMonthly materializes one Expense per active template for the
// current month. Re-running within the same month creates nothing.
func (s *ExpenseService) GenerateMonthly(orgID uint) (int, error) {
	var templates []models.RecurringExpense
	if err := s.DB.Where("organization_id = ? AND active = ?", orgID, true).Find(&templates).Error; err != nil {
		return 0, fmt.Errorf("failed to load recurring expenses: %w", err)
	}

	month := monthStart(s.clock())
	created := 0
	for _, tpl := range templates {
		var count int64
		if err := s.DB.Model(&models.Expense{}).
			Where("recurring_expense_id = ? AND month = ?", tpl.ID, month).
			Count(&count).Error; err != nil {
			return created, err
		}
		if count > 0 {
			continue
		}

		expense := models.Expense{
			OrganizationID:     orgID,
			RecurringExpenseID: &tpl.ID,
			Name:               tpl.Name,
			Category:           tpl.Category,
			Amount:             tpl.Amount,
			Month:              month,
		}
		if err := s.DB.Create(&expense).Error; err != nil {
			return created, fmt.Errorf("failed to create expense from template %d: %w", tpl.ID, err)
		}
		created++
	}
	return created, nil
}

func (s *ExpenseService) ListExpenses(orgID uint, month *time.Time) ([]models.Expense, error) {
	q := s.DB.Where("organization_id = ?", orgID).Order("month DESC, id ASC")
	if month != nil {
		q = q.Where("month = ?", monthStart(*month))
	}
	var list []models.Expense
	err := q.Find(&list).Error
	return list, err
}
