// services/backup_service.go
package services

import (
	"fmt"
	"time"

	"dorm-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BackupService exports the full database as one JSON document and
// restores it with a delete-all-then-bulk-insert pass ordered by FK
// dependency depth. Restore is NOT transactional across tables: a
// failure mid-restore leaves the database partially restored. That is
// an accepted, documented risk, not a hidden one.
type BackupService struct {
	DB    *gorm.DB
	clock func() time.Time
}

func NewBackupService(db *gorm.DB) *BackupService {
	return &BackupService{DB: db, clock: time.Now}
}

type BackupMetadata struct {
	Version      string    `json:"version"`
	BackupID     string    `json:"backupId"`
	ExportDate   time.Time `json:"exportDate"`
	TotalRecords int       `json:"totalRecords"`
}

// BackupData holds every table, parents first. Restore inserts in
// field order and deletes in reverse.
type BackupData struct {
	Organizations     []models.Organization     `json:"organizations"`
	Admins            []models.Admin            `json:"admins"`
	Rooms             []models.Room             `json:"rooms"`
	RateSettings      []models.RateSetting      `json:"rateSettings"`
	Residents         []models.Resident         `json:"residents"`
	Billing           []models.Billing          `json:"billing"`
	RecurringExpenses []models.RecurringExpense `json:"recurringExpenses"`
	Expenses          []models.Expense          `json:"expenses"`
	Issues            []models.Issue            `json:"issues"`
	VerificationCodes []models.VerificationCode `json:"verificationCodes"`
	ChatSessions      []models.ChatSession      `json:"chatSessions"`
	AuditLogs         []models.AuditLog         `json:"auditLogs"`
}

type BackupFile struct {
	Metadata BackupMetadata `json:"metadata"`
	Data     BackupData     `json:"data"`
}

const backupVersion = "1"

// Export dumps all tables (soft-deleted rows included, they are still
// financial history).
func (s *BackupService) Export() (*BackupFile, error) {
	var data BackupData

	collect := func(dest interface{}) error {
		return s.DB.Unscoped().Find(dest).Error
	}

	steps := []struct {
		name string
		dest interface{}
	}{
		{"organizations", &data.Organizations},
		{"admins", &data.Admins},
		{"rooms", &data.Rooms},
		{"rate_settings", &data.RateSettings},
		{"residents", &data.Residents},
		{"billing", &data.Billing},
		{"recurring_expenses", &data.RecurringExpenses},
		{"expenses", &data.Expenses},
		{"issues", &data.Issues},
		{"verification_codes", &data.VerificationCodes},
		{"chat_sessions", &data.ChatSessions},
		{"audit_logs", &data.AuditLogs},
	}
	for _, step := range steps {
		if err := collect(step.dest); err != nil {
			return nil, fmt.Errorf("export failed on %s: %w", step.name, err)
		}
	}

	total := len(data.Organizations) + len(data.Admins) + len(data.Rooms) +
		len(data.RateSettings) + len(data.Residents) + len(data.Billing) +
		len(data.RecurringExpenses) + len(data.Expenses) + len(data.Issues) +
		len(data.VerificationCodes) + len(data.ChatSessions) + len(data.AuditLogs)

	return &BackupFile{
		Metadata: BackupMetadata{
			Version:      backupVersion,
			BackupID:     uuid.NewString(),
			ExportDate:   s.clock(),
			TotalRecords: total,
		},
		Data: data,
	}, nil
}

// Restore wipes all tables in reverse dependency order and bulk-inserts
// the backup contents in dependency order. Returns per-table inserted
// counts.
func (s *BackupService) Restore(file *BackupFile) (map[string]int, error) {
	if file == nil || file.Metadata.Version != backupVersion {
		return nil, fmt.Errorf("%w: unsupported backup version", ErrValidation)
	}

	deleteOrder := []interface{}{
		&models.AuditLog{},
		&models.ChatSession{},
		&models.VerificationCode{},
		&models.Issue{},
		&models.Expense{},
		&models.RecurringExpense{},
		&models.Billing{},
		&models.Resident{},
		&models.RateSetting{},
		&models.Room{},
		&models.Admin{},
		&models.Organization{},
	}
	for _, m := range deleteOrder {
		if err := s.DB.Unscoped().Where("1 = 1").Delete(m).Error; err != nil {
			return nil, fmt.Errorf("restore wipe failed: %w", err)
		}
	}

	counts := map[string]int{}
	insert := func(name string, rows interface{}, n int) error {
		if n == 0 {
			counts[name] = 0
			return nil
		}
		if err := s.DB.Create(rows).Error; err != nil {
			return fmt.Errorf("restore insert failed on %s: %w", name, err)
		}
		counts[name] = n
		return nil
	}

	d := file.Data
	if err := insert("organizations", &d.Organizations, len(d.Organizations)); err != nil {
		return counts, err
	}
	if err := insert("admins", &d.Admins, len(d.Admins)); err != nil {
		return counts, err
	}
	if err := insert("rooms", &d.Rooms, len(d.Rooms)); err != nil {
		return counts, err
	}
	if err := insert("rateSettings", &d.RateSettings, len(d.RateSettings)); err != nil {
		return counts, err
	}
	if err := insert("residents", &d.Residents, len(d.Residents)); err != nil {
		return counts, err
	}
	if err := insert("billing", &d.Billing, len(d.Billing)); err != nil {
		return counts, err
	}
	if err := insert("recurringExpenses", &d.RecurringExpenses, len(d.RecurringExpenses)); err != nil {
		return counts, err
	}
	if err := insert("expenses", &d.Expenses, len(d.Expenses)); err != nil {
		return counts, err
	}
	if err := insert("issues", &d.Issues, len(d.Issues)); err != nil {
		return counts, err
	}
	if err := insert("verificationCodes", &d.VerificationCodes, len(d.VerificationCodes)); err != nil {
		return counts, err
	}
	if err := insert("chatSessions", &d.ChatSessions, len(d.ChatSessions)); err != nil {
		return counts, err
	}
	if err := insert("auditLogs", &d.AuditLogs, len(d.AuditLogs)); err != nil {
		return counts, err
	}

	return counts, nil
}
