package scheduler

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"dorm-backend/services"
	"dorm-backend/utils"
)

// Scheduler runs the recurring maintenance jobs in-process: daily
// overdue reminders, monthly expense generation, and a nightly backup
// snapshot written to disk.
type Scheduler struct {
	cron     *cron.Cron
	overdue  *services.OverdueService
	expenses *services.ExpenseService
	backup   *services.BackupService
	orgID    uint
}

func New(overdue *services.OverdueService, expenses *services.ExpenseService, backup *services.BackupService, orgID uint) *Scheduler {
	s := &Scheduler{
		cron:     cron.New(cron.WithLocation(time.Local)),
		overdue:  overdue,
		expenses: expenses,
		backup:   backup,
		orgID:    orgID,
	}
	s.registerJobs()
	return s
}

func (s *Scheduler) registerJobs() {
	// Standard 5-field specs, overridable per deployment.
	reminderSpec := utils.EnvOrDefault("CRON_OVERDUE_REMINDERS", "0 9 * * *")
	expenseSpec := utils.EnvOrDefault("CRON_GENERATE_EXPENSES", "0 1 1 * *")
	backupSpec := utils.EnvOrDefault("CRON_AUTO_BACKUP", "0 3 * * *")

	if _, err := s.cron.AddFunc(reminderSpec, s.runOverdueReminders); err != nil {
		log.Printf("❌ failed to register overdue reminder job: %v", err)
	}
	if _, err := s.cron.AddFunc(expenseSpec, s.runGenerateExpenses); err != nil {
		log.Printf("❌ failed to register expense generation job: %v", err)
	}
	if _, err := s.cron.AddFunc(backupSpec, s.runAutoBackup); err != nil {
		log.Printf("❌ failed to register auto-backup job: %v", err)
	}
}

func (s *Scheduler) runOverdueReminders() {
	report, err := s.overdue.SendReminders(s.orgID)
	if err != nil {
		log.Printf("❌ overdue reminder job failed: %v", err)
		return
	}
	log.Printf("⏰ overdue reminders: %d overdue, %d notified, %d failed, %d skipped",
		report.Overdue, report.Notified, report.Failed, report.Skipped)
}

func (s *Scheduler) runGenerateExpenses() {
	created, err := s.expenses.GenerateMonthly(s.orgID)
	if err != nil {
		log.Printf("❌ expense generation job failed: %v", err)
		return
	}
	log.Printf("⏰ monthly expenses generated: %d created", created)
}

func (s *Scheduler) runAutoBackup() {
	file, err := s.backup.Export()
	if err != nil {
		log.Printf("❌ auto-backup job failed: %v", err)
		return
	}

	dir := utils.EnvOrDefault("BACKUP_DIR", "backups")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("❌ auto-backup: cannot create %s: %v", dir, err)
		return
	}

	name := fmt.Sprintf("backup-%s.json", time.Now().Format("2006-01-02"))
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		log.Printf("❌ auto-backup: marshal failed: %v", err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Printf("❌ auto-backup: write failed: %v", err)
		return
	}
	log.Printf("⏰ auto-backup written to %s (%d records)", path, file.Metadata.TotalRecords)
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("✅ Cron scheduler started")
}

// Stop waits for any in-flight job before returning.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("✅ Cron scheduler stopped")
}
