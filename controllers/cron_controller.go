package controllers

import (
	"net/http"

	"dorm-backend/services"
	"dorm-backend/utils"

	"github.com/gin-gonic/gin"
)

// CronController serves the bearer-token-protected endpoints hit by an
// external scheduler. The same jobs also run from the in-process cron
// scheduler; the endpoints exist for platforms that prefer external
// triggering.
type CronController struct {
	Overdue  *services.OverdueService
	Expenses *services.ExpenseService
	Backup   *services.BackupService
	OrgID    uint // single-org deployments trigger for the default org
}

func NewCronController(overdue *services.OverdueService, expenses *services.ExpenseService, backup *services.BackupService, orgID uint) *CronController {
	return &CronController{Overdue: overdue, Expenses: expenses, Backup: backup, OrgID: orgID}
}

func (cc *CronController) OverdueReminders(c *gin.Context) {
	report, err := cc.Overdue.SendReminders(cc.OrgID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, report)
}

func (cc *CronController) GenerateExpenses(c *gin.Context) {
	created, err := cc.Expenses.GenerateMonthly(cc.OrgID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"created": created})
}

func (cc *CronController) AutoBackup(c *gin.Context) {
	file, err := cc.Backup.Export()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, file)
}
