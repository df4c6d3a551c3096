package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"dorm-backend/controllers"
	"dorm-backend/middleware"
	"dorm-backend/models"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// Controllers groups the controller instances SetupRouter wires up.
type Controllers struct {
	Auth      *controllers.AuthController
	Admins    *controllers.AdminController
	Rooms     *controllers.RoomController
	Residents *controllers.ResidentController
	Billing   *controllers.BillingController
	Settings  *controllers.SettingsController
	Expenses  *controllers.ExpenseController
	Issues    *controllers.IssueController
	Audit     *controllers.AuditController
	Dashboard *controllers.DashboardController
	Backup    *controllers.BackupController
	Cron      *controllers.CronController
	Webhook   *controllers.WebhookController
	Reports   *controllers.ReportController
}

func SetupRouter(ctl Controllers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())
	r.Static("/uploads", "./uploads")

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// chat platform webhook, unauthenticated (platform signs deliveries)
	r.POST("/webhook/line", ctl.Webhook.Receive)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", ctl.Auth.Login)
			auth.POST("/activate", ctl.Auth.Activate)
		}

		// cron-triggered endpoints, bearer token protected
		cron := api.Group("/cron", middleware.RequireCronToken())
		{
			cron.POST("/overdue-reminders", ctl.Cron.OverdueReminders)
			cron.POST("/generate-expenses", ctl.Cron.GenerateExpenses)
			cron.POST("/auto-backup", ctl.Cron.AutoBackup)
		}

		authed := api.Group("", middleware.RequireAuth())

		rooms := authed.Group("/rooms")
		{
			rooms.GET("", ctl.Rooms.GetRooms)
			rooms.GET("/:id", ctl.Rooms.GetRoomByID)
			rooms.POST("", ctl.Rooms.CreateRoom)
			rooms.PATCH("/:id", ctl.Rooms.UpdateRoom)
			rooms.PUT("/:id", ctl.Rooms.UpdateRoom)
			rooms.DELETE("/:id", ctl.Rooms.DeleteRoom)
		}

		residents := authed.Group("/residents")
		{
			residents.GET("", ctl.Residents.List)
			residents.GET("/:id", ctl.Residents.GetByID)
			residents.POST("/checkin", ctl.Residents.CheckIn)
			residents.PATCH("/:id", ctl.Residents.Update)
			residents.POST("/:id/transfer", ctl.Residents.Transfer)
			residents.POST("/:id/checkout", ctl.Residents.Checkout)
			residents.POST("/:id/main-tenant", ctl.Residents.SetMainTenant)
			residents.POST("/:id/verification-code", ctl.Residents.IssueCode)
		}

		billing := authed.Group("/billing")
		{
			billing.GET("", ctl.Billing.List)

			// must sit before /:id
			billing.GET("/overdue", ctl.Billing.ListOverdue)

			billing.GET("/:id", ctl.Billing.GetByID)
			billing.POST("", ctl.Billing.Create)
			billing.POST("/bulk", ctl.Billing.CreateBulk)
			billing.POST("/:id/slip", ctl.Billing.UploadSlip)

			review := billing.Group("", middleware.RequireRole(models.RoleOwner, models.RoleAdmin))
			{
				review.POST("/:id/approve", ctl.Billing.Approve)
				review.POST("/:id/reject", ctl.Billing.Reject)
				review.POST("/:id/cash", ctl.Billing.CashPay)
			}
		}

		settings := authed.Group("/settings")
		{
			settings.GET("/rates", ctl.Settings.GetRates)
			settings.PUT("/rates", ctl.Settings.UpdateRates)
			settings.GET("/payment", ctl.Settings.GetPaymentInfo)
		}

		expenses := authed.Group("/expenses")
		{
			expenses.GET("", ctl.Expenses.ListExpenses)
			expenses.POST("/generate", ctl.Expenses.Generate)
			expenses.GET("/recurring", ctl.Expenses.ListRecurring)
			expenses.POST("/recurring", ctl.Expenses.CreateRecurring)
			expenses.PATCH("/recurring/:id", ctl.Expenses.UpdateRecurring)
			expenses.DELETE("/recurring/:id", ctl.Expenses.DeleteRecurring)
		}

		issues := authed.Group("/issues")
		{
			issues.GET("", ctl.Issues.List)
			issues.POST("", ctl.Issues.Create)
			issues.PATCH("/:id/status", ctl.Issues.UpdateStatus)
		}

		authed.GET("/audit-logs", ctl.Audit.Query)
		authed.GET("/dashboard/summary", ctl.Dashboard.Summary)

		reports := authed.Group("/reports")
		{
			reports.GET("/billing", ctl.Reports.BillingReport)
			reports.GET("/residents", ctl.Reports.ResidentReport)
		}

		owner := authed.Group("", middleware.RequireRole(models.RoleOwner))
		{
			owner.GET("/admins", ctl.Admins.GetAdmins)
			owner.POST("/admins", ctl.Admins.CreateAdmin)
			owner.POST("/admins/invite", ctl.Admins.InviteAdmin)
			owner.DELETE("/admins/:id", ctl.Admins.DeleteAdmin)

			owner.GET("/backup/export", ctl.Backup.Export)
			owner.POST("/backup/restore", ctl.Backup.Restore)
		}
	}

	return r
}
