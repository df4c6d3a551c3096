package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"dorm-backend/config"
	"dorm-backend/controllers"
	"dorm-backend/routes"
	"dorm-backend/scheduler"
	"dorm-backend/services"
	"dorm-backend/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	db, err := config.ConnectDatabase()
	if err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	log.Println("✅ Database connection established and migrations applied")

	defaultOrgID := config.SeedDatabase(db)

	rdb := config.ConnectRedis()
	notifier := utils.NewLineClient()

	// Services
	billingService := services.NewBillingService(db, notifier)
	residentService := services.NewResidentService(db, notifier)
	roomService := services.NewRoomService(db)
	overdueService := services.NewOverdueService(db, notifier)
	expenseService := services.NewExpenseService(db)
	auditService := services.NewAuditService(db)
	backupService := services.NewBackupService(db)
	dashboardService := services.NewDashboardService(db, rdb)
	chatService := services.NewChatService(db, notifier)
	issueService := services.NewIssueService(db)
	reportService := services.NewReportService(db)

	// Controllers
	ctl := routes.Controllers{
		Auth:      controllers.NewAuthController(db),
		Admins:    controllers.NewAdminController(db, auditService),
		Rooms:     controllers.NewRoomController(roomService, auditService),
		Residents: controllers.NewResidentController(residentService, auditService),
		Billing:   controllers.NewBillingController(billingService, overdueService, auditService),
		Settings:  controllers.NewSettingsController(billingService, auditService),
		Expenses:  controllers.NewExpenseController(expenseService, auditService),
		Issues:    controllers.NewIssueController(issueService, auditService),
		Audit:     controllers.NewAuditController(auditService),
		Dashboard: controllers.NewDashboardController(dashboardService),
		Backup:    controllers.NewBackupController(backupService, auditService),
		Cron:      controllers.NewCronController(overdueService, expenseService, backupService, defaultOrgID),
		Webhook:   controllers.NewWebhookController(chatService),
		Reports:   controllers.NewReportController(reportService),
	}

	router := routes.SetupRouter(ctl)

	sched := scheduler.New(overdueService, expenseService, backupService, defaultOrgID)
	sched.Start()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
