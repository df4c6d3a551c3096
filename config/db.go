package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"dorm-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "dorm_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

// ConnectDatabase opens the MySQL connection and runs migrations.
// Callers hold the returned handle; there is no package-level singleton.
func ConnectDatabase() (*gorm.DB, error) {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return nil, err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return nil, err
	}

	// parents before children so FK columns resolve
	if err := db.AutoMigrate(
		&models.Organization{},
		&models.Admin{},
		&models.Room{},
		&models.RateSetting{},
		&models.Resident{},
		&models.Billing{},
		&models.RecurringExpense{},
		&models.Expense{},
		&models.Issue{},
		&models.VerificationCode{},
		&models.ChatSession{},
		&models.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return db, nil
}

// SeedDatabase creates the default organization, owner account, and
// rate schedule on an empty database. Returns the default org ID used
// by the single-tenant cron jobs.
func SeedDatabase(db *gorm.DB) uint {
	var org models.Organization
	if err := db.First(&org).Error; err != nil {
		org = models.Organization{Name: envOrDefault("ORG_NAME", "Default Dormitory")}
		if err := db.Create(&org).Error; err != nil {
			log.Printf("warning: failed to seed default organization: %v", err)
			return 0
		}
		log.Println("✅ Default organization seeded")
	}

	var adminCount int64
	db.Model(&models.Admin{}).Where("organization_id = ?", org.ID).Count(&adminCount)
	if adminCount == 0 {
		password := envOrDefault("ADMIN_PASSWORD", "admin123")
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("warning: failed to hash default admin password: %v", err)
		} else {
			admin := models.Admin{
				OrganizationID: org.ID,
				FullName:       "Owner",
				Username:       envOrDefault("ADMIN_USERNAME", "owner@dorm.local"),
				Password:       string(hash),
				Role:           models.RoleOwner,
			}
			if err := db.Create(&admin).Error; err != nil {
				log.Printf("warning: failed to create default owner: %v", err)
			} else {
				log.Println("✅ Default owner account seeded")
			}
		}
	}

	var rateCount int64
	db.Model(&models.RateSetting{}).Where("organization_id = ?", org.ID).Count(&rateCount)
	if rateCount == 0 {
		rates := models.RateSetting{
			OrganizationID:    org.ID,
			WaterRate:         18,
			ElectricRate:      7,
			TrashFee:          50,
			CheckoutGraceDays: 3,
			OverdueGraceDay:   5,
		}
		if err := db.Create(&rates).Error; err != nil {
			log.Printf("warning: failed to seed default rates: %v", err)
		} else {
			log.Println("✅ Default rate settings seeded")
		}
	}

	return org.ID
}
