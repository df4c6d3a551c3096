package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"dorm-backend/models"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// DashboardService computes the admin dashboard summary. The summary
// is cached in Redis for two minutes; any cache error falls through to
// a fresh query.
type DashboardService struct {
	DB    *gorm.DB
	Redis *redis.Client
	clock func() time.Time
}

func NewDashboardService(db *gorm.DB, rdb *redis.Client) *DashboardService {
	return &DashboardService{DB: db, Redis: rdb, clock: time.Now}
}

const dashboardCacheTTL = 2 * time.Minute

type DashboardSummary struct {
	RoomsTotal     int64 `json:"roomsTotal"`
	RoomsOccupied  int64 `json:"roomsOccupied"`
	RoomsAvailable int64 `json:"roomsAvailable"`
	RoomsReserved  int64 `json:"roomsReserved"`

	ActiveResidents int64 `json:"activeResidents"`
	OpenIssues      int64 `json:"openIssues"`

	BillsPending int64 `json:"billsPending"`
	BillsReview  int64 `json:"billsReview"`
	BillsOverdue int64 `json:"billsOverdue"`

	MonthRevenue  float64   `json:"monthRevenue"`
	MonthExpenses float64   `json:"monthExpenses"`
	GeneratedAt   time.Time `json:"generatedAt"`
}

func dashboardCacheKey(orgID uint) string {
	return fmt.Sprintf("dashboard:summary:%d", orgID)
}

func (s *DashboardService) Summary(ctx context.Context, orgID uint) (*DashboardSummary, error) {
	if s.Redis != nil {
		if raw, err := s.Redis.Get(ctx, dashboardCacheKey(orgID)).Result(); err == nil {
			var cached DashboardSummary
			if jErr := json.Unmarshal([]byte(raw), &cached); jErr == nil {
				return &cached, nil
			}
		}
	}

	summary, err := s.compute(orgID)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if raw, jErr := json.Marshal(summary); jErr == nil {
			if err := s.Redis.Set(ctx, dashboardCacheKey(orgID), raw, dashboardCacheTTL).Err(); err != nil {
				log.Printf("⚠️  dashboard cache write failed: %v", err)
			}
		}
	}

	return summary, nil
}

func (s *DashboardService) compute(orgID uint) (*DashboardSummary, error) {
	summary := &DashboardSummary{GeneratedAt: s.clock()}

	roomCount := func(status models.RoomStatus, dest *int64) error {
		return s.DB.Model(&models.Room{}).
			Where("organization_id = ? AND status = ?", orgID, status).
			Count(dest).Error
	}

	if err := s.DB.Model(&models.Room{}).Where("organization_id = ?", orgID).Count(&summary.RoomsTotal).Error; err != nil {
		return nil, err
	}
	if err := roomCount(models.RoomOccupied, &summary.RoomsOccupied); err != nil {
		return nil, err
	}
	if err := roomCount(models.RoomAvailable, &summary.RoomsAvailable); err != nil {
		return nil, err
	}
	if err := roomCount(models.RoomReserved, &summary.RoomsReserved); err != nil {
		return nil, err
	}

	if err := s.DB.Model(&models.Resident{}).
		Where("organization_id = ? AND status = ?", orgID, models.ResidentActive).
		Count(&summary.ActiveResidents).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Issue{}).
		Where("organization_id = ? AND status = ?", orgID, models.IssueOpen).
		Count(&summary.OpenIssues).Error; err != nil {
		return nil, err
	}

	billCount := func(status models.PaymentStatus, dest *int64) error {
		return s.DB.Model(&models.Billing{}).
			Where("organization_id = ? AND payment_status = ?", orgID, status).
			Count(dest).Error
	}
	if err := billCount(models.PaymentPending, &summary.BillsPending); err != nil {
		return nil, err
	}
	if err := billCount(models.PaymentReview, &summary.BillsReview); err != nil {
		return nil, err
	}

	overdue, err := (&OverdueService{DB: s.DB, clock: s.clock}).FindOverdue(orgID)
	if err != nil {
		return nil, err
	}
	summary.BillsOverdue = int64(len(overdue))

	now := s.clock()
	start := monthStart(now)
	end := start.AddDate(0, 1, 0)

	var revenue *float64
	if err := s.DB.Model(&models.Billing{}).
		Select("SUM(total_amount)").
		Where("organization_id = ? AND payment_status = ? AND payment_date >= ? AND payment_date < ?",
			orgID, models.PaymentPaid, start, end).
		Scan(&revenue).Error; err != nil {
		return nil, err
	}
	if revenue != nil {
		summary.MonthRevenue = *revenue
	}

	var expenses *float64
	if err := s.DB.Model(&models.Expense{}).
		Select("SUM(amount)").
		Where("organization_id = ? AND month = ?", orgID, start).
		Scan(&expenses).Error; err != nil {
		return nil, err
	}
	if expenses != nil {
		summary.MonthExpenses = *expenses
	}

	return summary, nil
}
