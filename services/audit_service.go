package services

import (
	"encoding/json"
	"log"

	"dorm-backend/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditService appends audit rows for mutating admin operations.
// Recording is best-effort: an audit write failure is logged, never
// surfaced to the caller.
type AuditService struct {
	DB *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{DB: db}
}

func marshalJSON(v interface{}) datatypes.JSON {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

func (s *AuditService) Record(orgID, adminID uint, action, entity string, entityID uint, before, after interface{}, ip string) {
	entry := models.AuditLog{
		OrganizationID: orgID,
		AdminID:        adminID,
		Action:         action,
		Entity:         entity,
		EntityID:       entityID,
		Before:         marshalJSON(before),
		After:          marshalJSON(after),
		IPAddress:      ip,
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		log.Printf("⚠️  audit log write failed (%s %s %d): %v", action, entity, entityID, err)
	}
}

// AuditFilter narrows an audit query. Zero values mean "any".
type AuditFilter struct {
	Entity  string
	Action  string
	AdminID uint
	Limit   int
}

func (s *AuditService) Query(orgID uint, filter AuditFilter) ([]models.AuditLog, error) {
	q := s.DB.Where("organization_id = ?", orgID).Order("id DESC")
	if filter.Entity != "" {
		q = q.Where("entity = ?", filter.Entity)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if filter.AdminID != 0 {
		q = q.Where("admin_id = ?", filter.AdminID)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var logs []models.AuditLog
	err := q.Limit(limit).Find(&logs).Error
	return logs, err
}
