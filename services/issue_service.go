package services

import (
	"errors"
	"fmt"

	"dorm-backend/models"

	"gorm.io/gorm"
)

type IssueService struct {
	DB *gorm.DB
}

func NewIssueService(db *gorm.DB) *IssueService {
	return &IssueService{DB: db}
}

func (s *IssueService) Create(orgID uint, issue models.Issue) (*models.Issue, error) {
	issue.OrganizationID = orgID
	if issue.Description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	}
	if issue.Status == "" {
		issue.Status = models.IssueOpen
	}
	if issue.ReportedVia == "" {
		issue.ReportedVia = "admin"
	}
	if err := s.DB.Create(&issue).Error; err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}
	return &issue, nil
}

func (s *IssueService) List(orgID uint, status *models.IssueStatus) ([]models.Issue, error) {
	q := s.DB.Where("organization_id = ?", orgID).Order("id DESC")
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var issues []models.Issue
	err := q.Find(&issues).Error
	return issues, err
}

func (s *IssueService) UpdateStatus(id uint, status models.IssueStatus) (*models.Issue, error) {
	switch status {
	case models.IssueOpen, models.IssueInProgress, models.IssueResolved:
	default:
		return nil, fmt.Errorf("%w: unknown issue status %q", ErrValidation, status)
	}

	var issue models.Issue
	if err := s.DB.First(&issue, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: issue %d", ErrNotFound, id)
		}
		return nil, err
	}
	if err := s.DB.Model(&issue).Update("status", status).Error; err != nil {
		return nil, err
	}
	return &issue, nil
}
