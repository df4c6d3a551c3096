package controllers

import (
	"net/http"

	"dorm-backend/middleware"
	"dorm-backend/models"
	"dorm-backend/services"
	"dorm-backend/utils"

	"github.com/gin-gonic/gin"
)

type IssueController struct {
	Issues *services.IssueService
	Audit  *services.AuditService
}

func NewIssueController(issues *services.IssueService, audit *services.AuditService) *IssueController {
	return &IssueController{Issues: issues, Audit: audit}
}

func (ic *IssueController) List(c *gin.Context) {
	var status *models.IssueStatus
	if raw := c.Query("status"); raw != "" {
		s := models.IssueStatus(raw)
		status = &s
	}

	issues, err := ic.Issues.List(middleware.OrgID(c), status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, issues)
}

func (ic *IssueController) Create(c *gin.Context) {
	var payload models.Issue
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	created, err := ic.Issues.Create(middleware.OrgID(c), payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	ic.Audit.Record(middleware.OrgID(c), middleware.AdminID(c), "create", "issue", created.ID, nil, created, c.ClientIP())
	c.JSON(http.StatusCreated, created)
}

type issueStatusPayload struct {
	Status models.IssueStatus `json:"status"`
}

func (ic *IssueController) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var payload issueStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	issue, err := ic.Issues.UpdateStatus(id, payload.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	ic.Audit.Record(middleware.OrgID(c), middleware.AdminID(c), "update_status", "issue", id, nil, issue, c.ClientIP())
	c.JSON(http.StatusOK, issue)
}
