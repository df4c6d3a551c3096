package controllers

import (
	"net/http"
	"strconv"

	"dorm-backend/middleware"
	"dorm-backend/services"

	"github.com/gin-gonic/gin"
)

type AuditController struct {
	Audit *services.AuditService
}

func NewAuditController(audit *services.AuditService) *AuditController {
	return &AuditController{Audit: audit}
}

// Query returns audit entries filtered by entity/action/userId with an
// optional limit (default 100, max 500).
func (ac *AuditController) Query(c *gin.Context) {
	filter := services.AuditFilter{
		Entity: c.Query("entity"),
		Action: c.Query("action"),
	}
	if raw := c.Query("userId"); raw != "" {
		if v, err := strconv.ParseUint(raw, 10, 32); err == nil {
			filter.AdminID = uint(v)
		}
	}
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			filter.Limit = v
		}
	}

	logs, err := ac.Audit.Query(middleware.OrgID(c), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
