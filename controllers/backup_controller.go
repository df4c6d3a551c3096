package controllers

import (
	"errors"
	"net/http"

	"dorm-backend/middleware"
	"dorm-backend/services"
	"dorm-backend/utils"

	"github.com/gin-gonic/gin"
)

type BackupController struct {
	Backup *services.BackupService
	Audit  *services.AuditService
}

func NewBackupController(backup *services.BackupService, audit *services.AuditService) *BackupController {
	return &BackupController{Backup: backup, Audit: audit}
}

func (bc *BackupController) Export(c *gin.Context) {
	file, err := bc.Backup.Export()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	bc.Audit.Record(middleware.OrgID(c), middleware.AdminID(c), "export", "backup", 0, nil, file.Metadata, c.ClientIP())
	c.JSON(http.StatusOK, file)
}

// Restore wipes the database and loads the posted backup. Not
// transactional: a mid-restore failure leaves the database partially
// restored, so the error includes the per-table counts written so far.
func (bc *BackupController) Restore(c *gin.Context) {
	var file services.BackupFile
	if err := c.ShouldBindJSON(&file); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid backup payload")
		return
	}

	counts, err := bc.Backup.Restore(&file)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			utils.JSONError(c, http.StatusBadRequest, err.Error())
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
			"partial": counts,
		})
		return
	}

	bc.Audit.Record(middleware.OrgID(c), middleware.AdminID(c), "restore", "backup", 0, nil, counts, c.ClientIP())
	utils.JSONSuccess(c, http.StatusOK, gin.H{"restored": counts, "metadata": file.Metadata})
}
