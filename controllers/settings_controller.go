package controllers

import (
	"net/http"

	"dorm-backend/middleware"
	"dorm-backend/models"
	"dorm-backend/services"
	"dorm-backend/utils"

	"github.com/gin-gonic/gin"
)

type SettingsController struct {
	Billing *services.BillingService
	Audit   *services.AuditService
}

func NewSettingsController(billing *services.BillingService, audit *services.AuditService) *SettingsController {
	return &SettingsController{Billing: billing, Audit: audit}
}

func (sc *SettingsController) GetRates(c *gin.Context) {
	rates, err := sc.Billing.Rates(middleware.OrgID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rates": rates})
}

func (sc *SettingsController) UpdateRates(c *gin.Context) {
	var payload models.RateSetting
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	before, _ := sc.Billing.Rates(middleware.OrgID(c))
	rates, err := sc.Billing.UpdateRates(middleware.OrgID(c), payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	sc.Audit.Record(middleware.OrgID(c), middleware.AdminID(c), "update", "rate_setting", rates.ID, before, rates, c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"rates": rates})
}

// GetPaymentInfo exposes the bank/PromptPay display fields used by the
// payment page. Display only; QR image rendering happens client-side.
func (sc *SettingsController) GetPaymentInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"bankName":      utils.EnvOrDefault("BANK_NAME", ""),
		"bankAccount":   utils.EnvOrDefault("BANK_ACCOUNT", ""),
		"accountHolder": utils.EnvOrDefault("BANK_ACCOUNT_HOLDER", ""),
		"promptPayID":   utils.EnvOrDefault("PROMPTPAY_ID", ""),
	})
}
