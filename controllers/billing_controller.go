// controllers/billing_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"dorm-backend/middleware"
	"dorm-backend/models"
	"dorm-backend/services"
	"dorm-backend/utils"

	"github.com/gin-gonic/gin"
)

type BillingController struct {
	Billing *services.BillingService
	Overdue *services.OverdueService
	Audit   *services.AuditService
}

func NewBillingController(billing *services.BillingService, overdue *services.OverdueService, audit *services.AuditService) *BillingController {
	return &BillingController{Billing: billing, Overdue: overdue, Audit: audit}
}

// ListOverdue returns the organization's currently-overdue Pending
// bills (calendar-month + grace-day policy).
func (bc *BillingController) ListOverdue(c *gin.Context) {
	bills, err := bc.Overdue.FindOverdue(middleware.OrgID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, bills)
}

func (bc *BillingController) List(c *gin.Context) {
	var roomID *uint
	if raw := c.Query("roomId"); raw != "" {
		if v, err := strconv.ParseUint(raw, 10, 32); err == nil {
			id := uint(v)
			roomID = &id
		}
	}
	var status *models.PaymentStatus
	if raw := c.Query("status"); raw != "" {
		s := models.PaymentStatus(raw)
		status = &s
	}

	bills, err := bc.Billing.List(middleware.OrgID(c), roomID, status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, bills)
}

func (bc *BillingController) GetByID(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	bill, err := bc.Billing.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

func (bc *BillingController) Create(c *gin.Context) {
	var input services.CreateBillInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}
	if input.RoomID == 0 {
		utils.JSONError(c, http.StatusBadRequest, "roomId is required")
		return
	}

	bill, err := bc.Billing.CreateBill(middleware.OrgID(c), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	bc.Audit.Record(middleware.OrgID(c), middleware.AdminID(c), "create", "billing", bill.ID, nil, bill, c.ClientIP())
	c.JSON(http.StatusCreated, bill)
}

type bulkBillPayload struct {
	Bills []services.CreateBillInput `json:"bills"`
	Fees  services.FeeSet            `json:"fees"`
}

func (bc *BillingController) CreateBulk(c *gin.Context) {
	var payload bulkBillPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}
	if len(payload.Bills) == 0 {
		utils.JSONError(c, http.StatusBadRequest, "bills array is empty")
		return
	}

	created := bc.Billing.CreateBills(middleware.OrgID(c), payload.Bills, payload.Fees)

	bc.Audit.Record(middleware.OrgID(c), middleware.AdminID(c), "bulk_create", "billing", 0, nil,
		gin.H{"requested": len(payload.Bills), "created": created}, c.ClientIP())
	utils.JSONSuccess(c, http.StatusCreated, gin.H{"requested": len(payload.Bills), "created": created})
}

type slipPayload struct {
	SlipImage string `json:"slipImage"`
}

func (bc *BillingController) UploadSlip(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var payload slipPayload
	if err := c.ShouldBindJSON(&payload); err != nil || payload.SlipImage == "" {
		utils.JSONError(c, http.StatusBadRequest, "slipImage is required")
		return
	}

	bill, err := bc.Billing.UploadSlip(id, payload.SlipImage)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

type reviewPayload struct {
	Note string `json:"note"`
}

func (bc *BillingController) Approve(c *gin.Context) {
	bc.reviewAction(c, "approve")
}

func (bc *BillingController) Reject(c *gin.Context) {
	bc.reviewAction(c, "reject")
}

func (bc *BillingController) reviewAction(c *gin.Context, action string) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var payload reviewPayload
	_ = c.ShouldBindJSON(&payload) // note is optional

	var bill *models.Billing
	var err error
	if action == "approve" {
		bill, err = bc.Billing.Approve(id, middleware.AdminID(c), payload.Note)
	} else {
		bill, err = bc.Billing.Reject(id, middleware.AdminID(c), payload.Note)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	bc.Audit.Record(middleware.OrgID(c), middleware.AdminID(c), action, "billing", id, nil, bill, c.ClientIP())
	c.JSON(http.StatusOK, bill)
}

func (bc *BillingController) CashPay(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	bill, err := bc.Billing.CashPay(id, middleware.AdminID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	bc.Audit.Record(middleware.OrgID(c), middleware.AdminID(c), "cash_pay", "billing", id, nil, bill, c.ClientIP())
	c.JSON(http.StatusOK, bill)
}
