// controllers/resident_controller.go
package controllers

import (
	"net/http"

	"dorm-backend/middleware"
	"dorm-backend/services"
	"dorm-backend/utils"

	"github.com/gin-gonic/gin"
)

type ResidentController struct {
	Residents *services.ResidentService
	Audit     *services.AuditService
}

func NewResidentController(residents *services.ResidentService, audit *services.AuditService) *ResidentController {
	return &ResidentController{Residents: residents, Audit: audit}
}

func (rc *ResidentController) List(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	residents, err := rc.Residents.List(middleware.OrgID(c), activeOnly)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, residents)
}

func (rc *ResidentController) GetByID(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	resident, err := rc.Residents.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resident)
}

func (rc *ResidentController) CheckIn(c *gin.Context) {
	var input services.CheckInInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	resident, err := rc.Residents.CheckIn(middleware.OrgID(c), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	rc.Audit.Record(middleware.OrgID(c), middleware.AdminID(c), "checkin", "resident", resident.ID, nil, resident, c.ClientIP())
	c.JSON(http.StatusCreated, resident)
}

func (rc *ResidentController) Transfer(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var input services.TransferInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}
	if input.NewRoomID == 0 {
		utils.JSONError(c, http.StatusBadRequest, "newRoomId is required")
		return
	}

	resident, err := rc.Residents.Transfer(id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	rc.Audit.Record(middleware.OrgID(c), middleware.AdminID(c), "transfer", "resident", id, nil, resident, c.ClientIP())
	c.JSON(http.StatusOK, resident)
}

func (rc *ResidentController) Checkout(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var input services.CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := rc.Residents.Checkout(middleware.OrgID(c), id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	rc.Audit.Record(middleware.OrgID(c), middleware.AdminID(c), "checkout", "resident", id, nil, result.Resident, c.ClientIP())
	c.JSON(http.StatusOK, result)
}

func (rc *ResidentController) SetMainTenant(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := rc.Residents.SetMainTenant(id); err != nil {
		respondServiceError(c, err)
		return
	}

	rc.Audit.Record(middleware.OrgID(c), middleware.AdminID(c), "set_main_tenant", "resident", id, nil, nil, c.ClientIP())
	utils.JSONSuccess(c, http.StatusOK, gin.H{"mainTenant": id})
}

func (rc *ResidentController) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	resident, err := rc.Residents.Update(id, updates)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	rc.Audit.Record(middleware.OrgID(c), middleware.AdminID(c), "update", "resident", id, nil, resident, c.ClientIP())
	c.JSON(http.StatusOK, resident)
}

// IssueCode generates a chat-link verification code for a resident.
func (rc *ResidentController) IssueCode(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	code, err := rc.Residents.IssueVerificationCode(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, code)
}
