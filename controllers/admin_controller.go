package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"dorm-backend/middleware"
	"dorm-backend/models"
	"dorm-backend/services"
	"dorm-backend/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AdminController struct {
	DB    *gorm.DB
	Audit *services.AuditService
}

func NewAdminController(db *gorm.DB, audit *services.AuditService) *AdminController {
	return &AdminController{DB: db, Audit: audit}
}

func (ac *AdminController) GetAdmins(c *gin.Context) {
	var admins []models.Admin
	if err := ac.DB.Where("organization_id = ?", middleware.OrgID(c)).Find(&admins).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to load admins")
		return
	}
	c.JSON(http.StatusOK, admins)
}

type invitePayload struct {
	FullName string `json:"fullName"`
	Username string `json:"username"` // email address
	Role     string `json:"role"`
}

// InviteAdmin creates a pending admin account and emails a setup link.
// The email is best-effort; the account exists either way and the
// invite can be resent.
func (ac *AdminController) InviteAdmin(c *gin.Context) {
	var payload invitePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}
	username := strings.TrimSpace(payload.Username)
	if username == "" {
		utils.JSONError(c, http.StatusBadRequest, "username is required")
		return
	}
	role := payload.Role
	if role == "" {
		role = models.RoleStaff
	}

	token, err := utils.GenerateSecureToken(32)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to generate invite token")
		return
	}
	expires := time.Now().Add(72 * time.Hour)

	admin := models.Admin{
		OrganizationID:     middleware.OrgID(c),
		FullName:           strings.TrimSpace(payload.FullName),
		Username:           username,
		Role:               role,
		InviteToken:        &token,
		InviteTokenExpires: &expires,
	}
	if err := ac.DB.Create(&admin).Error; err != nil {
		lc := strings.ToLower(err.Error())
		if strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique") {
			utils.JSONError(c, http.StatusConflict, fmt.Sprintf("username '%s' already exists", username))
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to create admin")
		return
	}

	// The account exists from here on, so audit it before the email
	// attempt.
	ac.Audit.Record(middleware.OrgID(c), middleware.AdminID(c), "invite", "admin", admin.ID, nil, admin, c.ClientIP())

	frontend := utils.EnvOrDefault("FRONTEND_URL", "http://localhost:3000")
	inviteLink := fmt.Sprintf("%s/activate?token=%s", strings.TrimRight(frontend, "/"), token)
	if mailErr := utils.SendAdminInviteEmail(username, inviteLink, admin.FullName, role); mailErr != nil {
		// account created, email failed; caller can resend
		utils.JSONSuccess(c, http.StatusCreated, gin.H{"admin": admin, "emailSent": false})
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, gin.H{"admin": admin, "emailSent": true})
}

type createAdminPayload struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (ac *AdminController) CreateAdmin(c *gin.Context) {
	var payload createAdminPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(payload.Username) == "" || len(payload.Password) < 8 {
		utils.JSONError(c, http.StatusBadRequest, "username and a password of at least 8 characters are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to hash password")
		return
	}

	role := payload.Role
	if role == "" {
		role = models.RoleStaff
	}
	admin := models.Admin{
		OrganizationID: middleware.OrgID(c),
		FullName:       strings.TrimSpace(payload.FullName),
		Username:       strings.TrimSpace(payload.Username),
		Password:       string(hash),
		Role:           role,
	}
	if err := ac.DB.Create(&admin).Error; err != nil {
		lc := strings.ToLower(err.Error())
		if strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique") {
			utils.JSONError(c, http.StatusConflict, fmt.Sprintf("username '%s' already exists", admin.Username))
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to create admin")
		return
	}

	ac.Audit.Record(middleware.OrgID(c), middleware.AdminID(c), "create", "admin", admin.ID, nil, admin, c.ClientIP())
	c.JSON(http.StatusCreated, admin)
}

func (ac *AdminController) DeleteAdmin(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if id == middleware.AdminID(c) {
		utils.JSONError(c, http.StatusConflict, "cannot delete your own account")
		return
	}

	result := ac.DB.Where("organization_id = ?", middleware.OrgID(c)).Delete(&models.Admin{}, id)
	if result.Error != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to delete admin")
		return
	}
	if result.RowsAffected == 0 {
		utils.JSONError(c, http.StatusNotFound, fmt.Sprintf("admin %d not found", id))
		return
	}

	ac.Audit.Record(middleware.OrgID(c), middleware.AdminID(c), "delete", "admin", id, nil, nil, c.ClientIP())
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": id})
}
