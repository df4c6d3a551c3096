package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"dorm-backend/middleware"
	"dorm-backend/models"
	"dorm-backend/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (ac *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	username := strings.TrimSpace(payload.Username)
	if username == "" || payload.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password required"})
		return
	}

	var admin models.Admin
	if err := ac.DB.Where("username = ?", username).First(&admin).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(payload.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := middleware.IssueToken(admin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"admin": admin,
	})
}

type activatePayload struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// Activate finishes an invite: the invited admin sets a password using
// the emailed token.
func (ac *AuthController) Activate(c *gin.Context) {
	var payload activatePayload
	if err := c.ShouldBindJSON(&payload); err != nil || payload.Token == "" || len(payload.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token and a password of at least 8 characters are required"})
		return
	}

	var admin models.Admin
	err := ac.DB.Where("invite_token = ?", payload.Token).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "invalid invite token"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if admin.InviteTokenExpires != nil && admin.InviteTokenExpires.Before(time.Now()) {
		c.JSON(http.StatusConflict, gin.H{"error": "invite token expired"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	if err := ac.DB.Model(&admin).Updates(map[string]interface{}{
		"password":             string(hash),
		"invite_token":         nil,
		"invite_token_expires": nil,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to activate account"})
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{"activated": true})
}
