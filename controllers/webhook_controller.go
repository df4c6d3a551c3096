package controllers

import (
	"net/http"

	"dorm-backend/services"

	"github.com/gin-gonic/gin"
)

type WebhookController struct {
	Chat *services.ChatService
}

func NewWebhookController(chat *services.ChatService) *WebhookController {
	return &WebhookController{Chat: chat}
}

type webhookPayload struct {
	Events []services.ChatEvent `json:"events"`
}

// Receive handles the chat platform's webhook delivery. The platform
// expects a fast 200; event processing failures are logged, never
// returned, so the delivery is not retried endlessly.
func (wc *WebhookController) Receive(c *gin.Context) {
	var payload webhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook payload"})
		return
	}

	wc.Chat.HandleEvents(payload.Events)
	c.JSON(http.StatusOK, gin.H{"handled": len(payload.Events)})
}
