// services/chat_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"dorm-backend/models"
	"dorm-backend/utils"

	"gorm.io/gorm"
)

// ChatService handles inbound chat-bot webhook events. It keeps a
// small per-user conversation state machine (IDLE → REPAIR_DESC →
// IDLE) in the chat_sessions table and links "#CODE" messages to
// resident records. Replies are best-effort.
type ChatService struct {
	DB       *gorm.DB
	Notifier Notifier
	clock    func() time.Time
}

func NewChatService(db *gorm.DB, notifier Notifier) *ChatService {
	return &ChatService{DB: db, Notifier: notifier, clock: time.Now}
}

// ChatEvent is one inbound event from the messaging platform webhook.
type ChatEvent struct {
	Type   string `json:"type"` // "message" or "follow"
	Source struct {
		UserID string `json:"userId"`
	} `json:"source"`
	Message struct {
		Type string `json:"type"` // only "text" is handled
		Text string `json:"text"`
	} `json:"message"`
}

const repairTrigger = "repair"

// HandleEvents processes a webhook event batch. Per-event failures
// are logged and do not abort the batch (the platform retries the
// whole delivery otherwise).
func (s *ChatService) HandleEvents(events []ChatEvent) {
	for _, ev := range events {
		if err := s.handleEvent(ev); err != nil {
			log.Printf("⚠️  chat event handling failed for user %s: %v", ev.Source.UserID, err)
		}
	}
}

func (s *ChatService) handleEvent(ev ChatEvent) error {
	userID := strings.TrimSpace(ev.Source.UserID)
	if userID == "" {
		return nil
	}

	switch ev.Type {
	case "follow":
		s.reply(userID, "Welcome! Send #CODE with your verification code to link your room, or type 'repair' to report an issue.")
		return nil
	case "message":
		if ev.Message.Type != "text" {
			return nil
		}
		return s.handleText(userID, strings.TrimSpace(ev.Message.Text))
	}
	return nil
}

func (s *ChatService) handleText(userID, text string) error {
	session, err := s.session(userID)
	if err != nil {
		return err
	}

	// "#CODE" links a verification code regardless of state.
	if strings.HasPrefix(text, "#") {
		return s.linkCode(userID, strings.TrimPrefix(text, "#"))
	}

	switch session.State {
	case models.ChatStateRepairDesc:
		if err := s.fileRepair(userID, text); err != nil {
			return err
		}
		if err := s.setState(session, models.ChatStateIdle); err != nil {
			return err
		}
		s.reply(userID, "Thanks, your repair request has been filed. Staff will follow up.")
		return nil
	default:
		if strings.EqualFold(text, repairTrigger) {
			if err := s.setState(session, models.ChatStateRepairDesc); err != nil {
				return err
			}
			s.reply(userID, "Please describe the problem in one message.")
			return nil
		}
		s.reply(userID, "Send #CODE to link your room, or 'repair' to report an issue.")
		return nil
	}
}

func (s *ChatService) session(userID string) (*models.ChatSession, error) {
	var session models.ChatSession
	err := s.DB.Where("chat_user_id = ?", userID).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		session = models.ChatSession{ChatUserID: userID, State: models.ChatStateIdle}
		if cErr := s.DB.Create(&session).Error; cErr != nil {
			return nil, cErr
		}
		return &session, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *ChatService) setState(session *models.ChatSession, state string) error {
	session.State = state
	return s.DB.Model(session).Update("state", state).Error
}

// linkCode redeems a verification code, attaching the chat identity to
// the resident record.
func (s *ChatService) linkCode(userID, raw string) error {
	code := utils.NormalizeVerificationCode(raw)
	if code == "" {
		s.reply(userID, "That code looks empty. Please send #CODE with the code from your landlord.")
		return nil
	}

	var vc models.VerificationCode
	err := s.DB.Where("code = ?", code).First(&vc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.reply(userID, "Unknown code. Please check and try again.")
		return nil
	}
	if err != nil {
		return err
	}

	now := s.clock()
	if vc.UsedAt != nil || (vc.ExpiresAt != nil && vc.ExpiresAt.Before(now)) {
		s.reply(userID, "This code has expired or was already used. Ask your landlord for a new one.")
		return nil
	}

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Resident{}).
			Where("id = ?", vc.ResidentID).
			Update("chat_user_id", userID).Error; err != nil {
			return err
		}
		return tx.Model(&vc).Update("used_at", now).Error
	})
	if txErr != nil {
		return fmt.Errorf("failed to link verification code: %w", txErr)
	}

	s.reply(userID, "Your account is linked. You will now receive invoices and payment updates here.")
	return nil
}

// fileRepair creates an Issue for the resident linked to this chat
// identity (or an unlinked one if none).
func (s *ChatService) fileRepair(userID, description string) error {
	issue := models.Issue{
		Description: description,
		Status:      models.IssueOpen,
		ReportedVia: "chat",
	}

	var resident models.Resident
	err := s.DB.Where("chat_user_id = ? AND status = ?", userID, models.ResidentActive).First(&resident).Error
	if err == nil {
		issue.OrganizationID = resident.OrganizationID
		issue.ResidentID = &resident.ID
		issue.RoomID = resident.RoomID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return s.DB.Create(&issue).Error
}

func (s *ChatService) reply(userID, text string) {
	uid := userID
	notifyBestEffort(s.Notifier, &uid, text)
}
