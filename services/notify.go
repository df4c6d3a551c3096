package services

import "log"

// Notifier pushes a text message to a chat user. Implementations live
// in utils (LINE push client); tests inject a mock.
type Notifier interface {
	PushText(chatUserID, text string) error
}

// notifyBestEffort dispatches a notification without ever failing the
// caller: the database record is the source of truth, the notification
// is advisory only. A nil or missing chat identity is a no-op.
func notifyBestEffort(n Notifier, chatUserID *string, text string) {
	if n == nil || chatUserID == nil || *chatUserID == "" {
		return
	}
	if err := n.PushText(*chatUserID, text); err != nil {
		log.Printf("⚠️  notification push failed for %s: %v", *chatUserID, err)
	}
}
