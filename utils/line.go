package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

// LineClient pushes text messages to the LINE Messaging API. When no
// channel token is configured it falls back to a mock send (log only),
// the same DEV behavior the email sender uses.
type LineClient struct {
	Endpoint string
	Token    string
	HTTP     *http.Client
}

func NewLineClient() *LineClient {
	return &LineClient{
		Endpoint: EnvOrDefault("LINE_PUSH_ENDPOINT", "https://api.line.me/v2/bot/message/push"),
		Token:    os.Getenv("LINE_CHANNEL_TOKEN"),
		HTTP:     &http.Client{Timeout: 10 * time.Second},
	}
}

type linePushPayload struct {
	To       string        `json:"to"`
	Messages []lineMessage `json:"messages"`
}

type lineMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// PushText sends one text message to a chat user.
func (c *LineClient) PushText(chatUserID, text string) error {
	if c.Token == "" {
		log.Printf("[MOCK LINE] to:%s text:%s", chatUserID, text)
		return nil
	}

	payload := linePushPayload{
		To:       chatUserID,
		Messages: []lineMessage{{Type: "text", Text: text}},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("cannot marshal push payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.Endpoint, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("cannot build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("push request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("push rejected: status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
