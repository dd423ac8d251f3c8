package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const groupmeTimeout = 10 * time.Second

// GroupMe posts plain messages through GroupMe bots.
type GroupMe struct {
	baseURL string
	client  *http.Client
}

// NewGroupMe creates a sender for the given API base URL.
func NewGroupMe(baseURL string) *GroupMe {
	return &GroupMe{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: groupmeTimeout},
	}
}

// Post sends text through the identified bot.
func (g *GroupMe) Post(botID, text string) error {
	payload := struct {
		BotID string `json:"bot_id"`
		Text  string `json:"text"`
	}{BotID: botID, Text: text}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal bot payload: %w", err)
	}

	resp, err := g.client.Post(g.baseURL+"/bots/post", "application/json", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("bot POST failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("bot POST returned status %d", resp.StatusCode)
	}
	return nil
}
