package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Embed colors, decimal per the Discord API.
const (
	ColorError   = 16711680 // red
	ColorWarning = 16776960 // yellow
	ColorSuccess = 65280    // green
)

const webhookTimeout = 10 * time.Second

// WebhookPayload is the JSON body posted to the chat webhook.
type WebhookPayload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds"`
}

// Embed is a single rich-content block.
type Embed struct {
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description,omitempty"`
	Color       int             `json:"color,omitempty"`
	Timestamp   string          `json:"timestamp,omitempty"`
	Author      *EmbedAuthor    `json:"author,omitempty"`
	Fields      []EmbedField    `json:"fields,omitempty"`
	Thumbnail   *EmbedThumbnail `json:"thumbnail,omitempty"`
	Footer      *EmbedFooter    `json:"footer,omitempty"`
}

// EmbedAuthor identifies the sending application in the embed header.
type EmbedAuthor struct {
	Name    string `json:"name,omitempty"`
	URL     string `json:"url,omitempty"`
	IconURL string `json:"icon_url,omitempty"`
}

// EmbedField is a name/value pair rendered in the embed body.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// EmbedThumbnail is the embed's thumbnail image.
type EmbedThumbnail struct {
	URL string `json:"url"`
}

// EmbedFooter is the embed's footer line.
type EmbedFooter struct {
	Text string `json:"text"`
}

// Discord posts payloads to a Discord-compatible webhook URL.
type Discord struct {
	url    string
	client *http.Client
}

// NewDiscord creates a webhook sender for the given URL.
func NewDiscord(url string) *Discord {
	return &Discord{
		url:    url,
		client: &http.Client{Timeout: webhookTimeout},
	}
}

// Post sends the payload as a JSON POST.
func (d *Discord) Post(p *WebhookPayload) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	resp, err := d.client.Post(d.url, "application/json", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("webhook POST failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
