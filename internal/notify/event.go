// Package notify renders source-change events into channel-specific
// payloads and delivers them. Senders own their error handling: a failed
// channel is logged and never blocks the others, and nothing here retries.
package notify

import (
	"time"

	"github.com/keller/failsafe-notifier/internal/logic"
	"github.com/keller/failsafe-notifier/internal/spinitron"
)

// Event is a single source change to be announced. It is built at
// detection (or override-flush) time and immutable apart from
// EmailNotified, which the dispatcher sets after a directed email goes
// out so the broker payload can carry the address actually used.
type Event struct {
	// Timestamp is the render time of the notification, always UTC.
	// For a delayed override flush this is the flush time, not the time
	// the suppressed transition happened.
	Timestamp time.Time

	Previous logic.Source
	Current  logic.Source

	PinName  string
	PinState bool

	// Playlist and Contact are nil when the scheduling directory is not
	// configured or the lookups failed.
	Playlist *spinitron.Playlist
	Contact  *spinitron.Contact

	// EmailNotified is the address a directed DJ email was actually
	// sent to, empty otherwise.
	EmailNotified string
}

// EmbedPoster posts a rendered payload to the chat webhook.
type EmbedPoster interface {
	Post(p *WebhookPayload) error
}

// BotPoster posts a plain text message via a chat bot ID.
type BotPoster interface {
	Post(botID, text string) error
}

// MailSender sends a plain-text email.
type MailSender interface {
	Send(to, subject, body string) error
}
