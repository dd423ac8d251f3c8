package notify

import (
	"fmt"
	"log"
	"time"

	"github.com/wneessen/go-mail"
)

const smtpTimeout = 20 * time.Second

// EmailConfig holds SMTP settings for the directed DJ email channel.
type EmailConfig struct {
	Server   string
	Port     int
	Username string
	Password string
	From     string
	// ErrorEmail, when set, receives a single report when a send fails.
	ErrorEmail string
}

// Email sends plain-text mail over SMTP with STARTTLS.
type Email struct {
	from       string
	errorEmail string

	// sendFn performs the actual delivery; tests replace it.
	sendFn func(to, subject, body string) error
}

// NewEmail creates an SMTP sender.
func NewEmail(cfg EmailConfig) (*Email, error) {
	client, err := newSMTPClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	e := &Email{from: cfg.From, errorEmail: cfg.ErrorEmail}
	e.sendFn = func(to, subject, body string) error {
		msg := mail.NewMsg()
		if err := msg.From(e.from); err != nil {
			return fmt.Errorf("from address: %w", err)
		}
		if err := msg.To(to); err != nil {
			return fmt.Errorf("to address: %w", err)
		}
		msg.Subject(subject)
		msg.SetBodyString(mail.TypeTextPlain, body)
		return client.DialAndSend(msg)
	}
	return e, nil
}

// newSMTPClient builds the go-mail client. STARTTLS is required, never
// downgraded to plaintext.
func newSMTPClient(cfg EmailConfig) (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(smtpTimeout),
	}
	opts = append(opts, authOptions(cfg)...)
	return mail.NewClient(cfg.Server, opts...)
}

// authOptions enables PLAIN auth only when credentials are configured;
// some relays accept unauthenticated submission from inside the network.
func authOptions(cfg EmailConfig) []mail.Option {
	if cfg.Username == "" {
		return nil
	}
	return []mail.Option{
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
	}
}

// Send delivers the message. On failure it additionally sends one report
// to the configured error address, unless the failing recipient is the
// error address itself.
func (e *Email) Send(to, subject, body string) error {
	log.Printf("notify: sending email to %s: %s", to, subject)
	err := e.sendFn(to, subject, body)
	if err == nil {
		return nil
	}
	log.Printf("notify: email to %s failed: %v", to, err)

	if e.errorEmail != "" && to != e.errorEmail {
		report := fmt.Sprintf("Failed to send email to %s (subject: %s).\n\nError: %v\n", to, subject, err)
		if rerr := e.sendFn(e.errorEmail, "Failsafe Notifier - Email Sending Failure", report); rerr != nil {
			log.Printf("notify: error-report email to %s failed: %v", e.errorEmail, rerr)
		}
	}
	return err
}
