// Package config loads daemon settings from the environment, with an
// optional .env file for development installs.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/keller/failsafe-notifier/internal/gpio"
	"github.com/keller/failsafe-notifier/internal/logic"
	"github.com/keller/failsafe-notifier/internal/notify"
)

const (
	defaultTimezone     = "America/New_York"
	defaultGroupMeBase  = "https://api.groupme.com/v3"
	defaultPollInterval = 500 * time.Millisecond
	defaultHeartbeat    = time.Hour
)

// Exchange names one broker exchange and its routing keys by purpose.
type Exchange struct {
	Name        string
	RoutingKeys map[string]string
}

// Config is the full daemon configuration. Optional integrations are
// empty strings when unconfigured.
type Config struct {
	PinName string
	PinLine int
	Sources logic.Sources

	TimezoneName string
	Timezone     *time.Location
	DryRun       bool

	DiscordWebhookURL string
	Author            notify.EmbedAuthor

	GroupMeAPIBaseURL string
	BotIDMgmt         string
	BotIDDJs          string

	SMTPServer   string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	ErrorEmail   string

	AMQPURL       string
	Notifications Exchange
	Healthcheck   Exchange
	Commands      Exchange
	OverrideQueue string

	SpinitronAPIBaseURL string

	PollInterval      time.Duration
	HeartbeatInterval time.Duration
	HTTPAddr          string
}

// Load reads configuration from the environment. A .env file in the
// working directory is merged in first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("config: no .env file loaded: %v", err)
	}

	pinName := os.Getenv("PIN_ASSIGNMENT")
	if pinName == "" {
		return nil, fmt.Errorf("PIN_ASSIGNMENT must be set")
	}
	pinLine, err := gpio.LineOffset(pinName)
	if err != nil {
		return nil, fmt.Errorf("PIN_ASSIGNMENT: %w", err)
	}

	backupInput := os.Getenv("BACKUP_INPUT")
	if backupInput == "" {
		return nil, fmt.Errorf("BACKUP_INPUT must be set")
	}
	sources, err := logic.NewSources(backupInput)
	if err != nil {
		return nil, fmt.Errorf("BACKUP_INPUT: %w", err)
	}

	tzName := getDefault("TIMEZONE", defaultTimezone)
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		log.Printf("config: unknown timezone %q, using %s", tzName, defaultTimezone)
		tzName = defaultTimezone
		tz, err = time.LoadLocation(defaultTimezone)
		if err != nil {
			return nil, fmt.Errorf("load timezone %s: %w", defaultTimezone, err)
		}
	}

	smtpPort := 0
	if v := os.Getenv("SMTP_PORT"); v != "" {
		smtpPort, err = strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("SMTP_PORT: %w", err)
		}
	}

	poll, err := getDuration("POLL_INTERVAL", defaultPollInterval)
	if err != nil {
		return nil, err
	}
	heartbeat, err := getDuration("HEARTBEAT_INTERVAL", defaultHeartbeat)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		PinName:      pinName,
		PinLine:      pinLine,
		Sources:      sources,
		TimezoneName: tzName,
		Timezone:     tz,
		DryRun:       boolish(os.Getenv("DRY_RUN")),

		DiscordWebhookURL: os.Getenv("DISCORD_WEBHOOK_URL"),
		Author: notify.EmbedAuthor{
			Name:    getDefault("AUTHOR_NAME", "failsafe-notifier"),
			URL:     os.Getenv("AUTHOR_URL"),
			IconURL: os.Getenv("AUTHOR_ICON_URL"),
		},

		GroupMeAPIBaseURL: getDefault("GROUPME_API_BASE_URL", defaultGroupMeBase),
		BotIDMgmt:         os.Getenv("GROUPME_BOT_ID_MGMT"),
		BotIDDJs:          os.Getenv("GROUPME_BOT_ID_DJS"),

		SMTPServer:   os.Getenv("SMTP_SERVER"),
		SMTPPort:     smtpPort,
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		FromEmail:    os.Getenv("FROM_EMAIL"),
		ErrorEmail:   os.Getenv("ERROR_EMAIL"),

		AMQPURL: os.Getenv("RABBITMQ_AMQP_URL"),
		Notifications: Exchange{
			Name: getDefault("RABBITMQ_NOTIFICATIONS_EXCHANGE", "notifications"),
			RoutingKeys: map[string]string{
				"source_change": getDefault("RABBITMQ_NOTIFICATIONS_ROUTING_KEY", "notification.failsafe-status"),
			},
		},
		Healthcheck: Exchange{
			Name: getDefault("RABBITMQ_HEALTHCHECK_EXCHANGE", "healthcheck"),
			RoutingKeys: map[string]string{
				"health_ping": getDefault("RABBITMQ_HEALTHCHECK_ROUTING_KEY", "health.failsafe-status"),
			},
		},
		Commands: Exchange{
			Name: getDefault("RABBITMQ_COMMANDS_EXCHANGE", "commands"),
			RoutingKeys: map[string]string{
				"override": getDefault("RABBITMQ_COMMANDS_OVERRIDE_ROUTING_KEY", "command.failsafe-override"),
			},
		},
		OverrideQueue: getDefault("RABBITMQ_OVERRIDE_QUEUE", "commands"),

		SpinitronAPIBaseURL: os.Getenv("SPINITRON_API_BASE_URL"),

		PollInterval:      poll,
		HeartbeatInterval: heartbeat,
		HTTPAddr:          os.Getenv("HTTP_ADDR"),
	}
	return cfg, nil
}

func getDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func boolish(v string) bool {
	switch v {
	case "true", "True", "TRUE", "1", "yes", "Yes", "YES":
		return true
	}
	return false
}
