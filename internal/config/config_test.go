package config

import (
	"testing"
	"time"

	"github.com/keller/failsafe-notifier/internal/logic"
)

// setRequired sets the minimum environment a Load call needs.
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("PIN_ASSIGNMENT", "GPIO17")
	t.Setenv("BACKUP_INPUT", "B")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.PinName != "GPIO17" || cfg.PinLine != 17 {
		t.Errorf("pin = %s/%d", cfg.PinName, cfg.PinLine)
	}
	if cfg.Sources.Primary != logic.SourceA || cfg.Sources.Backup != logic.SourceB {
		t.Errorf("sources = %+v", cfg.Sources)
	}
	if cfg.TimezoneName != "America/New_York" {
		t.Errorf("timezone = %q", cfg.TimezoneName)
	}
	if cfg.Timezone == nil || cfg.Timezone.String() != "America/New_York" {
		t.Errorf("location = %v", cfg.Timezone)
	}
	if cfg.PollInterval != 500*time.Millisecond {
		t.Errorf("poll = %v", cfg.PollInterval)
	}
	if cfg.HeartbeatInterval != time.Hour {
		t.Errorf("heartbeat = %v", cfg.HeartbeatInterval)
	}
	if cfg.Notifications.Name != "notifications" {
		t.Errorf("notifications exchange = %q", cfg.Notifications.Name)
	}
	if cfg.Notifications.RoutingKeys["source_change"] != "notification.failsafe-status" {
		t.Errorf("source_change key = %q", cfg.Notifications.RoutingKeys["source_change"])
	}
	if cfg.Healthcheck.RoutingKeys["health_ping"] != "health.failsafe-status" {
		t.Errorf("health_ping key = %q", cfg.Healthcheck.RoutingKeys["health_ping"])
	}
	if cfg.Commands.RoutingKeys["override"] != "command.failsafe-override" {
		t.Errorf("override key = %q", cfg.Commands.RoutingKeys["override"])
	}
	if cfg.OverrideQueue != "commands" {
		t.Errorf("override queue = %q", cfg.OverrideQueue)
	}
	if cfg.GroupMeAPIBaseURL != "https://api.groupme.com/v3" {
		t.Errorf("groupme base = %q", cfg.GroupMeAPIBaseURL)
	}
	if cfg.DryRun {
		t.Error("DryRun should default to false")
	}
}

func TestLoadMissingPin(t *testing.T) {
	t.Setenv("PIN_ASSIGNMENT", "")
	t.Setenv("BACKUP_INPUT", "B")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing PIN_ASSIGNMENT")
	}
}

func TestLoadInvalidPin(t *testing.T) {
	t.Setenv("PIN_ASSIGNMENT", "GPIO99")
	t.Setenv("BACKUP_INPUT", "B")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for out-of-range pin")
	}
}

func TestLoadInvalidBackupInput(t *testing.T) {
	t.Setenv("PIN_ASSIGNMENT", "GPIO17")
	t.Setenv("BACKUP_INPUT", "C")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid BACKUP_INPUT")
	}
}

func TestLoadBackupA(t *testing.T) {
	t.Setenv("PIN_ASSIGNMENT", "GPIO17")
	t.Setenv("BACKUP_INPUT", "a")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Sources.Primary != logic.SourceB || cfg.Sources.Backup != logic.SourceA {
		t.Errorf("sources = %+v", cfg.Sources)
	}
}

func TestLoadInvalidTimezoneFallsBack(t *testing.T) {
	setRequired(t)
	t.Setenv("TIMEZONE", "Mars/Olympus_Mons")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TimezoneName != "America/New_York" {
		t.Errorf("timezone = %q, want fallback", cfg.TimezoneName)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("DRY_RUN", "true")
	t.Setenv("POLL_INTERVAL", "250ms")
	t.Setenv("HEARTBEAT_INTERVAL", "30m")
	t.Setenv("RABBITMQ_OVERRIDE_QUEUE", "failsafe-commands")
	t.Setenv("SMTP_PORT", "587")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.DryRun {
		t.Error("expected DryRun=true")
	}
	if cfg.PollInterval != 250*time.Millisecond {
		t.Errorf("poll = %v", cfg.PollInterval)
	}
	if cfg.HeartbeatInterval != 30*time.Minute {
		t.Errorf("heartbeat = %v", cfg.HeartbeatInterval)
	}
	if cfg.OverrideQueue != "failsafe-commands" {
		t.Errorf("override queue = %q", cfg.OverrideQueue)
	}
	if cfg.SMTPPort != 587 {
		t.Errorf("smtp port = %d", cfg.SMTPPort)
	}
}

func TestLoadBadDuration(t *testing.T) {
	setRequired(t)
	t.Setenv("POLL_INTERVAL", "fast")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for bad POLL_INTERVAL")
	}
}
