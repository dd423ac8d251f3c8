// Command failsafe-notifier monitors the studio failsafe switch pin and
// fans source-change notifications out to Discord, GroupMe, email, and a
// message broker. Override commands arrive over the broker; an HTTP
// status page is served when configured.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/keller/failsafe-notifier/internal/config"
	"github.com/keller/failsafe-notifier/internal/gpio"
	"github.com/keller/failsafe-notifier/internal/logic"
	"github.com/keller/failsafe-notifier/internal/monitor"
	"github.com/keller/failsafe-notifier/internal/notify"
	"github.com/keller/failsafe-notifier/internal/rabbit"
	"github.com/keller/failsafe-notifier/internal/spinitron"
	"github.com/keller/failsafe-notifier/internal/status"
	"github.com/keller/failsafe-notifier/internal/web"
)

const heartbeatFailureCeiling = 5

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if err := run(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg *config.Config) error {
	log.Printf("failsafe-notifier starting: pin=%s primary=%s backup=%s tz=%s",
		cfg.PinName, cfg.Sources.Primary, cfg.Sources.Backup, cfg.TimezoneName)

	if cfg.DryRun {
		log.Printf("dry run: configuration OK, skipping hardware init")
		return nil
	}

	reader, err := gpio.NewRealReader(cfg.PinLine)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer reader.Close()

	m := &monitor.Monitor{
		Pin:       reader,
		PinName:   cfg.PinName,
		Sources:   cfg.Sources,
		Override:  logic.NewOverride(),
		Heartbeat: logic.NewHeartbeatGate(cfg.HeartbeatInterval, heartbeatFailureCeiling),
		NotifyKey: cfg.Notifications.RoutingKeys["source_change"],
		HealthKey: cfg.Healthcheck.RoutingKeys["health_ping"],
	}

	embedPoster, botPoster, mailSender := buildSenders(cfg)
	m.Dispatcher = notify.NewDispatcher(notify.DispatcherConfig{
		Backup:        cfg.Sources.Backup,
		SpinitronBase: cfg.SpinitronAPIBaseURL,
		BotIDMgmt:     cfg.BotIDMgmt,
		BotIDDJs:      cfg.BotIDDJs,
		Author:        cfg.Author,
		Location:      cfg.Timezone,
	}, embedPoster, botPoster, mailSender)

	if cfg.SpinitronAPIBaseURL != "" {
		client := spinitron.NewClient(cfg.SpinitronAPIBaseURL)
		m.Playlists = client
		m.Resolver = spinitron.NewResolver(client)
	} else {
		log.Printf("playlist API not configured, notifications will omit show context")
	}

	if cfg.AMQPURL != "" {
		notifications := rabbit.NewPublisher(cfg.AMQPURL, cfg.Notifications.Name)
		defer notifications.Close()
		healthcheck := rabbit.NewPublisher(cfg.AMQPURL, cfg.Healthcheck.Name)
		defer healthcheck.Close()
		m.Notifications = notifications
		m.Healthcheck = healthcheck
		m.BrokerStatus = notifications

		consumer := rabbit.NewConsumer(cfg.AMQPURL, cfg.OverrideQueue,
			cfg.Commands.Name, cfg.Commands.RoutingKeys["override"])
		consumer.SetHandler(monitor.OverrideHandler(m.Override))
		if consumer.Start() {
			defer consumer.Stop()
		} else {
			log.Printf("override consumer failed to start, broker commands unavailable")
		}
	} else {
		log.Printf("broker not configured, events stay local")
	}

	if cfg.HTTPAddr != "" {
		m.Tracker = status.NewTracker(time.Now(), status.Config{
			PollMs:      cfg.PollInterval.Milliseconds(),
			HeartbeatMs: cfg.HeartbeatInterval.Milliseconds(),
			Broker:      cfg.AMQPURL,
			HTTPAddr:    cfg.HTTPAddr,
			PinName:     cfg.PinName,
			Primary:     string(cfg.Sources.Primary),
			Backup:      string(cfg.Sources.Backup),
		})
		srv := web.New(cfg.HTTPAddr, m.Tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTPAddr)
	}

	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	log.Printf("started: poll=%v heartbeat=%v", cfg.PollInterval, cfg.HeartbeatInterval)
	return m.Run(ticker.C, sigCh)
}

// buildSenders constructs the notification channels that are configured,
// leaving the rest nil so the dispatcher skips them.
func buildSenders(cfg *config.Config) (notify.EmbedPoster, notify.BotPoster, notify.MailSender) {
	var discord notify.EmbedPoster
	if cfg.DiscordWebhookURL != "" {
		discord = notify.NewDiscord(cfg.DiscordWebhookURL)
	} else {
		log.Printf("webhook not configured")
	}

	var groupme notify.BotPoster
	if cfg.BotIDMgmt != "" || cfg.BotIDDJs != "" {
		groupme = notify.NewGroupMe(cfg.GroupMeAPIBaseURL)
	} else {
		log.Printf("bot channels not configured")
	}

	var mail notify.MailSender
	if cfg.SMTPServer != "" && cfg.FromEmail != "" {
		sender, err := notify.NewEmail(notify.EmailConfig{
			Server:     cfg.SMTPServer,
			Port:       cfg.SMTPPort,
			Username:   cfg.SMTPUsername,
			Password:   cfg.SMTPPassword,
			From:       cfg.FromEmail,
			ErrorEmail: cfg.ErrorEmail,
		})
		if err != nil {
			log.Printf("email sender init failed: %v", err)
		} else {
			mail = sender
		}
	} else {
		log.Printf("email not configured")
	}

	return discord, groupme, mail
}
