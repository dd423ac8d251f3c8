// Package monitor runs the control loop: poll the failsafe pin, detect
// source changes, honor the notification override, and publish heartbeats.
package monitor

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/keller/failsafe-notifier/internal/gpio"
	"github.com/keller/failsafe-notifier/internal/logic"
	"github.com/keller/failsafe-notifier/internal/notify"
	"github.com/keller/failsafe-notifier/internal/rabbit"
	"github.com/keller/failsafe-notifier/internal/spinitron"
	"github.com/keller/failsafe-notifier/internal/status"
)

// Publisher is the broker sink for one exchange.
type Publisher interface {
	Publish(routingKey string, body any) error
}

// ConnectionStatus reports broker connectivity for the status page.
type ConnectionStatus interface {
	IsConnected() bool
}

// PlaylistSource fetches the playlist currently on air.
type PlaylistSource interface {
	CurrentPlaylist() (*spinitron.Playlist, error)
}

const panicBackoff = 10 * time.Second

// Monitor wires the pin reader to the notification and broker sinks.
// Optional collaborators (playlists, resolver, publishers, broker status,
// tracker) may be nil; the loop degrades to the channels that exist.
type Monitor struct {
	Pin        gpio.Reader
	PinName    string
	Sources    logic.Sources
	Override   *logic.Override
	Heartbeat  *logic.HeartbeatGate
	Dispatcher *notify.Dispatcher

	Playlists PlaylistSource
	Resolver  *spinitron.Resolver

	Notifications Publisher
	Healthcheck   Publisher
	BrokerStatus  ConnectionStatus
	Tracker       *status.Tracker

	NotifyKey string
	HealthKey string

	// sleep is swapped out in tests.
	sleep func(time.Duration)

	prev logic.Source
}

// Run polls on every tick until a signal arrives. The tick value is used
// as the loop's clock. The initial pin read is fatal; a daemon that
// cannot see its pin has nothing to report.
func (m *Monitor) Run(tick <-chan time.Time, sig <-chan os.Signal) error {
	if m.sleep == nil {
		m.sleep = time.Sleep
	}

	high, err := m.Pin.Read()
	if err != nil {
		return fmt.Errorf("initial pin read: %w", err)
	}
	m.prev = m.Sources.ForPin(high)
	log.Printf("monitor: %s=%v, active source %s", m.PinName, high, m.prev)
	m.updateTracker(high, m.prev)

	for {
		select {
		case s := <-sig:
			log.Printf("monitor: received %v, shutting down", s)
			return nil
		case now := <-tick:
			m.tick(now)
		}
	}
}

// tick runs one poll cycle. A panic anywhere in the cycle is logged and
// followed by a backoff so a persistent fault cannot spin the loop.
func (m *Monitor) tick(now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("monitor: panic in poll cycle: %v", r)
			m.sleep(panicBackoff)
		}
	}()

	if m.Override.CheckExpiry(now) {
		log.Printf("monitor: notification override expired")
	}

	high, err := m.Pin.Read()
	if err != nil {
		log.Printf("monitor: pin read error: %v", err)
		return
	}
	cur := m.Sources.ForPin(high)

	m.maybeHeartbeat(now, high, cur)

	// Pending state from a closed window is consumed on the first
	// successful read after expiry, not the expiry tick itself: a read
	// error on that tick must not drop the delayed notification.
	if cur != m.prev {
		if m.Override.Active() {
			first := m.Override.RecordTransition(m.prev, cur)
			if first {
				log.Printf("monitor: source changed %s -> %s, notifications suppressed by override", m.prev, cur)
			} else {
				log.Printf("monitor: source changed %s -> %s (still suppressed)", m.prev, cur)
			}
		} else {
			from := m.prev
			// Fold any suppressed window into this notification.
			if original, _, changed := m.Override.ConsumePending(); changed && original != "" {
				from = original
			}
			m.notifySourceChange(now, from, cur, high)
		}
	} else if !m.Override.Active() {
		original, last, changed := m.Override.ConsumePending()
		if changed && original != "" && cur != original {
			log.Printf("monitor: flushing suppressed change %s -> %s (last seen %s -> %s)",
				original, cur, last.From, last.To)
			m.notifySourceChange(now, original, cur, high)
		} else if changed {
			log.Printf("monitor: source returned to %s during override, nothing to flush", cur)
		}
	}

	m.prev = cur
	m.updateTracker(high, cur)
}

// maybeHeartbeat publishes the liveness ping when the gate says one is
// due. Failures are counted toward the gate's ceiling and never touch
// the source-change path.
func (m *Monitor) maybeHeartbeat(now time.Time, high bool, cur logic.Source) {
	if m.Healthcheck == nil || !m.Heartbeat.ShouldSend(now) {
		return
	}

	active, end := m.Override.Status()
	var endPtr *time.Time
	if active {
		endPtr = &end
	}
	hb := rabbit.NewHeartbeat(now, m.PinName, high, string(cur), active, endPtr)

	if err := m.Healthcheck.Publish(m.HealthKey, hb); err != nil {
		count := m.Heartbeat.RecordFailure()
		log.Printf("monitor: heartbeat publish failed (%d/%d): %v", count, m.Heartbeat.MaxFailures(), err)
		if count >= m.Heartbeat.MaxFailures() {
			log.Printf("monitor: heartbeat failure ceiling reached, retrying once per interval")
		}
	} else if m.Heartbeat.RecordSuccess(now) {
		log.Printf("monitor: heartbeat publishing recovered")
	}
}

// notifySourceChange gathers playlist and DJ context, fans the event out
// to the notification channels, and publishes the broker event. Context
// lookups degrade to nil; delivery failures are logged per channel.
func (m *Monitor) notifySourceChange(now time.Time, from, to logic.Source, pinState bool) {
	log.Printf("monitor: source changed %s -> %s", from, to)

	var pl *spinitron.Playlist
	if m.Playlists != nil {
		var err error
		pl, err = m.Playlists.CurrentPlaylist()
		if err != nil {
			log.Printf("monitor: playlist lookup failed: %v", err)
			pl = nil
		}
	}

	var contact *spinitron.Contact
	if m.Resolver != nil {
		contact = m.Resolver.Resolve(pl)
	}

	ev := &notify.Event{
		Timestamp: now,
		Previous:  from,
		Current:   to,
		PinName:   m.PinName,
		PinState:  pinState,
		Playlist:  pl,
		Contact:   contact,
	}
	m.Dispatcher.SourceChange(ev)

	if m.Notifications != nil {
		payload := rabbit.NewSourceChange(now, m.PinName, pinState, string(to), string(from))
		if pl != nil {
			payload.Details.Playlist = rabbit.PlaylistDetail{
				ID:         pl.ID,
				Title:      pl.Title,
				Start:      pl.Start,
				End:        pl.End,
				Automation: pl.Automation,
				PersonaID:  pl.PersonaID,
				ShowID:     pl.ShowID,
			}
		}
		if contact != nil {
			payload.Details.Persona = rabbit.PersonaDetail{
				ID:            contact.PersonaID,
				Name:          contact.Name,
				Email:         contact.Email,
				EmailNotified: ev.EmailNotified,
			}
		}
		if err := m.Notifications.Publish(m.NotifyKey, payload); err != nil {
			if errors.Is(err, rabbit.ErrUnroutable) {
				log.Printf("monitor: source-change event unroutable: %v", err)
			} else {
				log.Printf("monitor: source-change publish failed: %v", err)
			}
		}
	}

	if m.Tracker != nil {
		m.Tracker.RecordSwitch(to, m.Sources.Backup)
	}
}

func (m *Monitor) updateTracker(high bool, cur logic.Source) {
	if m.Tracker == nil {
		return
	}
	m.Tracker.Update(high, cur)
	active, end := m.Override.Status()
	m.Tracker.SetOverride(active, end)
	if m.BrokerStatus != nil {
		m.Tracker.SetBrokerConnected(m.BrokerStatus.IsConnected())
	}
}
