// Package status provides a thread-safe status tracker for the
// failsafe-notifier daemon, read by the HTTP status handlers.
package status

import (
	"sync"
	"time"

	"github.com/keller/failsafe-notifier/internal/logic"
)

// SwitchCounts tallies source switches since startup.
type SwitchCounts struct {
	ToBackup  int
	ToPrimary int
}

// Config contains daemon configuration for display.
type Config struct {
	PollMs      int64
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
	PinName     string
	Primary     string
	Backup      string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	PinState        bool
	Source          logic.Source
	OverrideActive  bool
	OverrideEnd     time.Time
	BrokerConnected bool
	Counts          SwitchCounts
	StartTime       time.Time
	Now             time.Time
	Config          Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the pin state and active source. Called from the monitor
// loop on every tick.
func (t *Tracker) Update(pinState bool, source logic.Source) {
	t.mu.Lock()
	t.snap.PinState = pinState
	t.snap.Source = source
	t.mu.Unlock()
}

// SetOverride sets the notification-override state.
func (t *Tracker) SetOverride(active bool, end time.Time) {
	t.mu.Lock()
	t.snap.OverrideActive = active
	t.snap.OverrideEnd = end
	t.mu.Unlock()
}

// SetBrokerConnected sets the broker connection status.
func (t *Tracker) SetBrokerConnected(connected bool) {
	t.mu.Lock()
	t.snap.BrokerConnected = connected
	t.mu.Unlock()
}

// RecordSwitch counts one source switch toward the given source.
func (t *Tracker) RecordSwitch(to logic.Source, backup logic.Source) {
	t.mu.Lock()
	if to == backup {
		t.snap.Counts.ToBackup++
	} else {
		t.snap.Counts.ToPrimary++
	}
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
