// Package rabbit publishes events to and consumes commands from an AMQP
// 0.9.1 broker. The publisher is reliable-effort: publisher confirms,
// mandatory routing, and a bounded retry with reconnect. The consumer is
// a background subscription delivering decoded commands to one handler.
package rabbit

import "time"

// SourceApplication identifies this daemon in every published payload.
const SourceApplication = "failsafe-notifier"

// PlaylistDetail is the playlist portion of a source-change event. An
// empty struct serializes as {} when no playlist was on air.
type PlaylistDetail struct {
	ID         int    `json:"id,omitempty"`
	Title      string `json:"title,omitempty"`
	Start      string `json:"start,omitempty"`
	End        string `json:"end,omitempty"`
	Automation bool   `json:"automation,omitempty"`
	PersonaID  int    `json:"persona_id,omitempty"`
	ShowID     int    `json:"show_id,omitempty"`
}

// PersonaDetail is the DJ portion of a source-change event.
type PersonaDetail struct {
	ID            int    `json:"id,omitempty"`
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	EmailNotified string `json:"email_notified,omitempty"`
}

// SourceChange is the event published when the active audio source
// changes.
type SourceChange struct {
	SourceApplication string            `json:"source_application"`
	EventType         string            `json:"event_type"`
	TimestampUTC      string            `json:"timestamp_utc"`
	PinName           string            `json:"pin_name"`
	CurrentPinState   bool              `json:"current_pin_state"`
	ActiveSource      string            `json:"active_source"`
	PreviousSource    string            `json:"previous_active_source"`
	Details           SourceChangeDetail `json:"details"`
}

// SourceChangeDetail nests playlist and persona context. Both objects
// are always present, empty when unknown.
type SourceChangeDetail struct {
	Playlist PlaylistDetail `json:"playlist"`
	Persona  PersonaDetail  `json:"persona"`
}

// NewSourceChange builds a source-change payload stamped with the given
// UTC time.
func NewSourceChange(ts time.Time, pinName string, pinState bool, active, previous string) *SourceChange {
	return &SourceChange{
		SourceApplication: SourceApplication,
		EventType:         "source_change",
		TimestampUTC:      ts.UTC().Format(time.RFC3339),
		PinName:           pinName,
		CurrentPinState:   pinState,
		ActiveSource:      active,
		PreviousSource:    previous,
	}
}

// Heartbeat is the periodic liveness ping consumed by the external
// watchdog.
type Heartbeat struct {
	SourceApplication string  `json:"source_application"`
	EventType         string  `json:"event_type"`
	TimestampUTC      string  `json:"timestamp_utc"`
	Status            string  `json:"status"`
	PinName           string  `json:"pin_name"`
	CurrentPinState   bool    `json:"current_pin_state"`
	ActiveSource      string  `json:"active_source"`
	OverrideActive    bool    `json:"override_active"`
	OverrideEndTime   *string `json:"override_end_time"`
}

// NewHeartbeat builds a heartbeat payload. overrideEnd is nil when no
// override is active.
func NewHeartbeat(ts time.Time, pinName string, pinState bool, active string, overrideActive bool, overrideEnd *time.Time) *Heartbeat {
	hb := &Heartbeat{
		SourceApplication: SourceApplication,
		EventType:         "health_check",
		TimestampUTC:      ts.UTC().Format(time.RFC3339),
		Status:            "alive",
		PinName:           pinName,
		CurrentPinState:   pinState,
		ActiveSource:      active,
		OverrideActive:    overrideActive,
	}
	if overrideEnd != nil {
		s := overrideEnd.UTC().Format(time.RFC3339)
		hb.OverrideEndTime = &s
	}
	return hb
}
