package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Source        string         `json:"active_source"`
	PinState      bool           `json:"pin_state"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	StartTime     string         `json:"start_time"`
	Timestamp     string         `json:"timestamp"`
	Override      OverrideStatus `json:"override"`
	Broker        BrokerStatus   `json:"broker"`
	Counts        CountsJSON     `json:"switch_counts"`
	Config        ConfigJSON     `json:"config"`
}

// OverrideStatus reports the notification-override state.
type OverrideStatus struct {
	Active  bool   `json:"active"`
	EndTime string `json:"end_time,omitempty"`
}

// BrokerStatus reports broker connection state.
type BrokerStatus struct {
	Connected bool   `json:"connected"`
	URL       string `json:"url"`
}

// CountsJSON is the JSON representation of switch counts.
type CountsJSON struct {
	ToBackup  int `json:"to_backup"`
	ToPrimary int `json:"to_primary"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs      int64  `json:"poll_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	HTTPAddr    string `json:"http_addr"`
	PinName     string `json:"pin_name"`
	Primary     string `json:"primary_source"`
	Backup      string `json:"backup_source"`
}

func buildInner(snap Snapshot) StatusInner {
	source := string(snap.Source)
	if source == "" {
		source = "UNKNOWN"
	}

	inner := StatusInner{
		Source:        source,
		PinState:      snap.PinState,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Override:      OverrideStatus{Active: snap.OverrideActive},
		Broker:        BrokerStatus{Connected: snap.BrokerConnected, URL: snap.Config.Broker},
		Counts: CountsJSON{
			ToBackup:  snap.Counts.ToBackup,
			ToPrimary: snap.Counts.ToPrimary,
		},
		Config: ConfigJSON{
			PollMs:      snap.Config.PollMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			HTTPAddr:    snap.Config.HTTPAddr,
			PinName:     snap.Config.PinName,
			Primary:     snap.Config.Primary,
			Backup:      snap.Config.Backup,
		},
	}
	if snap.OverrideActive && !snap.OverrideEnd.IsZero() {
		inner.Override.EndTime = snap.OverrideEnd.UTC().Format(time.RFC3339)
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}
