package rabbit

import (
	"encoding/json"
	"testing"
	"time"
)

func TestSourceChangeJSON(t *testing.T) {
	ts := time.Date(2026, 3, 14, 21, 5, 0, 0, time.UTC)
	ev := NewSourceChange(ts, "GPIO17", false, "B", "A")
	ev.Details.Playlist = PlaylistDetail{ID: 42, Title: "Late Night Jazz"}

	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["event_type"] != "source_change" {
		t.Errorf("event_type = %v", m["event_type"])
	}
	if m["timestamp_utc"] != "2026-03-14T21:05:00Z" {
		t.Errorf("timestamp_utc = %v", m["timestamp_utc"])
	}
	if m["active_source"] != "B" || m["previous_active_source"] != "A" {
		t.Errorf("sources = %v / %v", m["active_source"], m["previous_active_source"])
	}
	details, ok := m["details"].(map[string]any)
	if !ok {
		t.Fatalf("details = %T", m["details"])
	}
	// Persona was never set: it must still appear as an empty object.
	persona, ok := details["persona"].(map[string]any)
	if !ok || len(persona) != 0 {
		t.Errorf("persona = %v", details["persona"])
	}
}

func TestHeartbeatJSON(t *testing.T) {
	ts := time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC)
	end := ts.Add(5 * time.Minute)

	hb := NewHeartbeat(ts, "GPIO17", true, "A", true, &end)
	data, err := json.Marshal(hb)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["status"] != "alive" || m["event_type"] != "health_check" {
		t.Errorf("status/event_type = %v / %v", m["status"], m["event_type"])
	}
	if m["active_source"] != "A" {
		t.Errorf("active_source = %v", m["active_source"])
	}
	if m["override_end_time"] != "2026-03-14T21:05:00Z" {
		t.Errorf("override_end_time = %v", m["override_end_time"])
	}

	noOverride := NewHeartbeat(ts, "GPIO17", true, "A", false, nil)
	data, _ = json.Marshal(noOverride)
	m = nil
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v, present := m["override_end_time"]; !present || v != nil {
		t.Errorf("override_end_time = %v (present %v), want explicit null", v, present)
	}
}
