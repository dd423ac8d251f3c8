// Package logic contains pure business logic for failsafe source tracking.
// This package has NO external dependencies (no GPIO, AMQP, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import (
	"fmt"
	"strings"
)

// Source labels one of the two audio inputs on the failsafe switch.
type Source string

const (
	// SourceA and SourceB are the only two inputs the failsafe circuit
	// can select. Which one is primary is a configuration choice.
	SourceA Source = "A"
	SourceB Source = "B"
)

// Sources pairs the configured primary and backup input labels.
// The pair is fixed at startup and never changes mid-run.
type Sources struct {
	Primary Source
	Backup  Source
}

// NewSources derives the primary/backup pair from the configured backup
// input letter. The other letter of the A/B pair becomes primary.
func NewSources(backupInput string) (Sources, error) {
	switch Source(strings.ToUpper(backupInput)) {
	case SourceA:
		return Sources{Primary: SourceB, Backup: SourceA}, nil
	case SourceB:
		return Sources{Primary: SourceA, Backup: SourceB}, nil
	default:
		return Sources{}, fmt.Errorf("backup input must be %q or %q, got %q", SourceA, SourceB, backupInput)
	}
}

// ForPin maps a pin reading to the source currently on air.
// A high pin means the primary source is selected.
func (s Sources) ForPin(high bool) Source {
	if high {
		return s.Primary
	}
	return s.Backup
}

// Transition is a single observed source change.
type Transition struct {
	From Source
	To   Source
}
