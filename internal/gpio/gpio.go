// Package gpio provides failsafe sense pin reading with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import (
	"fmt"
	"strconv"
	"strings"
)

// Reader reads the failsafe sense pin.
type Reader interface {
	// Read returns the pin level: high means the primary source is
	// selected by the failsafe circuit.
	Read() (bool, error)

	// Close releases GPIO resources.
	Close() error
}

// Valid line offsets on the Pi header (BCM numbering). GPIO0 and GPIO1
// are reserved for the HAT EEPROM, so they are not accepted.
const (
	minLine = 2
	maxLine = 27
)

// LineOffset resolves a configured pin name ("GPIO2".."GPIO27") to its
// BCM line offset. Unrecognized names fail fast so a typo in configuration
// is caught at startup rather than silently monitoring the wrong pin.
func LineOffset(name string) (int, error) {
	rest, ok := strings.CutPrefix(strings.ToUpper(name), "GPIO")
	if !ok {
		return 0, fmt.Errorf("invalid pin name %q: must be GPIO%d..GPIO%d", name, minLine, maxLine)
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < minLine || n > maxLine {
		return 0, fmt.Errorf("invalid pin name %q: must be GPIO%d..GPIO%d", name, minLine, maxLine)
	}
	return n, nil
}
