package logic

import (
	"sync"
	"time"
)

// Override tracks the temporary notification-suppression window.
//
// It is the one piece of state shared between the control loop and the
// command consumer goroutine: the consumer activates/deactivates it while
// the loop reads it and records suppressed transitions. All methods hold
// the mutex for their full duration.
type Override struct {
	mu sync.Mutex

	active  bool
	endTime time.Time

	// Set while a transition has been observed during the active window.
	changed  bool
	original Source
	pending  Transition

	suppressionLogged bool
}

// NewOverride returns an inactive override manager.
func NewOverride() *Override {
	return &Override{}
}

// Activate opens a suppression window ending at now+duration and discards
// any pending state from a previous window.
func (o *Override) Activate(now time.Time, duration time.Duration) time.Time {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.active = true
	o.endTime = now.Add(duration)
	o.clearPendingLocked()
	return o.endTime
}

// Deactivate closes the window and discards pending state.
// Safe to call when already inactive.
func (o *Override) Deactivate() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.active = false
	o.endTime = time.Time{}
	o.clearPendingLocked()
}

// Active reports whether a suppression window is currently open.
func (o *Override) Active() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active
}

// Status returns the window state for heartbeats and the status page.
// The end time is the zero value when no window is open.
func (o *Override) Status() (active bool, end time.Time) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active, o.endTime
}

// CheckExpiry closes the window if its end time has passed. It returns
// true only on the tick where expiry actually happened; pending state is
// left for ConsumePending so the caller can decide whether to flush.
func (o *Override) CheckExpiry(now time.Time) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.active || now.Before(o.endTime) {
		return false
	}
	o.active = false
	o.endTime = time.Time{}
	o.suppressionLogged = false
	return true
}

// RecordTransition notes a source change observed while the window is
// open. The source before the first suppressed change is captured once so
// an eventual flush describes the full original-to-current delta. The
// return value is true the first time suppression happens in this window,
// so the caller can log it once.
func (o *Override) RecordTransition(from, to Source) (firstSuppressed bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.active {
		return false
	}
	if o.original == "" {
		o.original = from
	}
	o.changed = true
	o.pending = Transition{From: from, To: to}
	first := !o.suppressionLogged
	o.suppressionLogged = true
	return first
}

// ConsumePending returns and clears the state recorded during the last
// window. changed is false when no transition was suppressed. Pending
// state is cleared unconditionally.
func (o *Override) ConsumePending() (original Source, last Transition, changed bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	original, last, changed = o.original, o.pending, o.changed
	o.clearPendingLocked()
	return original, last, changed
}

func (o *Override) clearPendingLocked() {
	o.changed = false
	o.original = ""
	o.pending = Transition{}
	o.suppressionLogged = false
}
