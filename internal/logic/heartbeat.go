package logic

import "time"

// HeartbeatGate decides when the loop should publish a liveness heartbeat.
//
// Normal cadence is one heartbeat per interval. Publish failures increment
// a counter; once the ceiling is reached attempts are throttled to one per
// interval until a publish succeeds again. A failed attempt never touches
// the last-success clock, so the gate keeps retrying (and the operator
// keeps seeing failure logs) instead of going silent.
//
// Only the control loop touches the gate, so it carries no lock.
type HeartbeatGate struct {
	interval    time.Duration
	maxFailures int

	failures    int
	lastSuccess time.Time
	lastRetry   time.Time
}

// NewHeartbeatGate creates a gate with the given cadence and failure
// ceiling. A non-positive interval disables the gate entirely.
func NewHeartbeatGate(interval time.Duration, maxFailures int) *HeartbeatGate {
	return &HeartbeatGate{interval: interval, maxFailures: maxFailures}
}

// ShouldSend reports whether a heartbeat attempt is due. When the failure
// ceiling has been reached it also stamps the retry clock, so at most one
// attempt per interval goes out while the broker is down.
func (g *HeartbeatGate) ShouldSend(now time.Time) bool {
	if g.interval <= 0 {
		return false
	}
	if g.failures >= g.maxFailures {
		if !g.lastRetry.IsZero() && now.Sub(g.lastRetry) < g.interval {
			return false
		}
		g.lastRetry = now
	}
	if !g.lastSuccess.IsZero() && now.Sub(g.lastSuccess) < g.interval {
		return false
	}
	return true
}

// RecordSuccess resets the failure count and stamps the success clock.
// It returns true when this success ends a failure streak that had hit
// the ceiling, so the caller can log the recovery.
func (g *HeartbeatGate) RecordSuccess(now time.Time) (recovered bool) {
	recovered = g.failures >= g.maxFailures
	g.failures = 0
	g.lastSuccess = now
	g.lastRetry = time.Time{}
	return recovered
}

// RecordFailure bumps the failure counter, saturating at the ceiling so
// hourly retries do not inflate it. It returns the updated count.
func (g *HeartbeatGate) RecordFailure() int {
	if g.failures < g.maxFailures {
		g.failures++
	}
	return g.failures
}

// Failures returns the current consecutive failure count.
func (g *HeartbeatGate) Failures() int { return g.failures }

// MaxFailures returns the configured ceiling.
func (g *HeartbeatGate) MaxFailures() int { return g.maxFailures }
