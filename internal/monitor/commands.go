package monitor

import (
	"fmt"
	"log"
	"time"

	"github.com/keller/failsafe-notifier/internal/logic"
	"github.com/keller/failsafe-notifier/internal/rabbit"
)

const defaultOverrideMinutes = 5

// OverrideHandler returns the command-queue handler that arms and disarms
// the notification override. Unknown actions are reported back to the
// consumer, which acks them anyway so they are not redelivered.
func OverrideHandler(o *logic.Override) rabbit.Handler {
	return func(msg map[string]any) error {
		action, _ := msg["action"].(string)
		switch action {
		case "enable_override":
			minutes := float64(defaultOverrideMinutes)
			if v, ok := msg["duration_minutes"].(float64); ok {
				minutes = v
			}
			if minutes < 0 {
				minutes = 0
			}
			d := time.Duration(minutes * float64(time.Minute))
			end := o.Activate(time.Now().UTC(), d)
			log.Printf("monitor: notification override enabled for %v (until %s)",
				d, end.Format(time.RFC3339))
			return nil
		case "disable_override":
			o.Deactivate()
			log.Printf("monitor: notification override disabled")
			return nil
		default:
			return fmt.Errorf("unknown override action %q", action)
		}
	}
}
