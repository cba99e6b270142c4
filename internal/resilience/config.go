package resilience

import "time"

// FromSettings builds a Policy from config values. Non-positive values keep
// the defaults.
func FromSettings(maxAttempts, initialBackoffMs int) Policy {
	p := DefaultPolicy()
	if maxAttempts > 0 {
		p.MaxAttempts = maxAttempts
	}
	if initialBackoffMs > 0 {
		p.InitialBackoff = time.Duration(initialBackoffMs) * time.Millisecond
	}
	return p
}
