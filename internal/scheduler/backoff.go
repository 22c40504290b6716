package scheduler

import "time"

// Backoff computes the delay before the next reminder given how many have
// already gone out.
type Backoff func(attempts int) time.Duration

// FixedBackoff reminds at a constant interval. This is the default policy.
func FixedBackoff(interval time.Duration) Backoff {
	return func(int) time.Duration {
		return interval
	}
}

// ExponentialBackoff doubles the gap per attempt, capped so escalation-bound
// jobs do not drift months out.
func ExponentialBackoff(base, cap time.Duration) Backoff {
	return func(attempts int) time.Duration {
		d := base
		for i := 1; i < attempts; i++ {
			d *= 2
			if d >= cap {
				return cap
			}
		}
		if d > cap {
			return cap
		}
		return d
	}
}

// PolicyFromConfig maps the configured policy name to a Backoff.
func PolicyFromConfig(name string, interval time.Duration) Backoff {
	if name == "exponential" {
		return ExponentialBackoff(interval, 8*interval)
	}
	return FixedBackoff(interval)
}
