package credential

import "time"

// Status is derived from the stored fields and the evaluation date. It is
// never persisted; stale labels would otherwise survive a date rollover.
type Status string

const (
	StatusActive       Status = "active"
	StatusExpiringSoon Status = "expiring_soon"
	StatusExpired      Status = "expired"
	StatusDeactivated  Status = "deactivated"
)

// ExpiryWarningDays is how far ahead of expiry a credential starts
// reporting expiring_soon.
const ExpiryWarningDays = 30

// EvaluateStatus computes the lifecycle status of a credential as of the
// given date. Deactivation overrides any date comparison: an explicit
// administrative action is a stronger signal than a passive expiry check.
// The expiry comparison is strict and date-only, so a badge expiring today
// still verifies.
func EvaluateStatus(c *Credential, asOf time.Time) Status {
	if c.Deactivated {
		return StatusDeactivated
	}

	expiry := dateOnly(c.ExpiryDate)
	today := dateOnly(asOf)

	if expiry.Before(today) {
		return StatusExpired
	}
	if !expiry.After(today.AddDate(0, 0, ExpiryWarningDays)) {
		return StatusExpiringSoon
	}
	return StatusActive
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
