package utils

import "time"

// NowUTC is the single clock for the module. Timestamps persisted or compared
// anywhere must be UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}
