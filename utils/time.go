// Package utils provides small helpers shared across the panel registry
package utils

import "time"

// UTCNow returns the current time in UTC
func UTCNow() time.Time {
	return time.Now().UTC()
}
