package utils

import (
	"time"
)

// Request handling constants
const (
	// DefaultRequestTimeout bounds a single request's work when no timeout is configured
	DefaultRequestTimeout = 10 * time.Second
)
