package scheduler

import "github.com/cockroachdb/errors"

var (
	// ErrInvalidConfig marks configuration that cannot produce a calendar.
	ErrInvalidConfig = errors.New("invalid scheduler configuration")
	// ErrInvalidTime marks a time of day that is not HH:MM.
	ErrInvalidTime = errors.New("invalid time of day")
)
