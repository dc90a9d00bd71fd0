package services

import "time"

// Clock supplies the instant used for daily and monthly quota
// bucketing. Buckets are UTC calendar periods from the server clock, so
// a user's reset time varies with their timezone offset; a user-local
// variant would only replace this implementation.
type Clock interface {
	Now() time.Time
}

type utcClock struct{}

func (utcClock) Now() time.Time {
	return time.Now().UTC()
}

// NewUTCClock is the production clock.
func NewUTCClock() Clock {
	return utcClock{}
}
