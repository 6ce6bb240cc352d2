package helpers

import "time"

// Clock is the wall-clock time source used by the models.
// Injected like the other model functions (eg. GetUserName) so tests can freeze time.
type Clock func() time.Time

// Expired reports whether a deadline has passed.
// Expired data is logically absent to every reader, no matter whether
// the store already cleaned it up or not.
func Expired(expiresAt time.Time, now time.Time) bool {
	return !now.Before(expiresAt)
}

// WindowElapsed reports whether a sliding window anchored at start is over.
func WindowElapsed(start time.Time, window time.Duration, now time.Time) bool {
	return Expired(start.Add(window), now)
}
