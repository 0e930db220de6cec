package clock

import "time"

// Clock abstracts time to keep usecases deterministic in tests. After is
// used by timer-driven orchestration (minimum loading duration, message
// rotation) so fakes can fire ticks instantly.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

func (SystemClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
