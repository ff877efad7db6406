package app

import "time"

// Clock supplies the time points used for retrieval deadlines and event
// timestamps. The default implementation reads the system clock; tests
// substitute a fake to control deadlines.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
