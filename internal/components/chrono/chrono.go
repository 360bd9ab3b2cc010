package chrono

import (
	"fmt"
	"time"
)

// API is the interface that anything depending on the system clock should use.
type API interface {
	Now() time.Time
	Location() *time.Location
}

type StandardImpl struct {
	location *time.Location
}

// NewStandardImpl loads the named IANA location, an empty name means the
// machine's local zone.
func NewStandardImpl(name string) (StandardImpl, error) {
	if name == "" {
		return StandardImpl{location: time.Local}, nil
	}
	location, err := time.LoadLocation(name)
	if err != nil {
		return StandardImpl{}, fmt.Errorf("load location %q: %w", name, err)
	}
	return StandardImpl{location: location}, nil
}

func (s StandardImpl) Now() time.Time {
	return time.Now().In(s.location)
}

func (s StandardImpl) Location() *time.Location {
	return s.location
}

// Week identifies one ISO 8601 week, the bucket every run's output is keyed by.
type Week struct {
	Year int
	Week int
}

func (w Week) String() string {
	return fmt.Sprintf("%d-%d", w.Year, w.Week)
}

// ISOWeek returns the ISO week containing t. The year is the ISO year, so the
// last days of December can belong to week 1 of the following year.
func ISOWeek(t time.Time) Week {
	year, week := t.ISOWeek()
	return Week{Year: year, Week: week}
}

// CurrentWeek is ISOWeek applied to the clock's current time.
func CurrentWeek(clock API) Week {
	return ISOWeek(clock.Now())
}
