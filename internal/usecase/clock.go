package usecase

import (
	"time"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"
)

// Clock reads the current time in the clinic time zone.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

func NewClock(loc *time.Location) Clock {
	return NewClockAt(loc, time.Now)
}

// NewClockAt is used by tests to pin the current time.
func NewClockAt(loc *time.Location, now func() time.Time) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{loc: loc, now: now}
}

func (c Clock) Location() *time.Location {
	return c.loc
}

func (c Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Today is the clinic's current calendar day (yyyy-MM-dd).
func (c Clock) Today() string {
	return c.Now().Format(entity.DateLayout)
}

// ParseDate reads a yyyy-MM-dd day at midnight in the clinic time zone.
func (c Clock) ParseDate(date string) (time.Time, error) {
	return time.ParseInLocation(entity.DateLayout, date, c.loc)
}
