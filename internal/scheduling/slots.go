package scheduling

import (
	"errors"
	"fmt"
	"time"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"
)

// DefaultSlotStep is the booking granularity.
const DefaultSlotStep = 30 * time.Minute

var ErrInvalidClock = errors.New("invalid clock value, use HH:mm")

// Slot is a bookable start time within a doctor's window.
type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// Options tunes slot generation.
type Options struct {
	Step time.Duration
	// CancelledFreesSlot stops cancelled appointments from blocking their time.
	CancelledFreesSlot bool
}

func (o Options) step() time.Duration {
	if o.Step <= 0 {
		return DefaultSlotStep
	}
	return o.Step
}

// ParseClock parses "HH:mm" into minutes after midnight.
func ParseClock(s string) (int, error) {
	// time.Parse takes "9:30" for "15:04"; stored times must be zero padded.
	if len(s) != len(entity.ClockLayout) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	t, err := time.Parse(entity.ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes after midnight as "HH:mm".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ValidWindow reports whether the window parses and end is after start.
func ValidWindow(win entity.WorkWindow) bool {
	start, err := ParseClock(win.Start)
	if err != nil {
		return false
	}
	end, err := ParseClock(win.End)
	if err != nil {
		return false
	}
	return end > start
}

// Candidates lists every start time in [start, end) of the window.
// Invalid or empty windows yield nothing.
func Candidates(win entity.WorkWindow, step time.Duration) []string {
	if step <= 0 {
		step = DefaultSlotStep
	}
	start, err := ParseClock(win.Start)
	if err != nil {
		return nil
	}
	end, err := ParseClock(win.End)
	if err != nil {
		return nil
	}
	stepMinutes := int(step / time.Minute)
	if stepMinutes <= 0 {
		stepMinutes = int(DefaultSlotStep / time.Minute)
	}

	times := []string{}
	for t := start; t < end; t += stepMinutes {
		times = append(times, FormatClock(t))
	}
	return times
}

// GenerateSlots computes the slots a doctor offers on date.
//
// date carries the clinic location; now is compared in that location. existing must hold the
// doctor's appointments; entries on other dates are ignored. A day off returns an empty list.
func GenerateSlots(hours entity.WorkHours, date, now time.Time, existing []entity.Appointment, opts Options) []Slot {
	win, ok := hours.For(date.Weekday())
	if !ok {
		return []Slot{}
	}

	loc := date.Location()
	day := date.Format(entity.DateLayout)
	isToday := now.In(loc).Format(entity.DateLayout) == day

	taken := BookedTimes(existing, day, opts.CancelledFreesSlot)

	slots := []Slot{}
	for _, clock := range Candidates(win, opts.step()) {
		if isToday {
			minutes, _ := ParseClock(clock)
			at := time.Date(date.Year(), date.Month(), date.Day(), minutes/60, minutes%60, 0, 0, loc)
			if !at.After(now) {
				continue
			}
		}
		_, booked := taken[clock]
		slots = append(slots, Slot{Time: clock, Available: !booked})
	}
	return slots
}

// BookedTimes collects the "HH:mm" values occupied on day.
func BookedTimes(existing []entity.Appointment, day string, cancelledFreesSlot bool) map[string]struct{} {
	taken := make(map[string]struct{}, len(existing))
	for i := range existing {
		appt := &existing[i]
		if appt.AppointmentDate != day {
			continue
		}
		if cancelledFreesSlot && appt.IsCancelled() {
			continue
		}
		taken[appt.AppointmentTime] = struct{}{}
	}
	return taken
}

// FindSlot looks up a time in a generated list.
func FindSlot(slots []Slot, clock string) (Slot, bool) {
	for _, s := range slots {
		if s.Time == clock {
			return s, true
		}
	}
	return Slot{}, false
}

// BookableWeekdays lists weekdays with a valid window. An empty result means the doctor
// cannot be booked on any date.
func BookableWeekdays(hours entity.WorkHours) []time.Weekday {
	days := []time.Weekday{}
	for _, day := range hours.Weekdays() {
		win, _ := hours.For(day)
		if ValidWindow(win) {
			days = append(days, day)
		}
	}
	return days
}
