package entity

import "time"

// WorkWindow is a daily [Start, End) window in "HH:mm".
type WorkWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WorkHours maps a weekday name ("Sunday".."Saturday") to a window.
// A missing key or a null value is a day off.
type WorkHours map[string]*WorkWindow

var weekdays = []time.Weekday{
	time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
	time.Thursday, time.Friday, time.Saturday,
}

// For returns the window configured for a weekday.
func (w WorkHours) For(day time.Weekday) (WorkWindow, bool) {
	win, ok := w[day.String()]
	if !ok || win == nil {
		return WorkWindow{}, false
	}
	return *win, true
}

func (w WorkHours) WorksOn(day time.Weekday) bool {
	_, ok := w.For(day)
	return ok
}

// Weekdays lists the days with a window, Sunday first.
func (w WorkHours) Weekdays() []time.Weekday {
	days := []time.Weekday{}
	for _, day := range weekdays {
		if w.WorksOn(day) {
			days = append(days, day)
		}
	}
	return days
}

// IsWeekdayName reports whether s is an English weekday name as produced by time.Weekday.String.
func IsWeekdayName(s string) bool {
	for _, day := range weekdays {
		if day.String() == s {
			return true
		}
	}
	return false
}
