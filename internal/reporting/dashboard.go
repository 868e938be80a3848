package reporting

import (
	"time"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/scheduling"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultOverviewMonths = 6
	DefaultUpcomingLimit  = 5
)

type TodayStats struct {
	Revenue   decimal.Decimal
	Active    int
	Patients  int
	Completed int
}

// MonthOverview counts completed against still-open appointments of a month ("2006-01").
type MonthOverview struct {
	Month     string
	Completed int
	Scheduled int
}

type Dashboard struct {
	Date     string
	Today    TodayStats
	Upcoming []entity.Appointment
	Overview []MonthOverview
}

// Today summarizes one day: revenue from completed visits, scheduled plus in-session count,
// distinct patients and completed count.
func Today(appointments []entity.Appointment, day string) TodayStats {
	stats := TodayStats{Revenue: decimal.Zero}
	patients := map[uuid.UUID]struct{}{}

	for i := range appointments {
		appt := &appointments[i]
		if appt.AppointmentDate != day {
			continue
		}
		patients[appt.PatientID] = struct{}{}

		switch appt.Status {
		case entity.StatusScheduled, entity.StatusInSession:
			stats.Active++
		case entity.StatusCompleted:
			stats.Completed++
			if amount, ok := Revenue(appt); ok {
				stats.Revenue = stats.Revenue.Add(amount)
			}
		}
	}
	stats.Patients = len(patients)
	return stats
}

// Upcoming returns the first limit scheduled appointments of day by time.
func Upcoming(appointments []entity.Appointment, day string, limit int) []entity.Appointment {
	queue := scheduling.PartitionQueue(day, appointments)
	if limit > 0 && len(queue.Waiting) > limit {
		return queue.Waiting[:limit]
	}
	return queue.Waiting
}

// OverviewStart returns the first day of the oldest month in a months-long overview ending at today.
func OverviewStart(today time.Time, months int) time.Time {
	if months <= 0 {
		months = DefaultOverviewMonths
	}
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	return first.AddDate(0, -(months - 1), 0)
}

// MonthlyOverview buckets appointments by month, oldest first, always returning months entries.
func MonthlyOverview(appointments []entity.Appointment, today time.Time, months int) []MonthOverview {
	if months <= 0 {
		months = DefaultOverviewMonths
	}
	start := OverviewStart(today, months)

	overview := make([]MonthOverview, months)
	index := make(map[string]int, months)
	for i := 0; i < months; i++ {
		key := start.AddDate(0, i, 0).Format("2006-01")
		overview[i] = MonthOverview{Month: key}
		index[key] = i
	}

	for i := range appointments {
		appt := &appointments[i]
		if len(appt.AppointmentDate) < 7 {
			continue
		}
		pos, ok := index[appt.AppointmentDate[:7]]
		if !ok {
			continue
		}
		switch appt.Status {
		case entity.StatusCompleted:
			overview[pos].Completed++
		case entity.StatusScheduled, entity.StatusInSession:
			overview[pos].Scheduled++
		}
	}
	return overview
}

// BuildDashboard combines today's stats, the upcoming list and the monthly overview.
// appointments must cover the overview window.
func BuildDashboard(appointments []entity.Appointment, today time.Time) Dashboard {
	day := today.Format(entity.DateLayout)
	return Dashboard{
		Date:     day,
		Today:    Today(appointments, day),
		Upcoming: Upcoming(appointments, day, DefaultUpcomingLimit),
		Overview: MonthlyOverview(appointments, today, DefaultOverviewMonths),
	}
}
