package scheduling

import (
	"sort"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"
)

// Queue is the in-clinic view of one day.
type Queue struct {
	Date      string               `json:"date"`
	Waiting   []entity.Appointment `json:"waiting"`
	InSession []entity.Appointment `json:"in_session"`
}

// PartitionQueue splits a day's appointments into the waiting and in-session queues,
// each ordered by time. The input is not modified.
func PartitionQueue(date string, appointments []entity.Appointment) Queue {
	q := Queue{
		Date:      date,
		Waiting:   []entity.Appointment{},
		InSession: []entity.Appointment{},
	}
	for _, appt := range appointments {
		if appt.AppointmentDate != date {
			continue
		}
		switch appt.Status {
		case entity.StatusScheduled:
			q.Waiting = append(q.Waiting, appt)
		case entity.StatusInSession:
			q.InSession = append(q.InSession, appt)
		}
	}
	SortByTime(q.Waiting)
	SortByTime(q.InSession)
	return q
}

// SortByTime orders appointments by date, then time, then creation.
func SortByTime(appointments []entity.Appointment) {
	sort.SliceStable(appointments, func(i, j int) bool {
		a, b := appointments[i], appointments[j]
		if a.AppointmentDate != b.AppointmentDate {
			return a.AppointmentDate < b.AppointmentDate
		}
		if a.AppointmentTime != b.AppointmentTime {
			return a.AppointmentTime < b.AppointmentTime
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}
