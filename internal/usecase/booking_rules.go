package usecase

import (
	"errors"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/scheduling"

	"github.com/google/uuid"
)

var (
	ErrInvalidDate      = errors.New("invalid date format, use YYYY-MM-DD")
	ErrDateInPast       = errors.New("date is in the past")
	ErrDoctorNotWorking = errors.New("doctor does not work on this day")
	ErrSlotUnavailable  = errors.New("time slot is not available")
)

// slotRequest is a doctor, day and time someone wants to book.
type slotRequest struct {
	doctor *entity.Doctor
	date   string
	time   string
	// ignore is the appointment being moved; its own slot does not block it.
	ignore uuid.UUID
}

// checkBookable applies the booking rules shared by staff and public booking:
// the day must not be in the past, the doctor must work that weekday and the time
// must be a currently available generated slot.
func checkBookable(clock Clock, req slotRequest, existing []entity.Appointment, opts scheduling.Options) error {
	day, err := clock.ParseDate(req.date)
	if err != nil {
		return ErrInvalidDate
	}
	if req.date < clock.Today() {
		return ErrDateInPast
	}
	if !req.doctor.WorksOn(day.Weekday()) {
		return ErrDoctorNotWorking
	}

	others := existing
	if req.ignore != uuid.Nil {
		others = make([]entity.Appointment, 0, len(existing))
		for _, appt := range existing {
			if appt.ID != req.ignore {
				others = append(others, appt)
			}
		}
	}

	slots := scheduling.GenerateSlots(req.doctor.WorkHours, day, clock.Now(), others, opts)
	slot, ok := scheduling.FindSlot(slots, req.time)
	if !ok || !slot.Available {
		return ErrSlotUnavailable
	}
	return nil
}
