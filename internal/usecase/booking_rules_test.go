package usecase

import (
	"testing"
	"time"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/delivery/dto"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/scheduling"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clinicZone = time.FixedZone("AST", 3*60*60)

// Sunday 2024-03-10, 10:00 clinic time.
func pinnedClock() Clock {
	return NewClockAt(clinicZone, func() time.Time {
		return time.Date(2024, 3, 10, 7, 0, 0, 0, time.UTC)
	})
}

func sundayDoctor() *entity.Doctor {
	return &entity.Doctor{
		ID:   uuid.New(),
		Name: "Dr. Omar",
		WorkHours: entity.WorkHours{
			"Sunday":  {Start: "09:00", End: "12:00"},
			"Monday":  {Start: "09:00", End: "12:00"},
			"Tuesday": nil,
		},
	}
}

func TestClock(t *testing.T) {
	clock := pinnedClock()

	assert.Equal(t, "2024-03-10", clock.Today())
	assert.Equal(t, 10, clock.Now().Hour())
	assert.Equal(t, clinicZone, clock.Location())

	day, err := clock.ParseDate("2024-03-11")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, day.Weekday())
	assert.Equal(t, 0, day.Hour())

	_, err = clock.ParseDate("11-03-2024")
	assert.Error(t, err)

	assert.Equal(t, time.UTC, NewClockAt(nil, time.Now).Location())
}

func TestCheckBookable(t *testing.T) {
	clock := pinnedClock()
	doctor := sundayDoctor()
	opts := scheduling.Options{Step: 30 * time.Minute}

	booked := entity.Appointment{
		ID:              uuid.New(),
		DoctorID:        doctor.ID,
		AppointmentDate: "2024-03-10",
		AppointmentTime: "10:30",
		Status:          entity.StatusScheduled,
	}
	cancelled := booked
	cancelled.ID = uuid.New()
	cancelled.Status = entity.StatusCancelled

	tests := []struct {
		name     string
		req      slotRequest
		existing []entity.Appointment
		opts     scheduling.Options
		want     error
	}{
		{"invalid date", slotRequest{doctor: doctor, date: "tomorrow", time: "10:30"}, nil, opts, ErrInvalidDate},
		{"past day", slotRequest{doctor: doctor, date: "2024-03-09", time: "10:30"}, nil, opts, ErrDateInPast},
		{"day off", slotRequest{doctor: doctor, date: "2024-03-12", time: "10:30"}, nil, opts, ErrDoctorNotWorking},
		{"weekday missing", slotRequest{doctor: doctor, date: "2024-03-16", time: "10:30"}, nil, opts, ErrDoctorNotWorking},
		{"elapsed time today", slotRequest{doctor: doctor, date: "2024-03-10", time: "09:30"}, nil, opts, ErrSlotUnavailable},
		{"current minute today", slotRequest{doctor: doctor, date: "2024-03-10", time: "10:00"}, nil, opts, ErrSlotUnavailable},
		{"off grid", slotRequest{doctor: doctor, date: "2024-03-10", time: "10:15"}, nil, opts, ErrSlotUnavailable},
		{"window end", slotRequest{doctor: doctor, date: "2024-03-11", time: "12:00"}, nil, opts, ErrSlotUnavailable},
		{"free slot today", slotRequest{doctor: doctor, date: "2024-03-10", time: "10:30"}, nil, opts, nil},
		{"free slot future", slotRequest{doctor: doctor, date: "2024-03-11", time: "09:00"}, nil, opts, nil},
		{"taken", slotRequest{doctor: doctor, date: "2024-03-10", time: "10:30"}, []entity.Appointment{booked}, opts, ErrSlotUnavailable},
		{"moving onto own slot", slotRequest{doctor: doctor, date: "2024-03-10", time: "10:30", ignore: booked.ID}, []entity.Appointment{booked}, opts, nil},
		{"cancelled blocks", slotRequest{doctor: doctor, date: "2024-03-10", time: "10:30"}, []entity.Appointment{cancelled}, opts, ErrSlotUnavailable},
		{
			"cancelled freed",
			slotRequest{doctor: doctor, date: "2024-03-10", time: "10:30"},
			[]entity.Appointment{cancelled},
			scheduling.Options{Step: 30 * time.Minute, CancelledFreesSlot: true},
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkBookable(clock, tt.req, tt.existing, tt.opts)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestViewRange(t *testing.T) {
	// Wednesday
	day := time.Date(2024, 2, 14, 0, 0, 0, 0, clinicZone)

	tests := []struct {
		view     string
		from, to string
	}{
		{dto.ViewDay, "2024-02-14", "2024-02-14"},
		{"", "2024-02-14", "2024-02-14"},
		{dto.ViewWeek, "2024-02-11", "2024-02-17"},
		{dto.ViewMonth, "2024-02-01", "2024-02-29"},
	}
	for _, tt := range tests {
		t.Run(tt.view, func(t *testing.T) {
			from, to := viewRange(tt.view, day)
			assert.Equal(t, tt.from, from)
			assert.Equal(t, tt.to, to)
		})
	}

	// A week that crosses the month boundary
	from, to := viewRange(dto.ViewWeek, time.Date(2024, 3, 1, 0, 0, 0, 0, clinicZone))
	assert.Equal(t, "2024-02-25", from)
	assert.Equal(t, "2024-03-02", to)
}

func TestCountBetween(t *testing.T) {
	appointments := []entity.Appointment{
		{AppointmentDate: "2024-02-10"},
		{AppointmentDate: "2024-02-11"},
		{AppointmentDate: "2024-02-17"},
		{AppointmentDate: "2024-02-18"},
	}

	assert.Equal(t, 2, countBetween(appointments, "2024-02-11", "2024-02-17"))
	assert.Equal(t, 0, countBetween(appointments, "2024-03-01", "2024-03-31"))
	assert.Equal(t, 0, countBetween(nil, "2024-02-01", "2024-02-29"))
}
