package reporting

import (
	"testing"
	"time"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToday(t *testing.T) {
	p1, p2, p3 := uuid.New(), uuid.New(), uuid.New()
	day := "2026-10-16"

	appointments := []entity.Appointment{
		{PatientID: p1, AppointmentDate: day, Status: entity.StatusScheduled},
		{PatientID: p1, AppointmentDate: day, Status: entity.StatusInSession},
		{PatientID: p2, AppointmentDate: day, Status: entity.StatusCompleted, Cost: cost("120")},
		{PatientID: p3, AppointmentDate: day, Status: entity.StatusCompleted},
		{PatientID: p3, AppointmentDate: day, Status: entity.StatusCancelled},
		{PatientID: uuid.New(), AppointmentDate: "2026-10-15", Status: entity.StatusCompleted, Cost: cost("50")},
	}

	stats := Today(appointments, day)
	assert.True(t, decimal.NewFromInt(120).Equal(stats.Revenue))
	assert.Equal(t, 2, stats.Active)
	assert.Equal(t, 3, stats.Patients)
	assert.Equal(t, 2, stats.Completed)
}

func TestUpcoming(t *testing.T) {
	day := "2026-10-16"
	appointments := []entity.Appointment{}
	for _, clock := range []string{"15:00", "09:00", "13:30", "10:00", "11:00", "09:30", "16:00"} {
		appointments = append(appointments, entity.Appointment{AppointmentDate: day, AppointmentTime: clock, Status: entity.StatusScheduled})
	}
	appointments = append(appointments, entity.Appointment{AppointmentDate: day, AppointmentTime: "08:00", Status: entity.StatusInSession})

	got := Upcoming(appointments, day, 5)
	require.Len(t, got, 5)
	clocks := []string{}
	for _, a := range got {
		clocks = append(clocks, a.AppointmentTime)
	}
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "11:00", "13:30"}, clocks)
}

func TestMonthlyOverview(t *testing.T) {
	today := time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC)

	appointments := []entity.Appointment{
		{AppointmentDate: "2026-03-02", Status: entity.StatusCompleted},
		{AppointmentDate: "2026-03-30", Status: entity.StatusScheduled},
		{AppointmentDate: "2026-03-30", Status: entity.StatusInSession},
		{AppointmentDate: "2026-03-30", Status: entity.StatusCancelled},
		{AppointmentDate: "2025-10-10", Status: entity.StatusCompleted},
		{AppointmentDate: "2025-09-30", Status: entity.StatusCompleted},
		{AppointmentDate: "bogus", Status: entity.StatusCompleted},
	}

	overview := MonthlyOverview(appointments, today, 6)
	require.Len(t, overview, 6)
	assert.Equal(t, "2025-10", overview[0].Month)
	assert.Equal(t, 1, overview[0].Completed)
	assert.Equal(t, "2026-03", overview[5].Month)
	assert.Equal(t, 1, overview[5].Completed)
	assert.Equal(t, 2, overview[5].Scheduled)
	for _, m := range overview[1:5] {
		assert.Zero(t, m.Completed)
		assert.Zero(t, m.Scheduled)
	}
}

func TestBuildDashboard(t *testing.T) {
	today := time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC)
	d := BuildDashboard(nil, today)
	assert.Equal(t, "2026-10-16", d.Date)
	assert.Empty(t, d.Upcoming)
	assert.Len(t, d.Overview, DefaultOverviewMonths)
	assert.Equal(t, "2026-05", d.Overview[0].Month)
}
