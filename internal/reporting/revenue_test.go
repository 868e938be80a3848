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

func cost(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func completed(doctor entity.Doctor, date, amount string) entity.Appointment {
	return entity.Appointment{
		ID:              uuid.New(),
		DoctorID:        doctor.ID,
		DoctorName:      doctor.Name,
		AppointmentDate: date,
		Status:          entity.StatusCompleted,
		Cost:            cost(amount),
	}
}

func TestSummarizeRevenue(t *testing.T) {
	salem := entity.Doctor{ID: uuid.New(), Name: "Dr. Salem"}
	huda := entity.Doctor{ID: uuid.New(), Name: "Dr. Huda"}
	idle := entity.Doctor{ID: uuid.New(), Name: "Dr. Idle"}
	doctors := []entity.Doctor{salem, huda, idle}

	appointments := []entity.Appointment{
		completed(salem, "2026-10-01", "150"),
		completed(salem, "2026-10-03", "150"),
		completed(huda, "2026-10-03", "200.50"),
		completed(huda, "2026-09-20", "999"),
		completed(huda, "2026-10-04", "0"),
		{DoctorID: salem.ID, AppointmentDate: "2026-10-02", Status: entity.StatusCompleted},
		{DoctorID: salem.ID, AppointmentDate: "2026-10-02", Status: entity.StatusScheduled, Cost: cost("500")},
		{DoctorID: huda.ID, AppointmentDate: "2026-10-02", Status: entity.StatusCancelled, Cost: cost("500")},
	}

	t.Run("totals and per doctor rows", func(t *testing.T) {
		s := SummarizeRevenue(appointments, doctors, RevenueFilter{From: "2026-10-01", To: "2026-10-31"})

		assert.True(t, decimal.RequireFromString("500.50").Equal(s.Total), s.Total.String())
		assert.Equal(t, 4, s.Count)
		assert.True(t, decimal.RequireFromString("125.125").Equal(s.Average), s.Average.String())

		require.Len(t, s.ByDoctor, 3)
		assert.Equal(t, "Dr. Salem", s.ByDoctor[0].DoctorName)
		assert.True(t, decimal.NewFromInt(300).Equal(s.ByDoctor[0].Revenue))
		assert.Equal(t, 2, s.ByDoctor[0].Count)
		assert.Equal(t, "Dr. Huda", s.ByDoctor[1].DoctorName)
		assert.Equal(t, 2, s.ByDoctor[1].Count)
		assert.Equal(t, "Dr. Idle", s.ByDoctor[2].DoctorName)
		assert.True(t, s.ByDoctor[2].Revenue.IsZero())
	})

	t.Run("range is inclusive on both ends", func(t *testing.T) {
		s := SummarizeRevenue(appointments, doctors, RevenueFilter{From: "2026-10-01", To: "2026-10-01"})
		assert.Equal(t, 1, s.Count)
		assert.True(t, decimal.NewFromInt(150).Equal(s.Total))
	})

	t.Run("doctor filter keeps only that doctor", func(t *testing.T) {
		s := SummarizeRevenue(appointments, doctors, RevenueFilter{From: "2026-09-01", To: "2026-10-31", DoctorID: &huda.ID})
		assert.Equal(t, 3, s.Count)
		require.Len(t, s.ByDoctor, 1)
		assert.Equal(t, huda.ID, s.ByDoctor[0].DoctorID)
		assert.True(t, s.Total.Equal(s.ByDoctor[0].Revenue))
	})

	t.Run("daily series is filled between first and last revenue day", func(t *testing.T) {
		s := SummarizeRevenue(appointments, doctors, RevenueFilter{From: "2026-10-01", To: "2026-10-31"})
		require.Len(t, s.Daily, 4)
		assert.Equal(t, "2026-10-01", s.Daily[0].Date)
		assert.Equal(t, "2026-10-02", s.Daily[1].Date)
		assert.True(t, s.Daily[1].Revenue.IsZero())
		assert.True(t, decimal.RequireFromString("350.50").Equal(s.Daily[2].Revenue))
		assert.Equal(t, "2026-10-04", s.Daily[3].Date)
	})

	t.Run("empty input", func(t *testing.T) {
		s := SummarizeRevenue(nil, nil, RevenueFilter{})
		assert.True(t, s.Total.IsZero())
		assert.True(t, s.Average.IsZero())
		assert.Empty(t, s.ByDoctor)
		assert.Empty(t, s.Daily)
	})

	t.Run("deleted doctor still gets a row", func(t *testing.T) {
		gone := entity.Doctor{ID: uuid.New(), Name: "Dr. Gone"}
		s := SummarizeRevenue([]entity.Appointment{completed(gone, "2026-10-05", "80")}, doctors, RevenueFilter{})
		require.Len(t, s.ByDoctor, 4)
		assert.Equal(t, "Dr. Gone", s.ByDoctor[0].DoctorName)
	})
}

func TestSummarizeRevenueRowsAddUpToTotal(t *testing.T) {
	doctors := make([]entity.Doctor, 5)
	for i := range doctors {
		doctors[i] = entity.Doctor{ID: uuid.New(), Name: string(rune('A' + i))}
	}

	amounts := []string{"10", "25.25", "0.10", "300", "45.5", "12", "7.77", "100"}
	appointments := []entity.Appointment{}
	for i := 0; i < 40; i++ {
		doctor := doctors[i%len(doctors)]
		date := time.Date(2026, time.October, 1+i%20, 0, 0, 0, 0, time.UTC).Format(entity.DateLayout)
		appointments = append(appointments, completed(doctor, date, amounts[i%len(amounts)]))
	}

	for _, filter := range []RevenueFilter{
		{},
		{From: "2026-10-05", To: "2026-10-12"},
		{DoctorID: &doctors[2].ID},
	} {
		s := SummarizeRevenue(appointments, doctors, filter)

		sum := decimal.Zero
		count := 0
		for _, row := range s.ByDoctor {
			sum = sum.Add(row.Revenue)
			count += row.Count
		}
		assert.True(t, sum.Equal(s.Total), "rows %s total %s", sum, s.Total)
		assert.Equal(t, s.Count, count)

		daily := decimal.Zero
		for _, d := range s.Daily {
			daily = daily.Add(d.Revenue)
		}
		assert.True(t, daily.Equal(s.Total))
	}
}

func TestDefaultRange(t *testing.T) {
	today := time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC)
	from, to := DefaultRange(today, 30)
	assert.Equal(t, "2026-09-17", from)
	assert.Equal(t, "2026-10-16", to)
}
