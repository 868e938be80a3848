package reporting

import (
	"sort"
	"time"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RevenueFilter selects completed appointments by inclusive date range and doctor.
type RevenueFilter struct {
	From     string
	To       string
	DoctorID *uuid.UUID
}

type DoctorRevenue struct {
	DoctorID   uuid.UUID
	DoctorName string
	Revenue    decimal.Decimal
	Count      int
}

type DailyRevenue struct {
	Date    string
	Revenue decimal.Decimal
}

type RevenueSummary struct {
	From     string
	To       string
	Total    decimal.Decimal
	Count    int
	Average  decimal.Decimal
	ByDoctor []DoctorRevenue
	Daily    []DailyRevenue
}

// DefaultRange returns the inclusive window of the last days ending on today.
func DefaultRange(today time.Time, days int) (string, string) {
	if days <= 0 {
		days = 30
	}
	from := today.AddDate(0, 0, -(days - 1))
	return from.Format(entity.DateLayout), today.Format(entity.DateLayout)
}

// Revenue reports whether an appointment counts as revenue and its amount.
func Revenue(a *entity.Appointment) (decimal.Decimal, bool) {
	if !a.IsCompleted() || a.Cost == nil {
		return decimal.Zero, false
	}
	return *a.Cost, true
}

func (f RevenueFilter) match(a *entity.Appointment) bool {
	if f.From != "" && a.AppointmentDate < f.From {
		return false
	}
	if f.To != "" && a.AppointmentDate > f.To {
		return false
	}
	if f.DoctorID != nil && a.DoctorID != *f.DoctorID {
		return false
	}
	return true
}

// SummarizeRevenue folds appointments into totals, per-doctor rows and a daily series.
//
// Every doctor in doctors gets a row, zero included. Revenue attributed to a doctor missing
// from the list still gets a row under the name copied on the appointment, so the rows always
// add up to Total.
func SummarizeRevenue(appointments []entity.Appointment, doctors []entity.Doctor, f RevenueFilter) RevenueSummary {
	summary := RevenueSummary{
		From:     f.From,
		To:       f.To,
		Total:    decimal.Zero,
		Average:  decimal.Zero,
		ByDoctor: []DoctorRevenue{},
		Daily:    []DailyRevenue{},
	}

	rows := make(map[uuid.UUID]*DoctorRevenue, len(doctors))
	for _, d := range doctors {
		if f.DoctorID != nil && d.ID != *f.DoctorID {
			continue
		}
		rows[d.ID] = &DoctorRevenue{DoctorID: d.ID, DoctorName: d.Name, Revenue: decimal.Zero}
	}

	daily := map[string]decimal.Decimal{}
	for i := range appointments {
		appt := &appointments[i]
		amount, ok := Revenue(appt)
		if !ok || !f.match(appt) {
			continue
		}

		summary.Total = summary.Total.Add(amount)
		summary.Count++

		row, exists := rows[appt.DoctorID]
		if !exists {
			row = &DoctorRevenue{DoctorID: appt.DoctorID, DoctorName: appt.DoctorName, Revenue: decimal.Zero}
			rows[appt.DoctorID] = row
		}
		row.Revenue = row.Revenue.Add(amount)
		row.Count++

		if current, seen := daily[appt.AppointmentDate]; seen {
			daily[appt.AppointmentDate] = current.Add(amount)
		} else {
			daily[appt.AppointmentDate] = amount
		}
	}

	if summary.Count > 0 {
		summary.Average = summary.Total.Div(decimal.NewFromInt(int64(summary.Count)))
	}

	for _, row := range rows {
		summary.ByDoctor = append(summary.ByDoctor, *row)
	}
	sort.Slice(summary.ByDoctor, func(i, j int) bool {
		a, b := summary.ByDoctor[i], summary.ByDoctor[j]
		if cmp := a.Revenue.Cmp(b.Revenue); cmp != 0 {
			return cmp > 0
		}
		return a.DoctorName < b.DoctorName
	})

	summary.Daily = fillDaily(daily)
	return summary
}

// fillDaily produces one entry per day between the first and last day with revenue.
func fillDaily(daily map[string]decimal.Decimal) []DailyRevenue {
	series := []DailyRevenue{}
	if len(daily) == 0 {
		return series
	}

	var first, last string
	for d := range daily {
		if first == "" || d < first {
			first = d
		}
		if last == "" || d > last {
			last = d
		}
	}

	start, err := time.Parse(entity.DateLayout, first)
	if err != nil {
		return series
	}
	end, err := time.Parse(entity.DateLayout, last)
	if err != nil {
		return series
	}

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(entity.DateLayout)
		amount, ok := daily[key]
		if !ok {
			amount = decimal.Zero
		}
		series = append(series, DailyRevenue{Date: key, Revenue: amount})
	}
	return series
}
