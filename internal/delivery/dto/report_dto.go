package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FinancialRequest is read from the query string; empty dates fall back to the default window.
type FinancialRequest struct {
	From     string     `validate:"omitempty,date"`
	To       string     `validate:"omitempty,date"`
	DoctorID *uuid.UUID `validate:"omitempty"`
}

type DoctorRevenueResponse struct {
	DoctorID         uuid.UUID       `json:"doctor_id"`
	DoctorName       string          `json:"doctor_name"`
	Revenue          decimal.Decimal `json:"revenue"`
	AppointmentCount int             `json:"appointment_count"`
}

type DailyRevenueResponse struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
}

type FinancialSummaryResponse struct {
	From             string                  `json:"from"`
	To               string                  `json:"to"`
	TotalRevenue     decimal.Decimal         `json:"total_revenue"`
	AppointmentCount int                     `json:"appointment_count"`
	AverageRevenue   decimal.Decimal         `json:"average_revenue"`
	ByDoctor         []DoctorRevenueResponse `json:"by_doctor"`
	Daily            []DailyRevenueResponse  `json:"daily"`
}

type MonthOverviewResponse struct {
	Month     string `json:"month"`
	Completed int    `json:"completed"`
	Scheduled int    `json:"scheduled"`
}

type DashboardResponse struct {
	Date               string                  `json:"date"`
	TodayRevenue       decimal.Decimal         `json:"today_revenue"`
	ActiveAppointments int                     `json:"active_appointments"`
	PatientsToday      int                     `json:"patients_today"`
	CompletedToday     int                     `json:"completed_today"`
	Upcoming           []AppointmentResponse   `json:"upcoming"`
	Overview           []MonthOverviewResponse `json:"overview"`
}

type ActivityActorResponse struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

type ActivityLogResponse struct {
	ID        string                `json:"id"`
	User      ActivityActorResponse `json:"user"`
	Action    string                `json:"action"`
	Target    string                `json:"target"`
	Metadata  map[string]any        `json:"metadata,omitempty"`
	Timestamp time.Time             `json:"timestamp"`
}

type ActivityLogListResponse struct {
	Logs  []ActivityLogResponse `json:"logs"`
	Total int                   `json:"total"`
}
