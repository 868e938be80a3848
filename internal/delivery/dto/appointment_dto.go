package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ViewDay   = "day"
	ViewWeek  = "week"
	ViewMonth = "month"
)

// Request DTOs

type CreateAppointmentRequest struct {
	PatientID uuid.UUID `json:"patient_id" validate:"required"`
	DoctorID  uuid.UUID `json:"doctor_id" validate:"required"`
	Date      string    `json:"date" validate:"required,date"`
	Time      string    `json:"time" validate:"required,clock"`
	Reason    string    `json:"reason" validate:"omitempty,max=1000"`
}

type UpdateAppointmentRequest struct {
	PatientID *uuid.UUID `json:"patient_id"`
	DoctorID  *uuid.UUID `json:"doctor_id"`
	Date      *string    `json:"date" validate:"omitempty,date"`
	Time      *string    `json:"time" validate:"omitempty,clock"`
	Reason    *string    `json:"reason" validate:"omitempty,max=1000"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required,status"`
}

// AppointmentListRequest is read from the query string.
type AppointmentListRequest struct {
	View     string     `validate:"omitempty,oneof=day week month"`
	Date     string     `validate:"omitempty,date"`
	DoctorID *uuid.UUID `validate:"omitempty"`
	Statuses []string   `validate:"omitempty,dive,status"`
}

// Response DTOs

type AppointmentResponse struct {
	ID            uuid.UUID        `json:"id"`
	PatientID     uuid.UUID        `json:"patient_id"`
	PatientName   string           `json:"patient_name"`
	PatientAvatar string           `json:"patient_avatar,omitempty"`
	DoctorID      uuid.UUID        `json:"doctor_id"`
	DoctorName    string           `json:"doctor_name"`
	Date          string           `json:"date"`
	Time          string           `json:"time"`
	Status        string           `json:"status"`
	Reason        string           `json:"reason,omitempty"`
	Cost          *decimal.Decimal `json:"cost,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

type AppointmentListResponse struct {
	View         string                `json:"view"`
	From         string                `json:"from"`
	To           string                `json:"to"`
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

// AppointmentSummaryResponse counts non-cancelled appointments around a date.
type AppointmentSummaryResponse struct {
	Date  string `json:"date"`
	Day   int    `json:"day"`
	Week  int    `json:"week"`
	Month int    `json:"month"`
}

type QueueResponse struct {
	Date      string                `json:"date"`
	Waiting   []AppointmentResponse `json:"waiting"`
	InSession []AppointmentResponse `json:"in_session"`
}
