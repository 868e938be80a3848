package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

// PublicBookingRequest is submitted by an anonymous visitor.
type PublicBookingRequest struct {
	Name     string    `json:"name" validate:"required,min=2,max=255"`
	Phone    string    `json:"phone" validate:"required,min=6,max=32"`
	DoctorID uuid.UUID `json:"doctor_id" validate:"required"`
	Date     string    `json:"date" validate:"required,date"`
	Time     string    `json:"time" validate:"required,clock"`
}

// Response DTOs

type PublicBookingResponse struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	PatientName   string    `json:"patient_name"`
	DoctorName    string    `json:"doctor_name"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Status        string    `json:"status"`
}
