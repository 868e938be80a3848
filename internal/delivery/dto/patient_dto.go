package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreatePatientRequest struct {
	Name   string `json:"name" validate:"required,min=2,max=255"`
	Phone  string `json:"phone" validate:"required,min=6,max=32"`
	Age    int    `json:"age" validate:"gte=0,lte=150"`
	Gender string `json:"gender" validate:"required,oneof=male female"`
}

type UpdatePatientRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=2,max=255"`
	Phone  *string `json:"phone" validate:"omitempty,min=6,max=32"`
	Age    *int    `json:"age" validate:"omitempty,gte=0,lte=150"`
	Gender *string `json:"gender" validate:"omitempty,oneof=male female"`
}

// MedicalRecordRequest is also the body of ending a session.
type MedicalRecordRequest struct {
	Diagnosis     string `json:"diagnosis" validate:"required,max=2000"`
	Notes         string `json:"notes" validate:"omitempty,max=4000"`
	TreatmentPlan string `json:"treatment_plan" validate:"omitempty,max=4000"`
	FollowUp      string `json:"follow_up" validate:"omitempty,max=4000"`
}

// Response DTOs

type PatientResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Avatar    string    `json:"avatar,omitempty"`
	Age       int       `json:"age"`
	Gender    string    `json:"gender"`
	CreatedAt time.Time `json:"created_at"`
}

type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
	Total    int               `json:"total"`
}

type MedicalRecordResponse struct {
	ID            uuid.UUID  `json:"id"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
	Date          string     `json:"date"`
	Doctor        string     `json:"doctor"`
	Diagnosis     string     `json:"diagnosis"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type PatientDetailResponse struct {
	Patient        PatientResponse         `json:"patient"`
	Appointments   []AppointmentResponse   `json:"appointments"`
	MedicalHistory []MedicalRecordResponse `json:"medical_history"`
}
