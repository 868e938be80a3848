package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusScheduled   AppointmentStatus = "scheduled"
	StatusInSession   AppointmentStatus = "in-session"
	StatusCompleted   AppointmentStatus = "completed"
	StatusReturnVisit AppointmentStatus = "return-visit"
	StatusCancelled   AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusScheduled, StatusInSession, StatusCompleted, StatusReturnVisit, StatusCancelled:
		return true
	}
	return false
}

// Appointment books a patient with a doctor at a date and "HH:mm" time.
// Patient and doctor display fields are copied at creation and never re-synced.
type Appointment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	PatientName     string            `gorm:"type:varchar(255);not null" json:"patient_name"`
	PatientAvatar   string            `gorm:"type:text" json:"patient_avatar"`
	DoctorID        uuid.UUID         `gorm:"type:uuid;not null;index:idx_appointments_doctor_date" json:"doctor_id"`
	DoctorName      string            `gorm:"type:varchar(255);not null" json:"doctor_name"`
	AppointmentDate string            `gorm:"type:varchar(10);not null;index;index:idx_appointments_doctor_date" json:"appointment_date"`
	AppointmentTime string            `gorm:"type:varchar(5);not null" json:"appointment_time"`
	Status          AppointmentStatus `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	Reason          string            `gorm:"type:text" json:"reason"`
	Cost            *decimal.Decimal  `gorm:"type:numeric(12,2)" json:"cost,omitempty"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) IsScheduled() bool {
	return a.Status == StatusScheduled
}

func (a *Appointment) IsInSession() bool {
	return a.Status == StatusInSession
}

func (a *Appointment) IsCompleted() bool {
	return a.Status == StatusCompleted
}

func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// CanStartSession: scheduled -> in-session.
func (a *Appointment) CanStartSession() bool {
	return a.IsScheduled()
}

// CanEndSession: in-session -> completed.
func (a *Appointment) CanEndSession() bool {
	return a.IsInSession()
}

// CanCancel allows cancelling anything that is not already terminal.
func (a *Appointment) CanCancel() bool {
	return !a.IsCompleted() && !a.IsCancelled()
}

// Complete marks the appointment completed at the given cost.
func (a *Appointment) Complete(cost decimal.Decimal) {
	a.Status = StatusCompleted
	a.Cost = &cost
}

// Date parses AppointmentDate in the given location.
func (a *Appointment) Date(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, a.AppointmentDate, loc)
}

// SlotKey identifies the doctor/date/time triple an appointment occupies.
func (a *Appointment) SlotKey() string {
	return a.DoctorID.String() + ":" + a.AppointmentDate + ":" + a.AppointmentTime
}
