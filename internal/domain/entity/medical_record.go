package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MedicalRecord is an immutable entry of a patient's history.
// AppointmentID is unique so a session can be closed into the history only once.
type MedicalRecord struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"patient_id"`
	AppointmentID *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"appointment_id,omitempty"`
	Date          string     `gorm:"type:varchar(10);not null" json:"date"`
	Doctor        string     `gorm:"type:varchar(255);not null" json:"doctor"`
	Diagnosis     string     `gorm:"type:text;not null" json:"diagnosis"`
	Notes         string     `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (MedicalRecord) TableName() string {
	return "medical_records"
}

// CombineNotes bundles observations, treatment plan and follow-up into one text block.
// Empty parts are left out.
func CombineNotes(notes, treatmentPlan, followUp string) string {
	parts := []string{}
	if s := strings.TrimSpace(notes); s != "" {
		parts = append(parts, "Notes: "+s)
	}
	if s := strings.TrimSpace(treatmentPlan); s != "" {
		parts = append(parts, "Treatment plan: "+s)
	}
	if s := strings.TrimSpace(followUp); s != "" {
		parts = append(parts, "Follow-up: "+s)
	}
	return strings.Join(parts, "\n")
}
