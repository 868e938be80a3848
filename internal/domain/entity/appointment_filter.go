package entity

import "github.com/google/uuid"

// AppointmentFilter is a domain-level filter for querying appointments.
// Used by repository layer to avoid coupling with delivery DTOs.
type AppointmentFilter struct {
	DateFrom         string // Format: YYYY-MM-DD, inclusive
	DateTo           string // Format: YYYY-MM-DD, inclusive
	DoctorID         *uuid.UUID
	PatientID        *uuid.UUID
	Statuses         []AppointmentStatus
	ExcludeCancelled bool
}
