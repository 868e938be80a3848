package repository

import (
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MedicalRecordRepository only appends; records are never updated.
type MedicalRecordRepository interface {
	Create(db *gorm.DB, record *entity.MedicalRecord) error
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.MedicalRecord, error)
	FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.MedicalRecord, error)
	CountByPatientID(db *gorm.DB, patientID uuid.UUID) (int64, error)
}
