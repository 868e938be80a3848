package repository

import (
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(db *gorm.DB, patient *entity.Patient) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error)
	FindByIDWithHistory(db *gorm.DB, id uuid.UUID) (*entity.Patient, error)
	FindByPhone(db *gorm.DB, phone string) (*entity.Patient, error)
	Search(db *gorm.DB, query string, limit int) ([]entity.Patient, error)
	Update(db *gorm.DB, patient *entity.Patient) error
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
}
