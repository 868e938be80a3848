package entity

import (
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

// Patient is identified by phone number. MedicalHistory is append-only.
type Patient struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null;index" json:"name"`
	Phone     string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"phone"`
	Avatar    string    `gorm:"type:text" json:"avatar"`
	Age       int       `gorm:"not null;default:0" json:"age"`
	Gender    Gender    `gorm:"type:varchar(10);not null;default:'male'" json:"gender"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	MedicalHistory []MedicalRecord `gorm:"foreignKey:PatientID" json:"medical_history,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}
