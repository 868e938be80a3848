package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Doctor is a bookable practitioner with a weekly working-hours template.
type Doctor struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name           string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Specialty      string          `gorm:"type:varchar(255);not null" json:"specialty"`
	Avatar         string          `gorm:"type:text" json:"avatar"`
	WorkHours      WorkHours       `gorm:"type:jsonb;serializer:json;not null" json:"work_hours"`
	ServiceCost    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"service_cost"`
	FreeReturnDays int             `gorm:"not null;default:0" json:"free_return_days"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// WorksOn reports whether the doctor has a window on the given weekday.
func (d *Doctor) WorksOn(day time.Weekday) bool {
	return d.WorkHours.WorksOn(day)
}
