package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type WorkWindowRequest struct {
	Start string `json:"start" validate:"required,clock"`
	End   string `json:"end" validate:"required,clock"`
}

// WorkHoursRequest maps English weekday names to a window; a missing or null day is a day off.
type WorkHoursRequest map[string]*WorkWindowRequest

type CreateDoctorRequest struct {
	Name           string           `json:"name" validate:"required,min=2,max=255"`
	Specialty      string           `json:"specialty" validate:"required,max=255"`
	WorkHours      WorkHoursRequest `json:"work_hours" validate:"required,dive,keys,weekday,endkeys"`
	ServiceCost    decimal.Decimal  `json:"service_cost"`
	FreeReturnDays int              `json:"free_return_days" validate:"gte=0,lte=365"`
}

type UpdateDoctorRequest struct {
	Name           *string          `json:"name" validate:"omitempty,min=2,max=255"`
	Specialty      *string          `json:"specialty" validate:"omitempty,max=255"`
	WorkHours      WorkHoursRequest `json:"work_hours" validate:"omitempty,dive,keys,weekday,endkeys"`
	ServiceCost    *decimal.Decimal `json:"service_cost"`
	FreeReturnDays *int             `json:"free_return_days" validate:"omitempty,gte=0,lte=365"`
}

// Response DTOs

type WorkWindowResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type DoctorResponse struct {
	ID             uuid.UUID                      `json:"id"`
	Name           string                         `json:"name"`
	Specialty      string                         `json:"specialty"`
	Avatar         string                         `json:"avatar,omitempty"`
	WorkHours      map[string]*WorkWindowResponse `json:"work_hours"`
	BookableDays   []string                       `json:"bookable_days"`
	ServiceCost    decimal.Decimal                `json:"service_cost"`
	FreeReturnDays int                            `json:"free_return_days"`
	CreatedAt      time.Time                      `json:"created_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}

type SlotResponse struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// DoctorSlotsResponse tells "not working that day" (day_off) apart from "fully booked".
type DoctorSlotsResponse struct {
	DoctorID uuid.UUID      `json:"doctor_id"`
	Date     string         `json:"date"`
	DayOff   bool           `json:"day_off"`
	Slots    []SlotResponse `json:"slots"`
}
