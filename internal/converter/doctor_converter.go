package converter

import (
	"time"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/delivery/dto"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/scheduling"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:             doctor.ID,
		Name:           doctor.Name,
		Specialty:      doctor.Specialty,
		Avatar:         doctor.Avatar,
		WorkHours:      workHoursToResponse(doctor.WorkHours),
		BookableDays:   weekdayNames(scheduling.BookableWeekdays(doctor.WorkHours)),
		ServiceCost:    doctor.ServiceCost.Round(2),
		FreeReturnDays: doctor.FreeReturnDays,
		CreatedAt:      doctor.CreatedAt,
	}
}

func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}

// WorkHoursFromRequest drops null days; they mean "not working".
func WorkHoursFromRequest(req dto.WorkHoursRequest) entity.WorkHours {
	hours := entity.WorkHours{}
	for day, win := range req {
		if win == nil {
			continue
		}
		hours[day] = &entity.WorkWindow{Start: win.Start, End: win.End}
	}
	return hours
}

func SlotsToResponses(slots []scheduling.Slot) []dto.SlotResponse {
	responses := make([]dto.SlotResponse, len(slots))
	for i, slot := range slots {
		responses[i] = dto.SlotResponse{Time: slot.Time, Available: slot.Available}
	}
	return responses
}

func workHoursToResponse(hours entity.WorkHours) map[string]*dto.WorkWindowResponse {
	out := make(map[string]*dto.WorkWindowResponse, len(hours))
	for day, win := range hours {
		if win == nil {
			continue
		}
		out[day] = &dto.WorkWindowResponse{Start: win.Start, End: win.End}
	}
	return out
}

func weekdayNames(days []time.Weekday) []string {
	names := make([]string, len(days))
	for i, day := range days {
		names[i] = day.String()
	}
	return names
}
