package converter

import (
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/delivery/dto"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/scheduling"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO.
// Cost is rounded to cents only here.
func AppointmentToResponse(appt *entity.Appointment) *dto.AppointmentResponse {
	if appt == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:            appt.ID,
		PatientID:     appt.PatientID,
		PatientName:   appt.PatientName,
		PatientAvatar: appt.PatientAvatar,
		DoctorID:      appt.DoctorID,
		DoctorName:    appt.DoctorName,
		Date:          appt.AppointmentDate,
		Time:          appt.AppointmentTime,
		Status:        string(appt.Status),
		Reason:        appt.Reason,
		CreatedAt:     appt.CreatedAt,
		UpdatedAt:     appt.UpdatedAt,
	}

	if appt.Cost != nil {
		cost := appt.Cost.Round(2)
		response.Cost = &cost
	}

	return response
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}

func QueueToResponse(queue scheduling.Queue) *dto.QueueResponse {
	return &dto.QueueResponse{
		Date:      queue.Date,
		Waiting:   AppointmentsToResponses(queue.Waiting),
		InSession: AppointmentsToResponses(queue.InSession),
	}
}

func AppointmentToBookingResponse(appt *entity.Appointment) *dto.PublicBookingResponse {
	if appt == nil {
		return nil
	}

	return &dto.PublicBookingResponse{
		AppointmentID: appt.ID,
		PatientName:   appt.PatientName,
		DoctorName:    appt.DoctorName,
		Date:          appt.AppointmentDate,
		Time:          appt.AppointmentTime,
		Status:        string(appt.Status),
	}
}
