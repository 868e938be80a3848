package converter

import (
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/delivery/dto"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"
)

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	return &dto.PatientResponse{
		ID:        patient.ID,
		Name:      patient.Name,
		Phone:     patient.Phone,
		Avatar:    patient.Avatar,
		Age:       patient.Age,
		Gender:    string(patient.Gender),
		CreatedAt: patient.CreatedAt,
	}
}

func PatientsToResponses(patients []entity.Patient) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(patients))
	for i := range patients {
		responses[i] = *PatientToResponse(&patients[i])
	}
	return responses
}

func MedicalRecordToResponse(record *entity.MedicalRecord) *dto.MedicalRecordResponse {
	if record == nil {
		return nil
	}

	return &dto.MedicalRecordResponse{
		ID:            record.ID,
		AppointmentID: record.AppointmentID,
		Date:          record.Date,
		Doctor:        record.Doctor,
		Diagnosis:     record.Diagnosis,
		Notes:         record.Notes,
		CreatedAt:     record.CreatedAt,
	}
}

func MedicalRecordsToResponses(records []entity.MedicalRecord) []dto.MedicalRecordResponse {
	responses := make([]dto.MedicalRecordResponse, len(records))
	for i := range records {
		responses[i] = *MedicalRecordToResponse(&records[i])
	}
	return responses
}

// PatientToDetailResponse combines a patient with their appointments and history.
func PatientToDetailResponse(patient *entity.Patient, appointments []entity.Appointment) *dto.PatientDetailResponse {
	if patient == nil {
		return nil
	}

	return &dto.PatientDetailResponse{
		Patient:        *PatientToResponse(patient),
		Appointments:   AppointmentsToResponses(appointments),
		MedicalHistory: MedicalRecordsToResponses(patient.MedicalHistory),
	}
}
