package handler

import (
	"net/http"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/delivery/dto"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/usecase"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/pkg/response"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/pkg/validator"
)

type DoctorHandler struct {
	doctorUsecase usecase.DoctorUsecase
	validator     *validator.CustomValidator
}

func NewDoctorHandler(doctorUsecase usecase.DoctorUsecase, validator *validator.CustomValidator) *DoctorHandler {
	return &DoctorHandler{
		doctorUsecase: doctorUsecase,
		validator:     validator,
	}
}

func (h *DoctorHandler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	session, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req dto.CreateDoctorRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doctor, err := h.doctorUsecase.CreateDoctor(r.Context(), session, &req)
	if err != nil {
		switch err {
		case usecase.ErrDoctorNameExists:
			response.Conflict(w, "A doctor with this name already exists")
		case usecase.ErrInvalidWorkHours:
			response.BadRequest(w, "Work hours must start before they end")
		case usecase.ErrInvalidServiceCost:
			response.BadRequest(w, "Service cost must not be negative")
		default:
			response.ServerError(w, err, "Failed to create doctor")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Doctor created successfully", doctor)
}

func (h *DoctorHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathID(w, r, "id", "doctor")
	if !ok {
		return
	}

	doctor, err := h.doctorUsecase.GetDoctor(r.Context(), doctorID)
	if err != nil {
		if err == usecase.ErrDoctorNotFound {
			response.NotFound(w, "Doctor not found")
			return
		}
		response.ServerError(w, err, "Failed to get doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor retrieved successfully", doctor)
}

func (h *DoctorHandler) GetAllDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.doctorUsecase.GetAllDoctors(r.Context())
	if err != nil {
		response.ServerError(w, err, "Failed to get doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

func (h *DoctorHandler) UpdateDoctor(w http.ResponseWriter, r *http.Request) {
	session, ok := currentSession(w, r)
	if !ok {
		return
	}

	doctorID, ok := pathID(w, r, "id", "doctor")
	if !ok {
		return
	}

	var req dto.UpdateDoctorRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doctor, err := h.doctorUsecase.UpdateDoctor(r.Context(), session, doctorID, &req)
	if err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrDoctorNameExists:
			response.Conflict(w, "A doctor with this name already exists")
		case usecase.ErrInvalidWorkHours:
			response.BadRequest(w, "Work hours must start before they end")
		case usecase.ErrInvalidServiceCost:
			response.BadRequest(w, "Service cost must not be negative")
		default:
			response.ServerError(w, err, "Failed to update doctor")
		}
		return
	}

	response.Success(w, http.StatusOK, "Doctor updated successfully", doctor)
}

func (h *DoctorHandler) DeleteDoctor(w http.ResponseWriter, r *http.Request) {
	session, ok := currentSession(w, r)
	if !ok {
		return
	}

	doctorID, ok := pathID(w, r, "id", "doctor")
	if !ok {
		return
	}

	err := h.doctorUsecase.DeleteDoctor(r.Context(), session, doctorID)
	if err != nil {
		if err == usecase.ErrDoctorNotFound {
			response.NotFound(w, "Doctor not found")
			return
		}
		response.ServerError(w, err, "Failed to delete doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor deleted successfully", nil)
}

func (h *DoctorHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	session, ok := currentSession(w, r)
	if !ok {
		return
	}

	doctorID, ok := pathID(w, r, "id", "doctor")
	if !ok {
		return
	}

	upload, closeFile, ok := readAvatar(w, r)
	if !ok {
		return
	}
	defer closeFile()

	doctor, err := h.doctorUsecase.UploadAvatar(r.Context(), session, doctorID, upload)
	if err != nil {
		if writeAvatarError(w, err) {
			return
		}
		if err == usecase.ErrDoctorNotFound {
			response.NotFound(w, "Doctor not found")
			return
		}
		response.ServerError(w, err, "Failed to upload avatar")
		return
	}

	response.Success(w, http.StatusOK, "Avatar uploaded successfully", doctor)
}

// GetSlots serves both staff and the public booking page.
func (h *DoctorHandler) GetSlots(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathID(w, r, "id", "doctor")
	if !ok {
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		response.BadRequest(w, "Query parameter date is required")
		return
	}

	slots, err := h.doctorUsecase.GetSlots(r.Context(), doctorID, date)
	if err != nil {
		if writeSchedulingError(w, err) {
			return
		}
		response.ServerError(w, err, "Failed to get slots")
		return
	}

	response.Success(w, http.StatusOK, "Slots retrieved successfully", slots)
}
