package handler

import (
	"net/http"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/delivery/dto"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/usecase"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/pkg/response"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/pkg/validator"
)

// PublicHandler serves the unauthenticated booking page.
type PublicHandler struct {
	bookingUsecase usecase.PublicBookingUsecase
	doctorUsecase  usecase.DoctorUsecase
	validator      *validator.CustomValidator
}

func NewPublicHandler(bookingUsecase usecase.PublicBookingUsecase, doctorUsecase usecase.DoctorUsecase, validator *validator.CustomValidator) *PublicHandler {
	return &PublicHandler{
		bookingUsecase: bookingUsecase,
		doctorUsecase:  doctorUsecase,
		validator:      validator,
	}
}

func (h *PublicHandler) GetDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.doctorUsecase.GetAllDoctors(r.Context())
	if err != nil {
		response.ServerError(w, err, "Failed to get doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

func (h *PublicHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req dto.PublicBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.bookingUsecase.CreateBooking(r.Context(), &req)
	if err != nil {
		if writeSchedulingError(w, err) {
			return
		}
		if err == usecase.ErrPatientPhoneExists {
			response.Conflict(w, "Please try again")
			return
		}
		response.ServerError(w, err, "Failed to create booking")
		return
	}

	response.Success(w, http.StatusCreated, "Booking created successfully", booking)
}
