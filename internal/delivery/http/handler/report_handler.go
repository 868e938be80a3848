package handler

import (
	"net/http"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/delivery/dto"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/usecase"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/pkg/response"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/pkg/validator"
)

// ReportHandler serves the dashboard, financials and the activity feed.
type ReportHandler struct {
	dashboardUsecase usecase.DashboardUsecase
	financialUsecase usecase.FinancialUsecase
	activityUsecase  usecase.ActivityLogUsecase
	validator        *validator.CustomValidator
}

func NewReportHandler(
	dashboardUsecase usecase.DashboardUsecase,
	financialUsecase usecase.FinancialUsecase,
	activityUsecase usecase.ActivityLogUsecase,
	validator *validator.CustomValidator,
) *ReportHandler {
	return &ReportHandler{
		dashboardUsecase: dashboardUsecase,
		financialUsecase: financialUsecase,
		activityUsecase:  activityUsecase,
		validator:        validator,
	}
}

func (h *ReportHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.dashboardUsecase.GetDashboard(r.Context())
	if err != nil {
		response.ServerError(w, err, "Failed to get dashboard")
		return
	}

	response.Success(w, http.StatusOK, "Dashboard retrieved successfully", dashboard)
}

// GetFinancials handles GET /financials?from=&to=&doctor_id=
func (h *ReportHandler) GetFinancials(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := queryUUID(w, r, "doctor_id")
	if !ok {
		return
	}

	req := dto.FinancialRequest{
		From:     r.URL.Query().Get("from"),
		To:       r.URL.Query().Get("to"),
		DoctorID: doctorID,
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	summary, err := h.financialUsecase.GetSummary(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidDate:
			response.BadRequest(w, "Invalid date format, use YYYY-MM-DD")
		case usecase.ErrInvalidDateRange:
			response.BadRequest(w, "From date must not be after to date")
		default:
			response.ServerError(w, err, "Failed to get financial summary")
		}
		return
	}

	response.Success(w, http.StatusOK, "Financial summary retrieved successfully", summary)
}

func (h *ReportHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", usecase.DefaultActivityLimit)

	logs, err := h.activityUsecase.ListRecent(r.Context(), limit)
	if err != nil {
		response.ServerError(w, err, "Failed to get activity log")
		return
	}

	response.Success(w, http.StatusOK, "Activity log retrieved successfully", logs)
}
