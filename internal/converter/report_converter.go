package converter

import (
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/delivery/dto"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/reporting"
)

// RevenueSummaryToResponse rounds every amount to 2 places.
func RevenueSummaryToResponse(summary reporting.RevenueSummary) *dto.FinancialSummaryResponse {
	response := &dto.FinancialSummaryResponse{
		From:             summary.From,
		To:               summary.To,
		TotalRevenue:     summary.Total.Round(2),
		AppointmentCount: summary.Count,
		AverageRevenue:   summary.Average.Round(2),
		ByDoctor:         make([]dto.DoctorRevenueResponse, len(summary.ByDoctor)),
		Daily:            make([]dto.DailyRevenueResponse, len(summary.Daily)),
	}

	for i, row := range summary.ByDoctor {
		response.ByDoctor[i] = dto.DoctorRevenueResponse{
			DoctorID:         row.DoctorID,
			DoctorName:       row.DoctorName,
			Revenue:          row.Revenue.Round(2),
			AppointmentCount: row.Count,
		}
	}
	for i, day := range summary.Daily {
		response.Daily[i] = dto.DailyRevenueResponse{
			Date:    day.Date,
			Revenue: day.Revenue.Round(2),
		}
	}

	return response
}

func DashboardToResponse(dashboard reporting.Dashboard) *dto.DashboardResponse {
	overview := make([]dto.MonthOverviewResponse, len(dashboard.Overview))
	for i, month := range dashboard.Overview {
		overview[i] = dto.MonthOverviewResponse{
			Month:     month.Month,
			Completed: month.Completed,
			Scheduled: month.Scheduled,
		}
	}

	return &dto.DashboardResponse{
		Date:               dashboard.Date,
		TodayRevenue:       dashboard.Today.Revenue.Round(2),
		ActiveAppointments: dashboard.Today.Active,
		PatientsToday:      dashboard.Today.Patients,
		CompletedToday:     dashboard.Today.Completed,
		Upcoming:           AppointmentsToResponses(dashboard.Upcoming),
		Overview:           overview,
	}
}

func ActivityLogToResponse(log *entity.ActivityLog) *dto.ActivityLogResponse {
	if log == nil {
		return nil
	}

	return &dto.ActivityLogResponse{
		ID: log.ID.Hex(),
		User: dto.ActivityActorResponse{
			ID:     log.User.UserID,
			Name:   log.User.Name,
			Avatar: log.User.Avatar,
		},
		Action:    log.Action,
		Target:    log.Target,
		Metadata:  log.Metadata,
		Timestamp: log.Timestamp,
	}
}

func ActivityLogsToResponses(logs []entity.ActivityLog) []dto.ActivityLogResponse {
	responses := make([]dto.ActivityLogResponse, len(logs))
	for i := range logs {
		responses[i] = *ActivityLogToResponse(&logs[i])
	}
	return responses
}
