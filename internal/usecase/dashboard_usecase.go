package usecase

import (
	"context"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/converter"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/delivery/dto"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/repository"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/reporting"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type DashboardUsecase interface {
	GetDashboard(ctx context.Context) (*dto.DashboardResponse, error)
}

type dashboardUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	clock           Clock
}

func NewDashboardUsecase(db *gorm.DB, log *logrus.Logger, appointmentRepo repository.AppointmentRepository, clock Clock) DashboardUsecase {
	return &dashboardUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		clock:           clock,
	}
}

// GetDashboard loads every appointment from the first overview month to the end of the current month.
func (u *dashboardUsecase) GetDashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	now := u.clock.Now()
	start := reporting.OverviewStart(now, reporting.DefaultOverviewMonths)
	monthEnd := start.AddDate(0, reporting.DefaultOverviewMonths, -1)

	appointments, err := u.appointmentRepo.FindAll(u.db.WithContext(ctx), &entity.AppointmentFilter{
		DateFrom:         start.Format(entity.DateLayout),
		DateTo:           monthEnd.Format(entity.DateLayout),
		ExcludeCancelled: true,
	})
	if err != nil {
		u.log.Warnf("Failed to load dashboard appointments: %+v", err)
		return nil, err
	}

	return converter.DashboardToResponse(reporting.BuildDashboard(appointments, now)), nil
}
