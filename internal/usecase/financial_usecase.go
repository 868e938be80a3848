package usecase

import (
	"context"
	"errors"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/converter"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/delivery/dto"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/repository"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/reporting"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrInvalidDateRange = errors.New("from date must not be after to date")

type FinancialUsecase interface {
	// GetSummary aggregates completed appointments in an inclusive date range.
	// Missing bounds default to the revenue window ending today.
	GetSummary(ctx context.Context, req *dto.FinancialRequest) (*dto.FinancialSummaryResponse, error)
}

type financialUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorRepository
	clock           Clock
	windowDays      int
}

func NewFinancialUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	clock Clock,
	windowDays int,
) FinancialUsecase {
	return &financialUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		clock:           clock,
		windowDays:      windowDays,
	}
}

func (u *financialUsecase) GetSummary(ctx context.Context, req *dto.FinancialRequest) (*dto.FinancialSummaryResponse, error) {
	filter, err := u.resolveFilter(req)
	if err != nil {
		return nil, err
	}

	db := u.db.WithContext(ctx)
	appointments, err := u.appointmentRepo.FindAll(db, &entity.AppointmentFilter{
		DateFrom: filter.From,
		DateTo:   filter.To,
		DoctorID: filter.DoctorID,
		Statuses: []entity.AppointmentStatus{entity.StatusCompleted},
	})
	if err != nil {
		u.log.Warnf("Failed to load completed appointments: %+v", err)
		return nil, err
	}

	doctors, err := u.doctorRepo.FindAll(db)
	if err != nil {
		u.log.Warnf("Failed to find all doctors: %+v", err)
		return nil, err
	}

	return converter.RevenueSummaryToResponse(reporting.SummarizeRevenue(appointments, doctors, filter)), nil
}

func (u *financialUsecase) resolveFilter(req *dto.FinancialRequest) (reporting.RevenueFilter, error) {
	now := u.clock.Now()
	from, to := reporting.DefaultRange(now, u.windowDays)

	if req.To != "" {
		end, err := u.clock.ParseDate(req.To)
		if err != nil {
			return reporting.RevenueFilter{}, ErrInvalidDate
		}
		to = req.To
		if req.From == "" {
			from, _ = reporting.DefaultRange(end, u.windowDays)
		}
	}
	if req.From != "" {
		if _, err := u.clock.ParseDate(req.From); err != nil {
			return reporting.RevenueFilter{}, ErrInvalidDate
		}
		from = req.From
	}
	if from > to {
		return reporting.RevenueFilter{}, ErrInvalidDateRange
	}

	return reporting.RevenueFilter{From: from, To: to, DoctorID: req.DoctorID}, nil
}
