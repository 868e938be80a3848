package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/converter"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/delivery/dto"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/repository"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/scheduling"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDoctorNotFound     = errors.New("doctor not found")
	ErrDoctorNameExists   = errors.New("a doctor with this name already exists")
	ErrInvalidWorkHours   = errors.New("work hours must start before they end")
	ErrInvalidServiceCost = errors.New("service cost must not be negative")
)

type DoctorUsecase interface {
	CreateDoctor(ctx context.Context, session *entity.Session, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	GetDoctor(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error)
	GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error)
	UpdateDoctor(ctx context.Context, session *entity.Session, id uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	DeleteDoctor(ctx context.Context, session *entity.Session, id uuid.UUID) error
	UploadAvatar(ctx context.Context, session *entity.Session, id uuid.UUID, upload *dto.AvatarUpload) (*dto.DoctorResponse, error)
	// GetSlots lists the generated slots of a doctor on a date that is today or later.
	GetSlots(ctx context.Context, id uuid.UUID, date string) (*dto.DoctorSlotsResponse, error)
}

type doctorUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	doctorRepo      repository.DoctorRepository
	appointmentRepo repository.AppointmentRepository
	activity        service.ActivityService
	avatars         service.AvatarStorage
	policy          SchedulingPolicy
	defaultAvatar   string
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	appointmentRepo repository.AppointmentRepository,
	activity service.ActivityService,
	avatars service.AvatarStorage,
	policy SchedulingPolicy,
	defaultAvatar string,
) DoctorUsecase {
	return &doctorUsecase{
		db:              db,
		log:             log,
		doctorRepo:      doctorRepo,
		appointmentRepo: appointmentRepo,
		activity:        activity,
		avatars:         avatars,
		policy:          policy,
		defaultAvatar:   defaultAvatar,
	}
}

func (u *doctorUsecase) CreateDoctor(ctx context.Context, session *entity.Session, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	db := u.db.WithContext(ctx)

	hours := converter.WorkHoursFromRequest(req.WorkHours)
	if err := validateWorkHours(hours); err != nil {
		return nil, err
	}
	if req.ServiceCost.IsNegative() {
		return nil, ErrInvalidServiceCost
	}

	name := strings.TrimSpace(req.Name)
	existing, err := u.doctorRepo.FindByName(db, name)
	if err != nil {
		u.log.Warnf("Failed to check doctor name: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrDoctorNameExists
	}

	doctor := &entity.Doctor{
		Name:           name,
		Specialty:      strings.TrimSpace(req.Specialty),
		Avatar:         u.defaultAvatar,
		WorkHours:      hours,
		ServiceCost:    req.ServiceCost,
		FreeReturnDays: req.FreeReturnDays,
	}

	if err := u.doctorRepo.Create(db, doctor); err != nil {
		if isDuplicateKeyError(err, constraintDoctorName) {
			return nil, ErrDoctorNameExists
		}
		u.log.Warnf("Failed to create doctor: %+v", err)
		return nil, err
	}

	u.activity.Record(ctx, session.Actor(), entity.ActivityDoctorCreate, doctor.Name, map[string]any{
		"doctor_id": doctor.ID.String(),
		"specialty": doctor.Specialty,
	})

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.findDoctor(u.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find all doctors: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   len(doctors),
	}, nil
}

// UpdateDoctor changes profile fields. Existing appointments keep the name they were booked with.
func (u *doctorUsecase) UpdateDoctor(ctx context.Context, session *entity.Session, id uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	db := u.db.WithContext(ctx)

	doctor, err := u.findDoctor(db, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if !strings.EqualFold(name, doctor.Name) {
			existing, err := u.doctorRepo.FindByName(db, name)
			if err != nil {
				u.log.Warnf("Failed to check doctor name: %+v", err)
				return nil, err
			}
			if existing != nil && existing.ID != doctor.ID {
				return nil, ErrDoctorNameExists
			}
		}
		doctor.Name = name
	}
	if req.Specialty != nil {
		doctor.Specialty = strings.TrimSpace(*req.Specialty)
	}
	if req.WorkHours != nil {
		hours := converter.WorkHoursFromRequest(req.WorkHours)
		if err := validateWorkHours(hours); err != nil {
			return nil, err
		}
		doctor.WorkHours = hours
	}
	if req.ServiceCost != nil {
		if req.ServiceCost.IsNegative() {
			return nil, ErrInvalidServiceCost
		}
		doctor.ServiceCost = *req.ServiceCost
	}
	if req.FreeReturnDays != nil {
		doctor.FreeReturnDays = *req.FreeReturnDays
	}

	if err := u.doctorRepo.Update(db, doctor); err != nil {
		if isDuplicateKeyError(err, constraintDoctorName) {
			return nil, ErrDoctorNameExists
		}
		u.log.Warnf("Failed to update doctor %s: %+v", id, err)
		return nil, err
	}

	u.activity.Record(ctx, session.Actor(), entity.ActivityDoctorUpdate, doctor.Name, map[string]any{
		"doctor_id": doctor.ID.String(),
	})

	return converter.DoctorToResponse(doctor), nil
}

// DeleteDoctor keeps the doctor's appointments; they still carry the copied doctor name.
func (u *doctorUsecase) DeleteDoctor(ctx context.Context, session *entity.Session, id uuid.UUID) error {
	db := u.db.WithContext(ctx)

	doctor, err := u.findDoctor(db, id)
	if err != nil {
		return err
	}

	rows, err := u.doctorRepo.Delete(db, id)
	if err != nil {
		u.log.Warnf("Failed to delete doctor %s: %+v", id, err)
		return err
	}
	if rows == 0 {
		return ErrDoctorNotFound
	}

	u.activity.Record(ctx, session.Actor(), entity.ActivityDoctorDelete, doctor.Name, map[string]any{
		"doctor_id": id.String(),
	})
	return nil
}

func (u *doctorUsecase) UploadAvatar(ctx context.Context, session *entity.Session, id uuid.UUID, upload *dto.AvatarUpload) (*dto.DoctorResponse, error) {
	db := u.db.WithContext(ctx)

	doctor, err := u.findDoctor(db, id)
	if err != nil {
		return nil, err
	}

	url, err := u.avatars.Upload(ctx, "doctors", doctor.ID, upload.File, upload.Size, upload.ContentType)
	if err != nil {
		return nil, err
	}
	doctor.Avatar = url

	if err := u.doctorRepo.Update(db, doctor); err != nil {
		u.log.Warnf("Failed to save avatar of doctor %s: %+v", id, err)
		return nil, err
	}

	u.activity.Record(ctx, session.Actor(), entity.ActivityDoctorUpdate, doctor.Name, map[string]any{
		"doctor_id": doctor.ID.String(),
		"avatar":    url,
	})

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) GetSlots(ctx context.Context, id uuid.UUID, date string) (*dto.DoctorSlotsResponse, error) {
	db := u.db.WithContext(ctx)
	clock := u.policy.Clock

	day, err := clock.ParseDate(date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if date < clock.Today() {
		return nil, ErrDateInPast
	}

	doctor, err := u.findDoctor(db, id)
	if err != nil {
		return nil, err
	}

	result := &dto.DoctorSlotsResponse{
		DoctorID: doctor.ID,
		Date:     date,
		Slots:    []dto.SlotResponse{},
	}
	if !doctor.WorksOn(day.Weekday()) {
		result.DayOff = true
		return result, nil
	}

	existing, err := u.appointmentRepo.FindByDoctorAndDate(db, doctor.ID, date)
	if err != nil {
		u.log.Warnf("Failed to load appointments of doctor %s on %s: %+v", id, date, err)
		return nil, err
	}

	slots := scheduling.GenerateSlots(doctor.WorkHours, day, clock.Now(), existing, u.policy.slotOptions())
	result.Slots = converter.SlotsToResponses(slots)
	return result, nil
}

func (u *doctorUsecase) findDoctor(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	doctor, err := u.doctorRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", id, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return doctor, nil
}

func validateWorkHours(hours entity.WorkHours) error {
	for _, day := range hours.Weekdays() {
		win, _ := hours.For(day)
		if !scheduling.ValidWindow(win) {
			return ErrInvalidWorkHours
		}
	}
	return nil
}
