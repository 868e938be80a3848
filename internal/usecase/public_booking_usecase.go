package usecase

import (
	"context"
	"strings"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/converter"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/delivery/dto"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/repository"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type PublicBookingUsecase interface {
	CreateBooking(ctx context.Context, req *dto.PublicBookingRequest) (*dto.PublicBookingResponse, error)
}

// BookingDefaults fill what an anonymous visitor does not provide.
type BookingDefaults struct {
	Reason string
	Avatar string
}

type publicBookingUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	doctorRepo      repository.DoctorRepository
	patientRepo     repository.PatientRepository
	appointmentRepo repository.AppointmentRepository
	slots           *slotKeeper
	activity        service.ActivityService
	notifier        service.QueueNotifier
	policy          SchedulingPolicy
	defaults        BookingDefaults
}

func NewPublicBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
	appointmentRepo repository.AppointmentRepository,
	reserver SlotReserver,
	activity service.ActivityService,
	notifier service.QueueNotifier,
	policy SchedulingPolicy,
	defaults BookingDefaults,
) PublicBookingUsecase {
	return &publicBookingUsecase{
		db:              db,
		log:             log,
		doctorRepo:      doctorRepo,
		patientRepo:     patientRepo,
		appointmentRepo: appointmentRepo,
		slots:           newSlotKeeper(log, reserver, appointmentRepo),
		activity:        activity,
		notifier:        notifier,
		policy:          policy,
		defaults:        defaults,
	}
}

// CreateBooking books a slot from the public page.
//
// Flow:
// 1. Validate doctor, date and time against the generated slots
// 2. Find the patient by phone or create one (age 0, male, placeholder avatar)
// 3. Reserve the slot and insert a scheduled appointment
func (u *publicBookingUsecase) CreateBooking(ctx context.Context, req *dto.PublicBookingRequest) (*dto.PublicBookingResponse, error) {
	db := u.db.WithContext(ctx)

	doctor, err := u.doctorRepo.FindByID(db, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", req.DoctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	existing, err := u.appointmentRepo.FindByDoctorAndDate(db, doctor.ID, req.Date)
	if err != nil {
		u.log.Warnf("Failed to load appointments of doctor %s on %s: %+v", doctor.ID, req.Date, err)
		return nil, err
	}
	if err := checkBookable(u.policy.Clock, slotRequest{doctor: doctor, date: req.Date, time: req.Time}, existing, u.policy.slotOptions()); err != nil {
		return nil, err
	}

	patient, created, err := u.findOrCreatePatient(db, strings.TrimSpace(req.Name), strings.TrimSpace(req.Phone))
	if err != nil {
		return nil, err
	}
	if created {
		u.activity.Record(ctx, (*entity.Session)(nil).Actor(), entity.ActivityPatientCreate, patient.Name, map[string]any{
			"patient_id": patient.ID.String(),
			"source":     "public_booking",
		})
	}

	appt := &entity.Appointment{
		ID:              uuid.New(),
		PatientID:       patient.ID,
		PatientName:     patient.Name,
		PatientAvatar:   patient.Avatar,
		DoctorID:        doctor.ID,
		DoctorName:      doctor.Name,
		AppointmentDate: req.Date,
		AppointmentTime: req.Time,
		Status:          entity.StatusScheduled,
		Reason:          u.defaults.Reason,
	}
	if err := u.slots.place(ctx, db, appt); err != nil {
		return nil, err
	}

	u.activity.Record(ctx, (*entity.Session)(nil).Actor(), entity.ActivityAppointmentBook, patient.Name, map[string]any{
		"appointment_id": appt.ID.String(),
		"doctor":         doctor.Name,
		"date":           appt.AppointmentDate,
		"time":           appt.AppointmentTime,
		"source":         "public_booking",
	})
	u.notifier.Publish(ctx, appt.AppointmentDate)

	return converter.AppointmentToBookingResponse(appt), nil
}

// findOrCreatePatient matches on phone only. A concurrent insert of the same phone
// is resolved by reading the winner.
func (u *publicBookingUsecase) findOrCreatePatient(db *gorm.DB, name, phone string) (*entity.Patient, bool, error) {
	patient, err := u.patientRepo.FindByPhone(db, phone)
	if err != nil {
		u.log.Warnf("Failed to find patient by phone: %+v", err)
		return nil, false, err
	}
	if patient != nil {
		return patient, false, nil
	}

	patient = &entity.Patient{
		Name:   name,
		Phone:  phone,
		Avatar: u.defaults.Avatar,
		Age:    0,
		Gender: entity.GenderMale,
	}
	if err := u.patientRepo.Create(db, patient); err != nil {
		if !isDuplicateKeyError(err, constraintPatientPhone) {
			u.log.Warnf("Failed to create patient: %+v", err)
			return nil, false, err
		}
		winner, err := u.patientRepo.FindByPhone(db, phone)
		if err != nil || winner == nil {
			u.log.Warnf("Failed to read concurrently created patient: %+v", err)
			return nil, false, ErrPatientPhoneExists
		}
		return winner, false, nil
	}
	return patient, true, nil
}
