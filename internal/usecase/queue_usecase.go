package usecase

import (
	"context"
	"time"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/converter"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/delivery/dto"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/repository"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/scheduling"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// rolloverCheckInterval is how often a live queue checks whether the clinic day changed.
var rolloverCheckInterval = time.Minute

type QueueUsecase interface {
	GetQueue(ctx context.Context) (*dto.QueueResponse, error)
	StartSession(ctx context.Context, session *entity.Session, id uuid.UUID) (*dto.AppointmentResponse, error)
	EndSession(ctx context.Context, session *entity.Session, id uuid.UUID, req *dto.MedicalRecordRequest) (*dto.AppointmentResponse, error)
	// WatchQueue sends a snapshot now and after every change of today's appointments.
	// The channel closes when ctx is done.
	WatchQueue(ctx context.Context) (<-chan *dto.QueueResponse, error)
}

type queueUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	appointmentRepo   repository.AppointmentRepository
	doctorRepo        repository.DoctorRepository
	medicalRecordRepo repository.MedicalRecordRepository
	activity          service.ActivityService
	notifier          service.QueueNotifier
	clock             Clock
}

func NewQueueUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	medicalRecordRepo repository.MedicalRecordRepository,
	activity service.ActivityService,
	notifier service.QueueNotifier,
	clock Clock,
) QueueUsecase {
	return &queueUsecase{
		db:                db,
		log:               log,
		appointmentRepo:   appointmentRepo,
		doctorRepo:        doctorRepo,
		medicalRecordRepo: medicalRecordRepo,
		activity:          activity,
		notifier:          notifier,
		clock:             clock,
	}
}

func (u *queueUsecase) GetQueue(ctx context.Context) (*dto.QueueResponse, error) {
	return u.snapshot(ctx, u.clock.Today())
}

func (u *queueUsecase) snapshot(ctx context.Context, day string) (*dto.QueueResponse, error) {
	appointments, err := u.appointmentRepo.FindAll(u.db.WithContext(ctx), &entity.AppointmentFilter{
		DateFrom: day,
		DateTo:   day,
		Statuses: []entity.AppointmentStatus{entity.StatusScheduled, entity.StatusInSession},
	})
	if err != nil {
		u.log.Warnf("Failed to load queue for %s: %+v", day, err)
		return nil, err
	}
	return converter.QueueToResponse(scheduling.PartitionQueue(day, appointments)), nil
}

// StartSession moves a scheduled appointment into session.
func (u *queueUsecase) StartSession(ctx context.Context, session *entity.Session, id uuid.UUID) (*dto.AppointmentResponse, error) {
	db := u.db.WithContext(ctx)

	appt, err := u.appointmentRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appt == nil {
		return nil, ErrAppointmentNotFound
	}
	if !appt.CanStartSession() {
		return nil, ErrInvalidTransition
	}

	rows, err := u.appointmentRepo.UpdateStatus(db, id, []entity.AppointmentStatus{entity.StatusScheduled}, entity.StatusInSession)
	if err != nil {
		u.log.Warnf("Failed to start session for appointment %s: %+v", id, err)
		return nil, err
	}
	if rows == 0 {
		return nil, ErrInvalidTransition
	}
	appt.Status = entity.StatusInSession

	u.activity.Record(ctx, session.Actor(), entity.ActivitySessionStart, appt.PatientName, map[string]any{
		"appointment_id": appt.ID.String(),
		"doctor":         appt.DoctorName,
	})
	u.notifier.Publish(ctx, appt.AppointmentDate)

	return converter.AppointmentToResponse(appt), nil
}

// EndSession completes an in-session appointment.
//
// One transaction, appointment row locked:
// 1. Append the medical record (author = appointment doctor, date = today)
// 2. Set status completed and cost = the doctor's current service cost (0 if deleted)
//
// The record is unique per appointment, so a retry cannot append twice.
func (u *queueUsecase) EndSession(ctx context.Context, session *entity.Session, id uuid.UUID, req *dto.MedicalRecordRequest) (*dto.AppointmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appt, err := u.appointmentRepo.FindByIDForUpdate(tx, id)
	if err != nil {
		u.log.Warnf("Failed to lock appointment %s: %+v", id, err)
		return nil, err
	}
	if appt == nil {
		return nil, ErrAppointmentNotFound
	}
	if !appt.CanEndSession() {
		return nil, ErrInvalidTransition
	}

	cost := decimal.Zero
	doctor, err := u.doctorRepo.FindByID(tx, appt.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", appt.DoctorID, err)
		return nil, err
	}
	if doctor != nil {
		cost = doctor.ServiceCost
	}

	record := &entity.MedicalRecord{
		PatientID:     appt.PatientID,
		AppointmentID: &appt.ID,
		Date:          u.clock.Today(),
		Doctor:        appt.DoctorName,
		Diagnosis:     req.Diagnosis,
		Notes:         entity.CombineNotes(req.Notes, req.TreatmentPlan, req.FollowUp),
	}
	if err := u.medicalRecordRepo.Create(tx, record); err != nil {
		if isDuplicateKeyError(err, constraintRecordSession) {
			return nil, ErrInvalidTransition
		}
		if isForeignKeyError(err, constraintRecordPatient) {
			return nil, ErrPatientNotFound
		}
		u.log.Warnf("Failed to append medical record for appointment %s: %+v", id, err)
		return nil, err
	}

	rows, err := u.appointmentRepo.Complete(tx, id, cost)
	if err != nil {
		u.log.Warnf("Failed to complete appointment %s: %+v", id, err)
		return nil, err
	}
	if rows == 0 {
		return nil, ErrInvalidTransition
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}
	appt.Complete(cost)

	u.activity.Record(ctx, session.Actor(), entity.ActivitySessionEnd, appt.PatientName, map[string]any{
		"appointment_id": appt.ID.String(),
		"doctor":         appt.DoctorName,
		"diagnosis":      record.Diagnosis,
		"cost":           cost.StringFixed(2),
	})
	u.notifier.Publish(ctx, appt.AppointmentDate)

	return converter.AppointmentToResponse(appt), nil
}

// WatchQueue subscribes before reading the first snapshot; a change landing in between
// then shows up as an extra signal instead of being lost.
func (u *queueUsecase) WatchQueue(ctx context.Context) (<-chan *dto.QueueResponse, error) {
	day := u.clock.Today()
	signals, stop, err := u.notifier.Subscribe(ctx, day)
	if err != nil {
		return nil, err
	}

	first, err := u.snapshot(ctx, day)
	if err != nil {
		stop()
		return nil, err
	}

	out := make(chan *dto.QueueResponse, 1)
	out <- first

	go func() {
		defer close(out)
		defer func() { stop() }()

		ticker := time.NewTicker(rolloverCheckInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-signals:
				if !ok {
					return
				}
			case <-ticker.C:
				today := u.clock.Today()
				if today == day {
					continue
				}
				// New clinic day: follow its channel, then read it.
				next, nextStop, err := u.notifier.Subscribe(ctx, today)
				if err != nil {
					u.log.Warnf("Failed to follow queue of %s: %+v", today, err)
					return
				}
				stop()
				day, signals, stop = today, next, nextStop
			}

			snap, err := u.snapshot(ctx, day)
			if err != nil {
				continue
			}
			select {
			case out <- snap:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
