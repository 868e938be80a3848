package usecase

import (
	"context"
	"errors"
	"time"

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
	ErrAppointmentNotFound    = errors.New("appointment not found")
	ErrInvalidTransition      = errors.New("appointment status does not allow this action")
	ErrAppointmentNotEditable = errors.New("only scheduled appointments can be moved to another slot")
)

// SlotReserver claims a doctor/date/time slot for an appointment outside the database.
type SlotReserver interface {
	Reserve(ctx context.Context, appt *entity.Appointment) error
	Release(ctx context.Context, appt *entity.Appointment) error
}

// SchedulingPolicy carries the clinic-wide booking settings.
type SchedulingPolicy struct {
	Clock              Clock
	SlotStep           time.Duration
	CancelledFreesSlot bool
}

func (p SchedulingPolicy) slotOptions() scheduling.Options {
	return scheduling.Options{Step: p.SlotStep, CancelledFreesSlot: p.CancelledFreesSlot}
}

type AppointmentUsecase interface {
	CreateAppointment(ctx context.Context, session *entity.Session, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	ListAppointments(ctx context.Context, req *dto.AppointmentListRequest) (*dto.AppointmentListResponse, error)
	GetSummary(ctx context.Context, date string) (*dto.AppointmentSummaryResponse, error)
	UpdateAppointment(ctx context.Context, session *entity.Session, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	CancelAppointment(ctx context.Context, session *entity.Session, id uuid.UUID) (*dto.AppointmentResponse, error)
	ChangeStatus(ctx context.Context, session *entity.Session, id uuid.UUID, req *dto.ChangeStatusRequest) (*dto.AppointmentResponse, error)
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorRepository
	patientRepo     repository.PatientRepository
	slots           *slotKeeper
	activity        service.ActivityService
	notifier        service.QueueNotifier
	policy          SchedulingPolicy
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
	reserver SlotReserver,
	activity service.ActivityService,
	notifier service.QueueNotifier,
	policy SchedulingPolicy,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		patientRepo:     patientRepo,
		slots:           newSlotKeeper(log, reserver, appointmentRepo),
		activity:        activity,
		notifier:        notifier,
		policy:          policy,
	}
}

// CreateAppointment books a slot for an existing patient.
//
// Flow:
// 1. Load patient and doctor, copying their display fields
// 2. Check the slot against the doctor's generated slots
// 3. Reserve the slot in Redis, insert, compensate on failure
func (u *appointmentUsecase) CreateAppointment(ctx context.Context, session *entity.Session, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	db := u.db.WithContext(ctx)

	patient, err := u.patientRepo.FindByID(db, req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", req.PatientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

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
		Reason:          req.Reason,
	}

	if err := u.slots.place(ctx, db, appt); err != nil {
		return nil, err
	}

	u.activity.Record(ctx, session.Actor(), entity.ActivityAppointmentBook, patient.Name, map[string]any{
		"appointment_id": appt.ID.String(),
		"doctor":         doctor.Name,
		"date":           appt.AppointmentDate,
		"time":           appt.AppointmentTime,
	})
	u.notifier.Publish(ctx, appt.AppointmentDate)

	return converter.AppointmentToResponse(appt), nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appt, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appt == nil {
		return nil, ErrAppointmentNotFound
	}
	return converter.AppointmentToResponse(appt), nil
}

// ListAppointments returns the appointments of the day, week (Sunday first) or month around a date.
// Cancelled appointments are hidden unless a status filter asks for them.
func (u *appointmentUsecase) ListAppointments(ctx context.Context, req *dto.AppointmentListRequest) (*dto.AppointmentListResponse, error) {
	view := req.View
	if view == "" {
		view = dto.ViewDay
	}

	day, err := u.resolveDate(req.Date)
	if err != nil {
		return nil, err
	}
	from, to := viewRange(view, day)

	filter := &entity.AppointmentFilter{
		DateFrom: from,
		DateTo:   to,
		DoctorID: req.DoctorID,
	}
	for _, s := range req.Statuses {
		filter.Statuses = append(filter.Statuses, entity.AppointmentStatus(s))
	}
	if len(filter.Statuses) == 0 {
		filter.ExcludeCancelled = true
	}

	appointments, err := u.appointmentRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list appointments %s..%s: %+v", from, to, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		View:         view,
		From:         from,
		To:           to,
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// GetSummary counts non-cancelled appointments in the day, week and month around date.
func (u *appointmentUsecase) GetSummary(ctx context.Context, date string) (*dto.AppointmentSummaryResponse, error) {
	day, err := u.resolveDate(date)
	if err != nil {
		return nil, err
	}

	weekFrom, weekTo := viewRange(dto.ViewWeek, day)
	monthFrom, monthTo := viewRange(dto.ViewMonth, day)
	from, to := min(weekFrom, monthFrom), max(weekTo, monthTo)

	appointments, err := u.appointmentRepo.FindAll(u.db.WithContext(ctx), &entity.AppointmentFilter{
		DateFrom:         from,
		DateTo:           to,
		ExcludeCancelled: true,
	})
	if err != nil {
		u.log.Warnf("Failed to load appointments for summary: %+v", err)
		return nil, err
	}

	dayKey := day.Format(entity.DateLayout)
	return &dto.AppointmentSummaryResponse{
		Date:  dayKey,
		Day:   countBetween(appointments, dayKey, dayKey),
		Week:  countBetween(appointments, weekFrom, weekTo),
		Month: countBetween(appointments, monthFrom, monthTo),
	}, nil
}

// UpdateAppointment edits patient, doctor, date, time or reason.
// Moving to another slot re-runs the booking checks and swaps the reservation.
func (u *appointmentUsecase) UpdateAppointment(ctx context.Context, session *entity.Session, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	db := u.db.WithContext(ctx)

	appt, err := u.appointmentRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appt == nil {
		return nil, ErrAppointmentNotFound
	}

	original := *appt
	updated := *appt

	if req.PatientID != nil && *req.PatientID != appt.PatientID {
		patient, err := u.patientRepo.FindByID(db, *req.PatientID)
		if err != nil {
			u.log.Warnf("Failed to find patient %s: %+v", *req.PatientID, err)
			return nil, err
		}
		if patient == nil {
			return nil, ErrPatientNotFound
		}
		updated.PatientID = patient.ID
		updated.PatientName = patient.Name
		updated.PatientAvatar = patient.Avatar
	}

	var doctor *entity.Doctor
	if req.DoctorID != nil && *req.DoctorID != appt.DoctorID {
		doctor, err = u.doctorRepo.FindByID(db, *req.DoctorID)
		if err != nil {
			u.log.Warnf("Failed to find doctor %s: %+v", *req.DoctorID, err)
			return nil, err
		}
		if doctor == nil {
			return nil, ErrDoctorNotFound
		}
		updated.DoctorID = doctor.ID
		updated.DoctorName = doctor.Name
	}
	if req.Date != nil {
		updated.AppointmentDate = *req.Date
	}
	if req.Time != nil {
		updated.AppointmentTime = *req.Time
	}
	if req.Reason != nil {
		updated.Reason = *req.Reason
	}

	slotChanged := updated.SlotKey() != original.SlotKey()
	if !slotChanged {
		if err := u.appointmentRepo.Update(db, &updated); err != nil {
			u.log.Warnf("Failed to update appointment %s: %+v", id, err)
			return nil, err
		}
	} else {
		if !original.IsScheduled() {
			return nil, ErrAppointmentNotEditable
		}
		if doctor == nil {
			doctor, err = u.doctorRepo.FindByID(db, updated.DoctorID)
			if err != nil {
				u.log.Warnf("Failed to find doctor %s: %+v", updated.DoctorID, err)
				return nil, err
			}
			if doctor == nil {
				return nil, ErrDoctorNotFound
			}
		}

		existing, err := u.appointmentRepo.FindByDoctorAndDate(db, updated.DoctorID, updated.AppointmentDate)
		if err != nil {
			u.log.Warnf("Failed to load appointments of doctor %s: %+v", updated.DoctorID, err)
			return nil, err
		}
		want := slotRequest{doctor: doctor, date: updated.AppointmentDate, time: updated.AppointmentTime, ignore: appt.ID}
		if err := checkBookable(u.policy.Clock, want, existing, u.policy.slotOptions()); err != nil {
			return nil, err
		}

		if err := u.slots.move(ctx, db, &original, &updated); err != nil {
			return nil, err
		}
	}

	u.activity.Record(ctx, session.Actor(), entity.ActivityAppointmentUpdate, updated.PatientName, map[string]any{
		"appointment_id": updated.ID.String(),
		"doctor":         updated.DoctorName,
		"date":           updated.AppointmentDate,
		"time":           updated.AppointmentTime,
	})
	u.notifier.Publish(ctx, updated.AppointmentDate)
	if original.AppointmentDate != updated.AppointmentDate {
		u.notifier.Publish(ctx, original.AppointmentDate)
	}

	return converter.AppointmentToResponse(&updated), nil
}

// CancelAppointment is allowed from any status except completed and cancelled.
func (u *appointmentUsecase) CancelAppointment(ctx context.Context, session *entity.Session, id uuid.UUID) (*dto.AppointmentResponse, error) {
	db := u.db.WithContext(ctx)

	appt, err := u.appointmentRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appt == nil {
		return nil, ErrAppointmentNotFound
	}
	if !appt.CanCancel() {
		return nil, ErrInvalidTransition
	}

	rows, err := u.appointmentRepo.UpdateStatus(db, id, []entity.AppointmentStatus{appt.Status}, entity.StatusCancelled)
	if err != nil {
		u.log.Warnf("Failed to cancel appointment %s: %+v", id, err)
		return nil, err
	}
	if rows == 0 {
		// Status changed since it was read
		return nil, ErrInvalidTransition
	}
	appt.Status = entity.StatusCancelled

	if u.policy.CancelledFreesSlot {
		u.slots.free(ctx, appt)
	}

	u.activity.Record(ctx, session.Actor(), entity.ActivityAppointmentCancel, appt.PatientName, map[string]any{
		"appointment_id": appt.ID.String(),
		"doctor":         appt.DoctorName,
		"date":           appt.AppointmentDate,
		"time":           appt.AppointmentTime,
	})
	u.notifier.Publish(ctx, appt.AppointmentDate)

	return converter.AppointmentToResponse(appt), nil
}

// ChangeStatus sets any status without transition checks. Reviving a cancelled
// appointment claims its slot again.
func (u *appointmentUsecase) ChangeStatus(ctx context.Context, session *entity.Session, id uuid.UUID, req *dto.ChangeStatusRequest) (*dto.AppointmentResponse, error) {
	db := u.db.WithContext(ctx)
	status := entity.AppointmentStatus(req.Status)

	appt, err := u.appointmentRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appt == nil {
		return nil, ErrAppointmentNotFound
	}
	if appt.Status == status {
		return converter.AppointmentToResponse(appt), nil
	}

	previous := appt.Status
	if appt.IsCancelled() {
		if err := u.slots.revive(ctx, db, appt, status); err != nil {
			return nil, err
		}
	} else {
		if _, err := u.appointmentRepo.UpdateStatus(db, id, nil, status); err != nil {
			u.log.Warnf("Failed to change status of appointment %s: %+v", id, err)
			return nil, err
		}
	}
	appt.Status = status

	if status == entity.StatusCancelled && u.policy.CancelledFreesSlot {
		u.slots.free(ctx, appt)
	}

	u.activity.Record(ctx, session.Actor(), entity.ActivityAppointmentStatus, appt.PatientName, map[string]any{
		"appointment_id": appt.ID.String(),
		"from":           string(previous),
		"to":             string(status),
	})
	u.notifier.Publish(ctx, appt.AppointmentDate)

	return converter.AppointmentToResponse(appt), nil
}

func (u *appointmentUsecase) resolveDate(date string) (time.Time, error) {
	if date == "" {
		date = u.policy.Clock.Today()
	}
	day, err := u.policy.Clock.ParseDate(date)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return day, nil
}

// viewRange returns the inclusive yyyy-MM-dd bounds of the day, week or month holding day.
// Weeks start on Sunday.
func viewRange(view string, day time.Time) (string, string) {
	switch view {
	case dto.ViewWeek:
		start := day.AddDate(0, 0, -int(day.Weekday()))
		return start.Format(entity.DateLayout), start.AddDate(0, 0, 6).Format(entity.DateLayout)
	case dto.ViewMonth:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		return start.Format(entity.DateLayout), start.AddDate(0, 1, -1).Format(entity.DateLayout)
	default:
		key := day.Format(entity.DateLayout)
		return key, key
	}
}

func countBetween(appointments []entity.Appointment, from, to string) int {
	count := 0
	for i := range appointments {
		date := appointments[i].AppointmentDate
		if date >= from && date <= to {
			count++
		}
	}
	return count
}
