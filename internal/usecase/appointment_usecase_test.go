package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/delivery/dto"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type appointmentFixture struct {
	usecase     AppointmentUsecase
	appointment *mockAppointmentRepository
	doctor      *mockDoctorRepository
	patient     *mockPatientRepository
	reserver    *mockSlotReserver
	activity    *activityRecorder
	notifier    *memoryNotifier
}

func newAppointmentFixture(t *testing.T, cancelledFreesSlot bool) *appointmentFixture {
	db, _ := testDB(t)
	f := &appointmentFixture{
		appointment: &mockAppointmentRepository{},
		doctor:      &mockDoctorRepository{},
		patient:     &mockPatientRepository{},
		reserver:    &mockSlotReserver{},
		activity:    &activityRecorder{},
		notifier:    newMemoryNotifier(),
	}
	policy := SchedulingPolicy{
		Clock:              pinnedClock(),
		SlotStep:           30 * time.Minute,
		CancelledFreesSlot: cancelledFreesSlot,
	}
	f.usecase = NewAppointmentUsecase(db, quietLogger(), f.appointment, f.doctor, f.patient, f.reserver, f.activity, f.notifier, policy)
	return f
}

// Monday 2024-03-11, the day after the pinned clock.
func mondayAppointment(doctor *entity.Doctor, status entity.AppointmentStatus, at string) *entity.Appointment {
	return &entity.Appointment{
		ID:              uuid.New(),
		PatientID:       uuid.New(),
		PatientName:     "Layla Hassan",
		DoctorID:        doctor.ID,
		DoctorName:      doctor.Name,
		AppointmentDate: "2024-03-11",
		AppointmentTime: at,
		Status:          status,
	}
}

func atTime(clock string) any {
	return mock.MatchedBy(func(appt *entity.Appointment) bool {
		return appt.AppointmentTime == clock
	})
}

func TestCancelAppointment(t *testing.T) {
	tests := []struct {
		name      string
		status    entity.AppointmentStatus
		freesSlot bool
		wantErr   error
	}{
		{"scheduled", entity.StatusScheduled, false, nil},
		{"in session", entity.StatusInSession, false, nil},
		{"scheduled frees slot", entity.StatusScheduled, true, nil},
		{"completed", entity.StatusCompleted, false, ErrInvalidTransition},
		{"already cancelled", entity.StatusCancelled, false, ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAppointmentFixture(t, tt.freesSlot)
			appt := mondayAppointment(sundayDoctor(), tt.status, "09:30")

			f.appointment.On("FindByID", mock.Anything, appt.ID).Return(appt, nil)
			f.appointment.On("UpdateStatus", mock.Anything, appt.ID,
				[]entity.AppointmentStatus{tt.status}, entity.StatusCancelled).Return(int64(1), nil)
			f.reserver.On("Release", mock.Anything, mock.Anything).Return(nil)

			got, err := f.usecase.CancelAppointment(context.Background(), staffSession(), appt.ID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				f.appointment.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				assert.Empty(t, f.activity.recorded())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, string(entity.StatusCancelled), got.Status)
			assert.Equal(t, []string{entity.ActivityAppointmentCancel}, f.activity.recorded())
			if tt.freesSlot {
				f.reserver.AssertNumberOfCalls(t, "Release", 1)
			} else {
				f.reserver.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
			}
		})
	}

	t.Run("status changed since read", func(t *testing.T) {
		f := newAppointmentFixture(t, false)
		appt := mondayAppointment(sundayDoctor(), entity.StatusScheduled, "09:30")
		f.appointment.On("FindByID", mock.Anything, appt.ID).Return(appt, nil)
		f.appointment.On("UpdateStatus", mock.Anything, appt.ID, mock.Anything, entity.StatusCancelled).Return(int64(0), nil)

		_, err := f.usecase.CancelAppointment(context.Background(), staffSession(), appt.ID)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestChangeStatus(t *testing.T) {
	doctor := sundayDoctor()

	t.Run("any live status can be set directly", func(t *testing.T) {
		f := newAppointmentFixture(t, false)
		appt := mondayAppointment(doctor, entity.StatusCompleted, "09:30")
		f.appointment.On("FindByID", mock.Anything, appt.ID).Return(appt, nil)
		f.appointment.On("UpdateStatus", mock.Anything, appt.ID,
			[]entity.AppointmentStatus(nil), entity.StatusScheduled).Return(int64(1), nil).Once()

		got, err := f.usecase.ChangeStatus(context.Background(), staffSession(), appt.ID, &dto.ChangeStatusRequest{Status: "scheduled"})
		require.NoError(t, err)
		assert.Equal(t, "scheduled", got.Status)
		f.reserver.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything)
		f.appointment.AssertExpectations(t)
	})

	t.Run("same status writes nothing", func(t *testing.T) {
		f := newAppointmentFixture(t, false)
		appt := mondayAppointment(doctor, entity.StatusInSession, "09:30")
		f.appointment.On("FindByID", mock.Anything, appt.ID).Return(appt, nil)

		got, err := f.usecase.ChangeStatus(context.Background(), staffSession(), appt.ID, &dto.ChangeStatusRequest{Status: "in-session"})
		require.NoError(t, err)
		assert.Equal(t, "in-session", got.Status)
		f.appointment.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, f.activity.recorded())
	})

	t.Run("reviving a cancelled appointment claims its slot", func(t *testing.T) {
		f := newAppointmentFixture(t, false)
		appt := mondayAppointment(doctor, entity.StatusCancelled, "09:30")
		f.appointment.On("FindByID", mock.Anything, appt.ID).Return(appt, nil)
		f.reserver.On("Reserve", mock.Anything, atTime("09:30")).Return(nil).Once()
		f.appointment.On("UpdateStatus", mock.Anything, appt.ID,
			[]entity.AppointmentStatus{entity.StatusCancelled}, entity.StatusScheduled).Return(int64(1), nil).Once()

		got, err := f.usecase.ChangeStatus(context.Background(), staffSession(), appt.ID, &dto.ChangeStatusRequest{Status: "scheduled"})
		require.NoError(t, err)
		assert.Equal(t, "scheduled", got.Status)
		f.reserver.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
		f.reserver.AssertExpectations(t)
		f.appointment.AssertExpectations(t)
	})

	t.Run("reviving onto a reserved slot is refused", func(t *testing.T) {
		f := newAppointmentFixture(t, false)
		appt := mondayAppointment(doctor, entity.StatusCancelled, "09:30")
		f.appointment.On("FindByID", mock.Anything, appt.ID).Return(appt, nil)
		f.reserver.On("Reserve", mock.Anything, mock.Anything).Return(service.ErrSlotTaken)

		_, err := f.usecase.ChangeStatus(context.Background(), staffSession(), appt.ID, &dto.ChangeStatusRequest{Status: "scheduled"})
		assert.ErrorIs(t, err, ErrSlotUnavailable)
		f.appointment.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("revive rejected by the database releases the reservation", func(t *testing.T) {
		f := newAppointmentFixture(t, false)
		appt := mondayAppointment(doctor, entity.StatusCancelled, "09:30")
		f.appointment.On("FindByID", mock.Anything, appt.ID).Return(appt, nil)
		f.reserver.On("Reserve", mock.Anything, mock.Anything).Return(nil)
		f.appointment.On("UpdateStatus", mock.Anything, appt.ID, mock.Anything, entity.StatusScheduled).
			Return(int64(0), uniqueViolation(constraintLiveSlot))
		f.reserver.On("Release", mock.Anything, atTime("09:30")).Return(nil).Once()

		_, err := f.usecase.ChangeStatus(context.Background(), staffSession(), appt.ID, &dto.ChangeStatusRequest{Status: "scheduled"})
		assert.ErrorIs(t, err, ErrSlotUnavailable)
		f.reserver.AssertExpectations(t)
		assert.Empty(t, f.notifier.publishedDates())
	})
}

func TestCreateAppointmentReservation(t *testing.T) {
	dbDown := errors.New("connection reset")
	redisDown := errors.New("dial tcp: connection refused")

	tests := []struct {
		name        string
		reserveErr  error
		createErr   error
		wantErr     error
		wantCreate  bool
		wantRelease bool
	}{
		{"reserved and inserted", nil, nil, nil, true, false},
		{"insert hits live slot index", nil, uniqueViolation(constraintLiveSlot), ErrSlotUnavailable, true, true},
		{"insert fails", nil, dbDown, dbDown, true, true},
		{"slot reserved by another booking", service.ErrSlotTaken, nil, ErrSlotUnavailable, false, false},
		{"redis down still books", redisDown, nil, nil, true, false},
		{"redis down and insert fails", redisDown, uniqueViolation(constraintLiveSlot), ErrSlotUnavailable, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAppointmentFixture(t, false)
			doctor := sundayDoctor()
			patient := &entity.Patient{ID: uuid.New(), Name: "Layla Hassan", Phone: "0501234567"}
			req := &dto.CreateAppointmentRequest{PatientID: patient.ID, DoctorID: doctor.ID, Date: "2024-03-11", Time: "09:30"}

			f.patient.On("FindByID", mock.Anything, patient.ID).Return(patient, nil)
			f.doctor.On("FindByID", mock.Anything, doctor.ID).Return(doctor, nil)
			f.appointment.On("FindByDoctorAndDate", mock.Anything, doctor.ID, "2024-03-11").Return([]entity.Appointment{}, nil)
			f.reserver.On("Reserve", mock.Anything, atTime("09:30")).Return(tt.reserveErr)
			f.appointment.On("Create", mock.Anything, atTime("09:30")).Return(tt.createErr)
			f.reserver.On("Release", mock.Anything, atTime("09:30")).Return(nil)

			got, err := f.usecase.CreateAppointment(context.Background(), staffSession(), req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, f.notifier.publishedDates())
			} else {
				require.NoError(t, err)
				assert.Equal(t, "scheduled", got.Status)
				assert.Equal(t, "Dr. Omar", got.DoctorName)
				assert.Equal(t, []string{"2024-03-11"}, f.notifier.publishedDates())
			}
			if tt.wantCreate {
				f.appointment.AssertNumberOfCalls(t, "Create", 1)
			} else {
				f.appointment.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			}
			if tt.wantRelease {
				f.reserver.AssertNumberOfCalls(t, "Release", 1)
			} else {
				f.reserver.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestUpdateAppointmentMovesReservation(t *testing.T) {
	newTime := "10:00"

	setup := func(t *testing.T, status entity.AppointmentStatus) (*appointmentFixture, *entity.Appointment) {
		f := newAppointmentFixture(t, false)
		doctor := sundayDoctor()
		appt := mondayAppointment(doctor, status, "09:30")
		f.appointment.On("FindByID", mock.Anything, appt.ID).Return(appt, nil)
		f.doctor.On("FindByID", mock.Anything, doctor.ID).Return(doctor, nil)
		// The appointment's own slot does not block the move.
		f.appointment.On("FindByDoctorAndDate", mock.Anything, doctor.ID, "2024-03-11").Return([]entity.Appointment{*appt}, nil)
		return f, appt
	}

	t.Run("claims the new slot then frees the old one", func(t *testing.T) {
		f, appt := setup(t, entity.StatusScheduled)
		f.reserver.On("Reserve", mock.Anything, atTime("10:00")).Return(nil).Once()
		f.appointment.On("Update", mock.Anything, atTime("10:00")).Return(nil).Once()
		f.reserver.On("Release", mock.Anything, atTime("09:30")).Return(nil).Once()

		got, err := f.usecase.UpdateAppointment(context.Background(), staffSession(), appt.ID, &dto.UpdateAppointmentRequest{Time: &newTime})
		require.NoError(t, err)
		assert.Equal(t, "10:00", got.Time)
		f.reserver.AssertExpectations(t)
		f.appointment.AssertExpectations(t)
	})

	t.Run("failed save gives back the new slot and keeps the old one", func(t *testing.T) {
		f, appt := setup(t, entity.StatusScheduled)
		f.reserver.On("Reserve", mock.Anything, atTime("10:00")).Return(nil)
		f.appointment.On("Update", mock.Anything, mock.Anything).Return(uniqueViolation(constraintLiveSlot))
		f.reserver.On("Release", mock.Anything, atTime("10:00")).Return(nil).Once()

		_, err := f.usecase.UpdateAppointment(context.Background(), staffSession(), appt.ID, &dto.UpdateAppointmentRequest{Time: &newTime})
		assert.ErrorIs(t, err, ErrSlotUnavailable)
		f.reserver.AssertNumberOfCalls(t, "Release", 1)
		f.reserver.AssertExpectations(t)
	})

	t.Run("only scheduled appointments move", func(t *testing.T) {
		f, appt := setup(t, entity.StatusInSession)

		_, err := f.usecase.UpdateAppointment(context.Background(), staffSession(), appt.ID, &dto.UpdateAppointmentRequest{Time: &newTime})
		assert.ErrorIs(t, err, ErrAppointmentNotEditable)
		f.reserver.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything)
	})
}
