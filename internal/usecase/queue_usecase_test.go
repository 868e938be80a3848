package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/delivery/dto"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type queueFixture struct {
	usecase     QueueUsecase
	pool        *txCounter
	appointment *mockAppointmentRepository
	doctor      *mockDoctorRepository
	record      *mockMedicalRecordRepository
	activity    *activityRecorder
	notifier    *memoryNotifier
}

func newQueueFixture(t *testing.T, clock Clock) *queueFixture {
	db, pool := testDB(t)
	f := &queueFixture{
		pool:        pool,
		appointment: &mockAppointmentRepository{},
		doctor:      &mockDoctorRepository{},
		record:      &mockMedicalRecordRepository{},
		activity:    &activityRecorder{},
		notifier:    newMemoryNotifier(),
	}
	f.usecase = NewQueueUsecase(db, quietLogger(), f.appointment, f.doctor, f.record, f.activity, f.notifier, clock)
	return f
}

func todaysAppointment(status entity.AppointmentStatus, at string) *entity.Appointment {
	return &entity.Appointment{
		ID:              uuid.New(),
		PatientID:       uuid.New(),
		PatientName:     "Layla Hassan",
		DoctorID:        uuid.New(),
		DoctorName:      "Dr. Omar",
		AppointmentDate: "2024-03-10",
		AppointmentTime: at,
		Status:          status,
	}
}

func TestStartSession(t *testing.T) {
	tests := []struct {
		name    string
		status  entity.AppointmentStatus
		rows    int64
		wantErr error
	}{
		{"scheduled", entity.StatusScheduled, 1, nil},
		{"already in session", entity.StatusInSession, 0, ErrInvalidTransition},
		{"completed", entity.StatusCompleted, 0, ErrInvalidTransition},
		{"cancelled", entity.StatusCancelled, 0, ErrInvalidTransition},
		{"status changed concurrently", entity.StatusScheduled, 0, ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newQueueFixture(t, pinnedClock())
			appt := todaysAppointment(tt.status, "10:30")

			f.appointment.On("FindByID", mock.Anything, appt.ID).Return(appt, nil)
			if tt.status == entity.StatusScheduled {
				f.appointment.On("UpdateStatus", mock.Anything, appt.ID,
					[]entity.AppointmentStatus{entity.StatusScheduled}, entity.StatusInSession).Return(tt.rows, nil)
			}

			got, err := f.usecase.StartSession(context.Background(), staffSession(), appt.ID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				assert.Empty(t, f.notifier.publishedDates())
			} else {
				require.NoError(t, err)
				assert.Equal(t, string(entity.StatusInSession), got.Status)
				assert.Equal(t, []string{entity.ActivitySessionStart}, f.activity.recorded())
				assert.Equal(t, []string{"2024-03-10"}, f.notifier.publishedDates())
			}
			if tt.status != entity.StatusScheduled {
				f.appointment.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
			f.appointment.AssertExpectations(t)
		})
	}

	t.Run("not found", func(t *testing.T) {
		f := newQueueFixture(t, pinnedClock())
		id := uuid.New()
		f.appointment.On("FindByID", mock.Anything, id).Return(nil, nil)

		_, err := f.usecase.StartSession(context.Background(), staffSession(), id)
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}

func TestEndSession(t *testing.T) {
	req := &dto.MedicalRecordRequest{
		Diagnosis:     "Seasonal allergy",
		Notes:         "Mild",
		TreatmentPlan: "Antihistamine",
	}

	t.Run("writes the record and completes at the doctor's cost", func(t *testing.T) {
		f := newQueueFixture(t, pinnedClock())
		appt := todaysAppointment(entity.StatusInSession, "09:30")
		cost := decimal.RequireFromString("150.00")
		doctor := &entity.Doctor{ID: appt.DoctorID, Name: appt.DoctorName, ServiceCost: cost}

		f.appointment.On("FindByIDForUpdate", mock.Anything, appt.ID).Return(appt, nil)
		f.doctor.On("FindByID", mock.Anything, appt.DoctorID).Return(doctor, nil)
		f.record.On("Create", mock.Anything, mock.MatchedBy(func(r *entity.MedicalRecord) bool {
			return r.PatientID == appt.PatientID &&
				r.AppointmentID != nil && *r.AppointmentID == appt.ID &&
				r.Date == "2024-03-10" &&
				r.Doctor == "Dr. Omar" &&
				r.Diagnosis == "Seasonal allergy" &&
				r.Notes == "Notes: Mild\nTreatment plan: Antihistamine"
		})).Return(nil).Once()
		f.appointment.On("Complete", mock.Anything, appt.ID, cost).Return(int64(1), nil).Once()

		got, err := f.usecase.EndSession(context.Background(), staffSession(), appt.ID, req)
		require.NoError(t, err)

		assert.Equal(t, string(entity.StatusCompleted), got.Status)
		require.NotNil(t, got.Cost)
		assert.Equal(t, "150.00", got.Cost.StringFixed(2))
		assert.Equal(t, 1, f.pool.commits())
		assert.Equal(t, []string{entity.ActivitySessionEnd}, f.activity.recorded())
		assert.Equal(t, []string{"2024-03-10"}, f.notifier.publishedDates())
		f.record.AssertExpectations(t)
		f.appointment.AssertExpectations(t)
	})

	t.Run("deleted doctor completes at zero", func(t *testing.T) {
		f := newQueueFixture(t, pinnedClock())
		appt := todaysAppointment(entity.StatusInSession, "09:30")

		f.appointment.On("FindByIDForUpdate", mock.Anything, appt.ID).Return(appt, nil)
		f.doctor.On("FindByID", mock.Anything, appt.DoctorID).Return(nil, nil)
		f.record.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.appointment.On("Complete", mock.Anything, appt.ID, decimal.Zero).Return(int64(1), nil)

		got, err := f.usecase.EndSession(context.Background(), staffSession(), appt.ID, req)
		require.NoError(t, err)
		require.NotNil(t, got.Cost)
		assert.True(t, got.Cost.IsZero())
	})

	for _, status := range []entity.AppointmentStatus{entity.StatusScheduled, entity.StatusCompleted, entity.StatusCancelled} {
		t.Run("refused from "+string(status), func(t *testing.T) {
			f := newQueueFixture(t, pinnedClock())
			appt := todaysAppointment(status, "09:30")
			f.appointment.On("FindByIDForUpdate", mock.Anything, appt.ID).Return(appt, nil)

			_, err := f.usecase.EndSession(context.Background(), staffSession(), appt.ID, req)
			assert.ErrorIs(t, err, ErrInvalidTransition)
			f.record.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			assert.Zero(t, f.pool.commits())
		})
	}

	t.Run("second record for the session is refused", func(t *testing.T) {
		f := newQueueFixture(t, pinnedClock())
		appt := todaysAppointment(entity.StatusInSession, "09:30")

		f.appointment.On("FindByIDForUpdate", mock.Anything, appt.ID).Return(appt, nil)
		f.doctor.On("FindByID", mock.Anything, appt.DoctorID).Return(nil, nil)
		f.record.On("Create", mock.Anything, mock.Anything).Return(uniqueViolation(constraintRecordSession))

		_, err := f.usecase.EndSession(context.Background(), staffSession(), appt.ID, req)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		f.appointment.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
		assert.Zero(t, f.pool.commits())
		assert.Empty(t, f.activity.recorded())
	})
}

func receiveQueue(t *testing.T, updates <-chan *dto.QueueResponse) *dto.QueueResponse {
	t.Helper()
	select {
	case snap, ok := <-updates:
		require.True(t, ok, "queue stream closed")
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("no queue update")
		return nil
	}
}

func TestWatchQueue(t *testing.T) {
	t.Run("change between subscribe and first read is delivered", func(t *testing.T) {
		f := newQueueFixture(t, pinnedClock())
		booked := todaysAppointment(entity.StatusScheduled, "10:30")

		// A booking commits while the first snapshot is being read.
		f.appointment.On("FindAll", mock.Anything, mock.Anything).Return([]entity.Appointment{}, nil).Once().
			Run(func(mock.Arguments) { f.notifier.Publish(context.Background(), "2024-03-10") })
		f.appointment.On("FindAll", mock.Anything, mock.Anything).Return([]entity.Appointment{*booked}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		updates, err := f.usecase.WatchQueue(ctx)
		require.NoError(t, err)

		first := receiveQueue(t, updates)
		assert.Empty(t, first.Waiting)

		next := receiveQueue(t, updates)
		require.Len(t, next.Waiting, 1)
		assert.Equal(t, booked.ID, next.Waiting[0].ID)
	})

	t.Run("follows the next clinic day", func(t *testing.T) {
		interval := rolloverCheckInterval
		rolloverCheckInterval = 10 * time.Millisecond
		t.Cleanup(func() { rolloverCheckInterval = interval })

		var now atomic.Int64
		now.Store(time.Date(2024, 3, 10, 20, 59, 0, 0, time.UTC).UnixNano())
		clock := NewClockAt(clinicZone, func() time.Time { return time.Unix(0, now.Load()) })

		f := newQueueFixture(t, clock)
		f.appointment.On("FindAll", mock.Anything, mock.MatchedBy(func(filter *entity.AppointmentFilter) bool {
			return filter.DateFrom == "2024-03-10"
		})).Return([]entity.Appointment{}, nil)
		f.appointment.On("FindAll", mock.Anything, mock.MatchedBy(func(filter *entity.AppointmentFilter) bool {
			return filter.DateFrom == "2024-03-11" && filter.DateTo == "2024-03-11"
		})).Return([]entity.Appointment{}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		updates, err := f.usecase.WatchQueue(ctx)
		require.NoError(t, err)
		assert.Equal(t, "2024-03-10", receiveQueue(t, updates).Date)
		assert.Equal(t, 1, f.notifier.subscribers("2024-03-10"))

		// Midnight in the clinic zone.
		now.Store(time.Date(2024, 3, 10, 21, 0, 0, 0, time.UTC).UnixNano())
		assert.Equal(t, "2024-03-11", receiveQueue(t, updates).Date)
		assert.Equal(t, 0, f.notifier.subscribers("2024-03-10"))
		assert.Equal(t, 1, f.notifier.subscribers("2024-03-11"))
	})

	t.Run("subscription failure is returned before any read", func(t *testing.T) {
		f := newQueueFixture(t, pinnedClock())
		f.notifier.subscribeErr = errors.New("redis unavailable")

		_, err := f.usecase.WatchQueue(context.Background())
		assert.Error(t, err)
		f.appointment.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
	})

	t.Run("stream ends with the context", func(t *testing.T) {
		f := newQueueFixture(t, pinnedClock())
		f.appointment.On("FindAll", mock.Anything, mock.Anything).Return([]entity.Appointment{}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		updates, err := f.usecase.WatchQueue(ctx)
		require.NoError(t, err)
		receiveQueue(t, updates)

		cancel()
		assert.Eventually(t, func() bool {
			select {
			case _, ok := <-updates:
				return !ok
			default:
				return false
			}
		}, 2*time.Second, 10*time.Millisecond)
		assert.Eventually(t, func() bool { return f.notifier.subscribers("2024-03-10") == 0 }, time.Second, 10*time.Millisecond)
	})
}
