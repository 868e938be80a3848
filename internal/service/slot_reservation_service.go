package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/repository"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// =============================================================================
// Errors
// =============================================================================

// ErrSlotTaken is returned when another appointment already holds the slot
var ErrSlotTaken = errors.New("slot is already reserved")

// reserveSlotScript claims a slot key for an owner.
// Re-claiming by the same owner succeeds and refreshes the TTL, so an edit that keeps
// its slot does not conflict with itself.
//
// Returns 1 when the owner holds the slot, 0 when someone else does.
var reserveSlotScript = redis.NewScript(`
	local current = redis.call('GET', KEYS[1])
	if current and current ~= ARGV[1] then
		return 0
	end
	redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
	return 1
`)

// releaseSlotScript deletes a slot key only if the owner still holds it.
var releaseSlotScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// =============================================================================
// Constants
// =============================================================================

const (
	// RedisSlotKeyPrefix is followed by <doctor>:<date>:<time>
	RedisSlotKeyPrefix = "slot:reservation:"

	// Batch size for startup sync
	syncBatchSize = 500
)

// =============================================================================
// Types
// =============================================================================

// SlotReservationService mirrors occupied appointment slots into Redis so that two
// concurrent bookings for the same doctor, date and time cannot both pass.
//
// PostgreSQL stays the source of truth: a partial unique index rejects a second live
// appointment for the same slot, and SyncOnStartup rebuilds the keys from it.
type SlotReservationService struct {
	db                 *gorm.DB
	redisClient        *redis.Client
	log                *logrus.Logger
	appointmentRepo    repository.AppointmentRepository
	loc                *time.Location
	cancelledFreesSlot bool
}

// =============================================================================
// Constructor
// =============================================================================

// NewSlotReservationService holds no process-local state: every key operation is a
// single Redis command or Lua script, so instances share one view of the slots.
func NewSlotReservationService(
	db *gorm.DB,
	redisClient *redis.Client,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	loc *time.Location,
	cancelledFreesSlot bool,
) *SlotReservationService {
	return &SlotReservationService{
		db:                 db,
		redisClient:        redisClient,
		log:                log,
		appointmentRepo:    appointmentRepo,
		loc:                loc,
		cancelledFreesSlot: cancelledFreesSlot,
	}
}

// =============================================================================
// Public Methods
// =============================================================================

// SyncOnStartup rebuilds reservation keys for every appointment from today on.
// Pipelines are created and executed per batch.
func (s *SlotReservationService) SyncOnStartup(ctx context.Context) error {
	s.log.Info("Starting slot reservation re-sync from database...")
	startTime := time.Now()

	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		s.log.Warnf("Redis is not available, skipping sync: %+v", err)
		return fmt.Errorf("redis ping failed: %w", err)
	}

	today := time.Now().In(s.loc).Format(entity.DateLayout)
	offset := 0
	totalSynced := 0

	for {
		appointments, err := s.appointmentRepo.FindOccupying(s.db.WithContext(ctx), today, !s.cancelledFreesSlot, offset, syncBatchSize)
		if err != nil {
			s.log.Errorf("Failed to query appointments at offset %d: %+v", offset, err)
			return fmt.Errorf("query appointments at offset %d: %w", offset, err)
		}

		if len(appointments) == 0 {
			if offset == 0 {
				s.log.Info("No upcoming appointments found for sync")
			}
			break
		}

		pipe := s.redisClient.TxPipeline()
		for i := range appointments {
			appt := &appointments[i]
			pipe.Set(ctx, slotKey(appt.DoctorID.String(), appt.AppointmentDate, appt.AppointmentTime), appt.ID.String(), s.calculateTTL(appt.AppointmentDate))
		}

		if _, err := pipe.Exec(ctx); err != nil {
			s.log.Errorf("Failed to execute pipeline for batch at offset %d: %+v", offset, err)
			return fmt.Errorf("pipeline exec at offset %d: %w", offset, err)
		}

		totalSynced += len(appointments)
		s.log.Debugf("Synced batch: %d reservations", len(appointments))

		if len(appointments) < syncBatchSize {
			break
		}
		offset += syncBatchSize

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	s.log.Infof("Slot reservation re-sync completed: %d reservations synced in %v", totalSynced, time.Since(startTime))
	return nil
}

// Reserve atomically claims the slot of an appointment.
func (s *SlotReservationService) Reserve(ctx context.Context, appt *entity.Appointment) error {
	key := slotKey(appt.DoctorID.String(), appt.AppointmentDate, appt.AppointmentTime)
	ttl := s.calculateTTL(appt.AppointmentDate)

	result, err := reserveSlotScript.Run(ctx, s.redisClient, []string{key}, appt.ID.String(), ttl.Milliseconds()).Int()
	if err != nil {
		s.log.Warnf("Failed Lua script reserve for slot %s: %+v", key, err)
		return fmt.Errorf("lua reserve slot %s: %w", key, err)
	}

	if result == 0 {
		return ErrSlotTaken
	}

	s.log.Debugf("Reserved slot %s for appointment %s", key, appt.ID)
	return nil
}

// Release frees the slot held by an appointment. Keys held by another owner are left alone.
func (s *SlotReservationService) Release(ctx context.Context, appt *entity.Appointment) error {
	key := slotKey(appt.DoctorID.String(), appt.AppointmentDate, appt.AppointmentTime)

	if err := releaseSlotScript.Run(ctx, s.redisClient, []string{key}, appt.ID.String()).Err(); err != nil {
		s.log.Warnf("Failed to release slot %s: %+v", key, err)
		return fmt.Errorf("release slot %s: %w", key, err)
	}

	s.log.Debugf("Released slot %s (appointment %s)", key, appt.ID)
	return nil
}

// =============================================================================
// Private Helper Methods
// =============================================================================

func slotKey(doctorID, date, clock string) string {
	return fmt.Sprintf("%s%s:%s:%s", RedisSlotKeyPrefix, doctorID, date, clock)
}

// calculateTTL keeps a reservation until the end of the day after the appointment.
func (s *SlotReservationService) calculateTTL(date string) time.Duration {
	day, err := time.ParseInLocation(entity.DateLayout, date, s.loc)
	if err != nil {
		return 1 * time.Minute
	}
	ttl := time.Until(day.AddDate(0, 0, 2))

	if ttl <= 0 {
		// Past date - short TTL for cleanup
		return 1 * time.Minute
	}

	return ttl
}
