package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/repository"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const compensationTimeout = 5 * time.Second

// slotKeeper pairs every appointment write that occupies a slot with its Redis reservation.
//
// Flow for a write:
// 1. Reserve the slot (atomic Lua script)
// 2. Write the appointment row
// 3. If the write fails -> compensate: release the reservation
//
// Redis being unreachable does not block bookings; the partial unique index on live
// slots still rejects a double booking.
type slotKeeper struct {
	log             *logrus.Logger
	reserver        SlotReserver
	appointmentRepo repository.AppointmentRepository
}

func newSlotKeeper(log *logrus.Logger, reserver SlotReserver, appointmentRepo repository.AppointmentRepository) *slotKeeper {
	return &slotKeeper{
		log:             log,
		reserver:        reserver,
		appointmentRepo: appointmentRepo,
	}
}

// place inserts a new appointment.
func (k *slotKeeper) place(ctx context.Context, db *gorm.DB, appt *entity.Appointment) error {
	reserved, err := k.claim(ctx, appt)
	if err != nil {
		return err
	}

	if err := k.appointmentRepo.Create(db, appt); err != nil {
		if reserved {
			k.compensate(appt)
		}
		if isDuplicateKeyError(err, constraintLiveSlot) {
			return ErrSlotUnavailable
		}
		k.log.Errorf("Failed to insert appointment %s: %+v", appt.ID, err)
		return err
	}
	return nil
}

// move saves an appointment whose doctor, date or time changed, then frees the old slot.
func (k *slotKeeper) move(ctx context.Context, db *gorm.DB, original, updated *entity.Appointment) error {
	reserved, err := k.claim(ctx, updated)
	if err != nil {
		return err
	}

	if err := k.appointmentRepo.Update(db, updated); err != nil {
		if reserved {
			k.compensate(updated)
		}
		if isDuplicateKeyError(err, constraintLiveSlot) {
			return ErrSlotUnavailable
		}
		k.log.Errorf("Failed to move appointment %s: %+v", updated.ID, err)
		return err
	}

	k.free(ctx, original)
	return nil
}

// revive moves a cancelled appointment back to a live status, claiming its slot again.
func (k *slotKeeper) revive(ctx context.Context, db *gorm.DB, appt *entity.Appointment, status entity.AppointmentStatus) error {
	reserved, err := k.claim(ctx, appt)
	if err != nil {
		return err
	}

	rows, err := k.appointmentRepo.UpdateStatus(db, appt.ID, []entity.AppointmentStatus{entity.StatusCancelled}, status)
	if err == nil && rows == 0 {
		err = ErrInvalidTransition
	}
	if err != nil {
		if reserved {
			k.compensate(appt)
		}
		if isDuplicateKeyError(err, constraintLiveSlot) {
			return ErrSlotUnavailable
		}
		if !errors.Is(err, ErrInvalidTransition) {
			k.log.Errorf("Failed to revive appointment %s: %+v", appt.ID, err)
		}
		return err
	}
	return nil
}

// claim reports whether a reservation was taken. A slot held by another appointment is
// ErrSlotUnavailable; other Redis errors are logged and tolerated.
func (k *slotKeeper) claim(ctx context.Context, appt *entity.Appointment) (bool, error) {
	err := k.reserver.Reserve(ctx, appt)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, service.ErrSlotTaken):
		return false, ErrSlotUnavailable
	default:
		k.log.Warnf("Slot reservation skipped for appointment %s, relying on database constraint: %+v", appt.ID, err)
		return false, nil
	}
}

// free drops the reservation of a slot the appointment no longer occupies.
func (k *slotKeeper) free(ctx context.Context, appt *entity.Appointment) {
	if err := k.reserver.Release(ctx, appt); err != nil {
		k.log.Warnf("Failed to release slot of appointment %s: %+v", appt.ID, err)
	}
}

// compensate runs detached from the request so a cancelled request still cleans up.
func (k *slotKeeper) compensate(appt *entity.Appointment) {
	syncCtx, cancel := context.WithTimeout(context.Background(), compensationTimeout)
	defer cancel()
	if err := k.reserver.Release(syncCtx, appt); err != nil {
		k.log.Errorf("CRITICAL: Failed to release slot reservation after DB failure for appointment %s: %+v", appt.ID, err)
	}
}
