package service

import (
	"context"
	"time"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

const activityWriteTimeout = 3 * time.Second

// ActivityService appends entries to the staff activity feed.
// Recording never fails the calling operation; write errors are logged.
type ActivityService interface {
	Record(ctx context.Context, actor entity.ActivityActor, action string, target string, metadata map[string]any)
}

type activityService struct {
	log          *logrus.Logger
	activityRepo repository.ActivityLogRepository
	now          func() time.Time
}

func NewActivityService(log *logrus.Logger, activityRepo repository.ActivityLogRepository) ActivityService {
	return &activityService{
		log:          log,
		activityRepo: activityRepo,
		now:          time.Now,
	}
}

// Record writes with its own deadline so a cancelled request still leaves a trail.
func (s *activityService) Record(ctx context.Context, actor entity.ActivityActor, action string, target string, metadata map[string]any) {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), activityWriteTimeout)
	defer cancel()

	entry := &entity.ActivityLog{
		User:      actor,
		Action:    action,
		Target:    target,
		Metadata:  metadata,
		Timestamp: s.now().UTC(),
	}

	if err := s.activityRepo.Create(writeCtx, entry); err != nil {
		s.log.WithFields(logrus.Fields{
			"action": action,
			"target": target,
		}).Warnf("Failed to record activity: %+v", err)
	}
}
