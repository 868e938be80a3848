package usecase

import (
	"context"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/converter"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/delivery/dto"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

const (
	DefaultActivityLimit = 50
	MaxActivityLimit     = 200
)

type ActivityLogUsecase interface {
	// ListRecent returns the newest entries first.
	ListRecent(ctx context.Context, limit int) (*dto.ActivityLogListResponse, error)
}

type activityLogUsecase struct {
	log             *logrus.Logger
	activityLogRepo repository.ActivityLogRepository
}

func NewActivityLogUsecase(log *logrus.Logger, activityLogRepo repository.ActivityLogRepository) ActivityLogUsecase {
	return &activityLogUsecase{
		log:             log,
		activityLogRepo: activityLogRepo,
	}
}

func (u *activityLogUsecase) ListRecent(ctx context.Context, limit int) (*dto.ActivityLogListResponse, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	if limit > MaxActivityLimit {
		limit = MaxActivityLimit
	}

	logs, err := u.activityLogRepo.FindRecent(ctx, int64(limit))
	if err != nil {
		u.log.Warnf("Failed to find activity logs: %+v", err)
		return nil, err
	}

	return &dto.ActivityLogListResponse{
		Logs:  converter.ActivityLogsToResponses(logs),
		Total: len(logs),
	}, nil
}
