package repository

import (
	"context"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"
)

type ActivityLogRepository interface {
	Create(ctx context.Context, log *entity.ActivityLog) error
	FindRecent(ctx context.Context, limit int64) ([]entity.ActivityLog, error)
}
