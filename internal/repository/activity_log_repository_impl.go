package repository

import (
	"context"
	"fmt"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"
	domainRepo "github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ActivityLogCollection = "activity_logs"

type activityLogRepository struct {
	collection *mongo.Collection
}

func NewActivityLogRepository(client *mongo.Client, dbName string) domainRepo.ActivityLogRepository {
	return &activityLogRepository{
		collection: client.Database(dbName).Collection(ActivityLogCollection),
	}
}

func (r *activityLogRepository) Create(ctx context.Context, log *entity.ActivityLog) error {
	if _, err := r.collection.InsertOne(ctx, log); err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

// FindRecent returns the newest entries first.
func (r *activityLogRepository) FindRecent(ctx context.Context, limit int64) ([]entity.ActivityLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find activity logs: %w", err)
	}
	defer cursor.Close(ctx)

	logs := []entity.ActivityLog{}
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, fmt.Errorf("decode activity logs: %w", err)
	}
	return logs, nil
}
