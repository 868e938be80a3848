package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	accessTokenKeyPrefix  = "access_token"
	refreshTokenKeyPrefix = "refresh_token"
	revokeScanCount       = 100
)

// SessionStore keeps issued tokens in Redis. An access token is valid while its key
// exists; the key holds the session the request runs as.
type SessionStore interface {
	Save(ctx context.Context, session *entity.Session, refreshTokenID string, accessTTL, refreshTTL time.Duration) error
	// Load returns nil, nil for an unknown or revoked token.
	Load(ctx context.Context, userID uuid.UUID, tokenID string) (*entity.Session, error)
	// ConsumeRefresh deletes a refresh token and reports whether it existed.
	ConsumeRefresh(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error)
	Revoke(ctx context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}

type redisSessionStore struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewSessionStore(redisClient *redis.Client, log *logrus.Logger) SessionStore {
	return &redisSessionStore{
		redisClient: redisClient,
		log:         log,
	}
}

func accessKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("%s:%s:%s", accessTokenKeyPrefix, userID.String(), tokenID)
}

func refreshKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("%s:%s:%s", refreshTokenKeyPrefix, userID.String(), tokenID)
}

func (s *redisSessionStore) Save(ctx context.Context, session *entity.Session, refreshTokenID string, accessTTL, refreshTTL time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	pipe := s.redisClient.TxPipeline()
	pipe.Set(ctx, accessKey(session.UserID, session.TokenID), payload, accessTTL)
	pipe.Set(ctx, refreshKey(session.UserID, refreshTokenID), "valid", refreshTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warnf("Failed to store tokens in Redis: %+v", err)
		return err
	}
	return nil
}

func (s *redisSessionStore) Load(ctx context.Context, userID uuid.UUID, tokenID string) (*entity.Session, error) {
	payload, err := s.redisClient.Get(ctx, accessKey(userID, tokenID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var session entity.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

func (s *redisSessionStore) ConsumeRefresh(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	deleted, err := s.redisClient.Del(ctx, refreshKey(userID, tokenID)).Result()
	if err != nil {
		s.log.Warnf("Failed to delete refresh token: %+v", err)
		return false, err
	}
	return deleted > 0, nil
}

func (s *redisSessionStore) Revoke(ctx context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error {
	keys := []string{accessKey(userID, accessTokenID)}
	if refreshTokenID != "" {
		keys = append(keys, refreshKey(userID, refreshTokenID))
	}
	if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
		s.log.Warnf("Failed to delete tokens: %+v", err)
		return err
	}
	return nil
}

// RevokeAll removes every token of a user (password, role or permission change).
func (s *redisSessionStore) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	for _, prefix := range []string{accessTokenKeyPrefix, refreshTokenKeyPrefix} {
		pattern := fmt.Sprintf("%s:%s:*", prefix, userID.String())

		var keys []string
		iter := s.redisClient.Scan(ctx, 0, pattern, revokeScanCount).Iterator()
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			s.log.Warnf("Failed to scan %s keys: %+v", prefix, err)
			return err
		}

		if len(keys) > 0 {
			if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
				s.log.Warnf("Failed to delete %s keys: %+v", prefix, err)
				return err
			}
		}
	}
	return nil
}
