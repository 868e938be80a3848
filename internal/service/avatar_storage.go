package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/sirupsen/logrus"
)

// MaxAvatarSize caps uploaded avatars at 2 MiB.
const MaxAvatarSize = 2 << 20

var (
	ErrUnsupportedImage = errors.New("avatar must be a png, jpeg or webp image")
	ErrAvatarTooLarge   = errors.New("avatar exceeds 2MB")
)

var avatarContentTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// AvatarStorage uploads profile pictures and returns their public URL.
type AvatarStorage interface {
	Upload(ctx context.Context, owner string, id uuid.UUID, file io.Reader, size int64, contentType string) (string, error)
}

type minioAvatarStorage struct {
	client    *minio.Client
	bucket    string
	publicURL string
	log       *logrus.Logger
}

func NewAvatarStorage(client *minio.Client, bucket, publicURL string, log *logrus.Logger) AvatarStorage {
	return &minioAvatarStorage{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		log:       log,
	}
}

// Upload stores the image as <owner>/<id>-<random><ext>; a fresh name per upload busts caches.
func (s *minioAvatarStorage) Upload(ctx context.Context, owner string, id uuid.UUID, file io.Reader, size int64, contentType string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", ErrUnsupportedImage
	}
	ext, ok := avatarContentTypes[mediaType]
	if !ok {
		return "", ErrUnsupportedImage
	}
	if size > MaxAvatarSize {
		return "", ErrAvatarTooLarge
	}

	objectName := fmt.Sprintf("%s/%s-%s%s", owner, id.String(), uuid.NewString()[:8], ext)
	_, err = s.client.PutObject(ctx, s.bucket, objectName, file, size, minio.PutObjectOptions{
		ContentType: mediaType,
	})
	if err != nil {
		s.log.Warnf("Failed to upload avatar %s: %+v", objectName, err)
		return "", fmt.Errorf("put object %s/%s: %w", s.bucket, objectName, err)
	}

	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, objectName), nil
}
