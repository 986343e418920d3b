// Package storage keeps uploaded files in an S3-compatible object
// store. Schedule attachments reference objects here by bucket and key.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/orghub/orghub/internal/config"
	"go.uber.org/zap"
)

// Object describes a stored file.
type Object struct {
	Bucket      string `json:"bucket"`
	Key         string `json:"key"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type Store interface {
	Upload(ctx context.Context, fileName, contentType string, size int64, body io.Reader) (*Object, error)
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	Remove(ctx context.Context, key string) error
}

type MinioStore struct {
	log    *zap.Logger
	client *minio.Client
	bucket string
}

func NewMinio(log *zap.Logger, cfg config.Config) (*MinioStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioSecure,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &MinioStore{
		log:    log.Named("storage"),
		client: client,
		bucket: cfg.MinioBucket,
	}, nil
}

// EnsureBucket creates the configured bucket when it does not exist yet.
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	s.log.Info("bucket created", zap.String("bucket", s.bucket))
	return nil
}

func (s *MinioStore) Upload(ctx context.Context, fileName, contentType string, size int64, body io.Reader) (*Object, error) {
	key := uuid.NewString()
	info, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("upload object: %w", err)
	}
	return &Object{
		Bucket:      s.bucket,
		Key:         key,
		FileName:    fileName,
		ContentType: contentType,
		Size:        info.Size,
	}, nil
}

func (s *MinioStore) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign object: %w", err)
	}
	return u.String(), nil
}

func (s *MinioStore) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}
