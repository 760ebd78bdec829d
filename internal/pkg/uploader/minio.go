package uploader

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"social_feed/internal/pkg/config"
	"social_feed/pkg/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MinioUploader S3 兼容存储
type MinioUploader struct {
	client *minio.Client
	config config.StorageConfig
}

// NewMinioUploader 创建客户端并确保存储桶存在
func NewMinioUploader(ctx context.Context, cfg config.StorageConfig) (*MinioUploader, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to minio server: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
		logger.Log.Info("bucket created", zap.String("bucket", cfg.Bucket))
	}

	return &MinioUploader{client: client, config: cfg}, nil
}

func (u *MinioUploader) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := u.client.PutObject(ctx, u.config.Bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}
	return nil
}

func (u *MinioUploader) PresignGet(ctx context.Context, key string, expire time.Duration) (string, error) {
	signed, err := u.client.PresignedGetObject(ctx, u.config.Bucket, key, expire, url.Values{})
	if err != nil {
		return "", err
	}
	return signed.String(), nil
}

func (u *MinioUploader) PublicURL(key string) string {
	base := u.config.PublicURL
	if base == "" {
		scheme := "http"
		if u.config.UseSSL {
			scheme = "https"
		}
		base = scheme + "://" + u.config.Endpoint
	}
	return joinURL(base, u.config.Bucket, key)
}
