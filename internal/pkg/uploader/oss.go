package uploader

import (
	"context"
	"fmt"
	"io"
	"time"

	"social_feed/internal/pkg/config"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

type AliyunOSSUploader struct {
	bucket *oss.Bucket
	config config.StorageConfig
}

func NewAliyunOSSUploader(cfg config.StorageConfig) (*AliyunOSSUploader, error) {
	client, err := oss.New(cfg.Endpoint, cfg.AccessKey, cfg.SecretKey)
	if err != nil {
		return nil, err
	}

	bucket, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, err
	}

	return &AliyunOSSUploader{bucket: bucket, config: cfg}, nil
}

func (u *AliyunOSSUploader) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	return u.bucket.PutObject(key, r, oss.ContentType(contentType), oss.WithContext(ctx))
}

func (u *AliyunOSSUploader) PresignGet(ctx context.Context, key string, expire time.Duration) (string, error) {
	return u.bucket.SignURL(key, oss.HTTPGet, int64(expire.Seconds()))
}

// PublicURL 未配置 public_url 时按 bucket 域名拼接
func (u *AliyunOSSUploader) PublicURL(key string) string {
	if u.config.PublicURL != "" {
		return joinURL(u.config.PublicURL, u.config.Bucket, key)
	}
	return fmt.Sprintf("https://%s.%s/%s", u.config.Bucket, u.config.Endpoint, key)
}
