package uploader

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"social_feed/internal/pkg/config"
)

// Uploader 对象存储抽象
type Uploader interface {
	// Put 上传对象
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// PresignGet 生成限时的下载地址
	PresignGet(ctx context.Context, key string, expire time.Duration) (string, error)
	// PublicURL 对象的公开访问地址
	PublicURL(key string) string
}

// New 按 storage.driver 创建对应实现
func New(ctx context.Context, cfg config.StorageConfig) (Uploader, error) {
	switch cfg.Driver {
	case "oss":
		return NewAliyunOSSUploader(cfg)
	case "minio":
		return NewMinioUploader(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

func joinURL(base, bucket, key string) string {
	return strings.TrimRight(base, "/") + "/" + bucket + "/" + key
}
