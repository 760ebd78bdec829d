package service

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"social_feed/internal/domain/image/model"
	"social_feed/internal/domain/image/repository"
	"social_feed/internal/pkg/errs"
	"social_feed/internal/pkg/uploader"
	"social_feed/pkg/logger"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 允许上传的扩展名及其 Content-Type
var allowedExtensions = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// UploadResult 上传结果
type UploadResult struct {
	Hash   string `json:"hash"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ImageService 图片服务接口
type ImageService interface {
	Upload(ctx context.Context, ownerID int64, filename string, size int64, src io.ReadSeeker) (*UploadResult, error)
	PresignedURL(ctx context.Context, hash string) (string, error)
	// Resolve 按 hash 取图片，要求全部存在且属于 ownerID，返回顺序与 hashes 一致(去重)
	Resolve(ctx context.Context, ownerID int64, hashes []string) ([]model.Image, error)
	PostViews(ctx context.Context, postIDs []int64) (map[int64][]model.View, error)
	UserViews(ctx context.Context, userIDs []int64) (map[int64]model.View, error)
}

type imageService struct {
	repo          repository.ImageRepository
	store         uploader.Uploader
	presignExpire time.Duration
	maxSize       int64
}

func NewImageService(repo repository.ImageRepository, store uploader.Uploader, presignExpire time.Duration, maxSize int64) ImageService {
	return &imageService{repo: repo, store: store, presignExpire: presignExpire, maxSize: maxSize}
}

// Upload 校验扩展名与内容，按 EXIF 方向修正后记录宽高，再写入对象存储
func (s *imageService) Upload(ctx context.Context, ownerID int64, filename string, size int64, src io.ReadSeeker) (*UploadResult, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := allowedExtensions[ext]
	if !ok {
		return nil, errs.ErrFileNotAllowed
	}
	if s.maxSize > 0 && size > s.maxSize {
		return nil, errs.Validationf("file exceeds %d bytes", s.maxSize)
	}

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errs.Validation("invalid image content")
	}
	bounds := img.Bounds()

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, errs.Internal(err)
	}

	key := uuid.NewString() + ext
	if err := s.store.Put(ctx, key, src, size, contentType); err != nil {
		logger.Log.Error("upload image failed", zap.String("key", key), zap.Error(err))
		return nil, errs.Wrap(errs.KindUnavailable, "object storage unavailable", err)
	}

	record := &model.Image{
		Hash:    key,
		Width:   bounds.Dx(),
		Height:  bounds.Dy(),
		OwnerID: ownerID,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}
	return &UploadResult{Hash: record.Hash, Width: record.Width, Height: record.Height}, nil
}

func (s *imageService) PresignedURL(ctx context.Context, hash string) (string, error) {
	if _, err := s.repo.GetByHash(ctx, hash); err != nil {
		return "", err
	}
	url, err := s.store.PresignGet(ctx, hash, s.presignExpire)
	if err != nil {
		return "", errs.Wrap(errs.KindUnavailable, "object storage unavailable", err)
	}
	return url, nil
}

func (s *imageService) Resolve(ctx context.Context, ownerID int64, hashes []string) ([]model.Image, error) {
	unique := make([]string, 0, len(hashes))
	seen := make(map[string]struct{}, len(hashes))
	for _, h := range hashes {
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		unique = append(unique, h)
	}
	if len(unique) == 0 {
		return nil, nil
	}

	found, err := s.repo.GetByHashes(ctx, unique)
	if err != nil {
		return nil, err
	}
	byHash := make(map[string]model.Image, len(found))
	for _, img := range found {
		byHash[img.Hash] = img
	}

	out := make([]model.Image, 0, len(unique))
	for _, h := range unique {
		img, ok := byHash[h]
		if !ok {
			return nil, errs.Validationf("unknown image %s", h)
		}
		if img.OwnerID != ownerID {
			return nil, errs.PermissionDenied("image belongs to another user")
		}
		out = append(out, img)
	}
	return out, nil
}

func (s *imageService) view(img model.Image) model.View {
	return model.View{
		Hash:   img.Hash,
		URL:    s.store.PublicURL(img.Hash),
		Width:  img.Width,
		Height: img.Height,
	}
}

func (s *imageService) PostViews(ctx context.Context, postIDs []int64) (map[int64][]model.View, error) {
	images, err := s.repo.ListForPosts(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[int64][]model.View, len(images))
	for postID, list := range images {
		views := make([]model.View, 0, len(list))
		for _, img := range list {
			views = append(views, s.view(img))
		}
		out[postID] = views
	}
	return out, nil
}

func (s *imageService) UserViews(ctx context.Context, userIDs []int64) (map[int64]model.View, error) {
	images, err := s.repo.CurrentForUsers(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]model.View, len(images))
	for userID, img := range images {
		out[userID] = s.view(img)
	}
	return out, nil
}
