package repository

import (
	"context"
	"errors"

	"social_feed/internal/domain/image/model"
	"social_feed/internal/pkg/errs"
	"social_feed/pkg/database"

	"gorm.io/gorm"
)

type ImageRepository interface {
	Create(ctx context.Context, img *model.Image) error
	GetByHash(ctx context.Context, hash string) (*model.Image, error)
	GetByHashes(ctx context.Context, hashes []string) ([]model.Image, error)
	// ListForPosts 批量读取帖子图片，按 position 排序
	ListForPosts(ctx context.Context, postIDs []int64) (map[int64][]model.Image, error)
	// CurrentForUsers 批量读取用户当前头像
	CurrentForUsers(ctx context.Context, userIDs []int64) (map[int64]model.Image, error)
}

type imageRepository struct {
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) Create(ctx context.Context, img *model.Image) error {
	if err := r.db.WithContext(ctx).Create(img).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return errs.Conflict("image already exists")
		}
		return database.Classify(err)
	}
	return nil
}

func (r *imageRepository) GetByHash(ctx context.Context, hash string) (*model.Image, error) {
	var img model.Image
	err := r.db.WithContext(ctx).
		Where("hash = ? AND is_deleted = ?", hash, false).
		First(&img).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrImageNotFound
		}
		return nil, database.Classify(err)
	}
	return &img, nil
}

func (r *imageRepository) GetByHashes(ctx context.Context, hashes []string) ([]model.Image, error) {
	var images []model.Image
	if len(hashes) == 0 {
		return images, nil
	}
	err := r.db.WithContext(ctx).
		Where("hash IN ? AND is_deleted = ?", hashes, false).
		Find(&images).Error
	return images, database.Classify(err)
}

type postImageRow struct {
	model.Image
	PostID int64
}

func (r *imageRepository) ListForPosts(ctx context.Context, postIDs []int64) (map[int64][]model.Image, error) {
	out := make(map[int64][]model.Image, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}

	var rows []postImageRow
	err := r.db.WithContext(ctx).
		Table("post_images pi").
		Select("i.*, pi.post_id").
		Joins("JOIN images i ON i.id = pi.image_id").
		Where("pi.post_id IN ? AND i.is_deleted = ?", postIDs, false).
		Order("pi.post_id, pi.position, i.id").
		Scan(&rows).Error
	if err != nil {
		return nil, database.Classify(err)
	}
	for _, row := range rows {
		out[row.PostID] = append(out[row.PostID], row.Image)
	}
	return out, nil
}

type userImageRow struct {
	model.Image
	UserID int64
}

func (r *imageRepository) CurrentForUsers(ctx context.Context, userIDs []int64) (map[int64]model.Image, error) {
	out := make(map[int64]model.Image, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	var rows []userImageRow
	err := r.db.WithContext(ctx).
		Table("user_images ui").
		Select("i.*, ui.user_id").
		Joins("JOIN images i ON i.id = ui.image_id").
		Where("ui.user_id IN ? AND i.is_deleted = ?", userIDs, false).
		Order("ui.user_id, ui.created_at DESC, i.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, database.Classify(err)
	}
	for _, row := range rows {
		// 按 created_at 倒序，只保留每个用户的第一条
		if _, ok := out[row.UserID]; !ok {
			out[row.UserID] = row.Image
		}
	}
	return out, nil
}
