package repository

import (
	"context"
	"errors"

	imageModel "social_feed/internal/domain/image/model"
	"social_feed/internal/domain/user/model"
	"social_feed/internal/pkg/errs"
	"social_feed/pkg/database"
	"social_feed/pkg/utils"

	"gorm.io/gorm"
)

// UserRepository 接口定义
type UserRepository interface {
	// Create login 已存在时返回 errs.ErrLoginTaken
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByLogin(ctx context.Context, login string) (*model.User, error)
	// UpdateProfile 只更新非 nil 字段，资料与头像在一个事务内提交
	UpdateProfile(ctx context.Context, id int64, update ProfileUpdate) error
	List(ctx context.Context, page utils.Page) (utils.PageResult[model.User], error)
}

// ProfileUpdate 资料修改，nil 表示不修改
type ProfileUpdate struct {
	Name    *string
	About   *string
	ImageID *int64
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建新的仓库实例
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if database.IsUniqueViolation(err) {
		return errs.ErrLoginTaken
	}
	return database.Classify(err)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ? AND is_deleted = ?", id, false))
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	return r.first(r.db.WithContext(ctx).Where("login = ? AND is_deleted = ?", login, false))
}

func (r *userRepository) first(db *gorm.DB) (*model.User, error) {
	var user model.User
	if err := db.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, database.Classify(err)
	}
	return &user, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id int64, update ProfileUpdate) error {
	fields := map[string]interface{}{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.About != nil {
		fields["about"] = *update.About
	}
	if len(fields) == 0 && update.ImageID == nil {
		return nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(fields) > 0 {
			err := tx.Model(&model.User{}).
				Where("id = ? AND is_deleted = ?", id, false).
				Updates(fields).Error
			if err != nil {
				return err
			}
		}
		if update.ImageID != nil {
			return setUserImage(tx, id, *update.ImageID)
		}
		return nil
	})
	return database.Classify(err)
}

// setUserImage 重复设置同一张图时刷新时间，使其成为当前头像
func setUserImage(tx *gorm.DB, userID, imageID int64) error {
	now := tx.NowFunc()
	res := tx.Model(&imageModel.UserImage{}).
		Where("user_id = ? AND image_id = ?", userID, imageID).
		Update("created_at", now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	return tx.Create(&imageModel.UserImage{UserID: userID, ImageID: imageID, CreatedAt: now}).Error
}

// List 未删除用户，按 id 升序
func (r *userRepository) List(ctx context.Context, page utils.Page) (utils.PageResult[model.User], error) {
	base := r.db.WithContext(ctx).
		Table("users u").
		Select("u.*").
		Where("u.is_deleted = ?", false)
	return database.Paginate[model.User](base, "u.id ASC", page)
}
