package repository

import (
	"context"
	"errors"

	imageModel "social_feed/internal/domain/image/model"
	"social_feed/internal/domain/post/model"
	"social_feed/internal/pkg/errs"
	"social_feed/pkg/database"
	"social_feed/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostRepository interface {
	// CreatePost 在同一事务里写入帖子及其图片关联
	CreatePost(ctx context.Context, post *model.Post, imageIDs []int64) error
	// GetPost 只返回未删除的帖子
	GetPost(ctx context.Context, id int64) (*model.Post, error)
	// GetPostAny 包含已删除的帖子
	GetPostAny(ctx context.Context, id int64) (*model.Post, error)
	// SoftDeletePost 软删除帖子并级联软删除其评论，点赞保留
	SoftDeletePost(ctx context.Context, id int64) error

	// AddLike 重复点赞静默忽略
	AddLike(ctx context.Context, postID, userID int64) error
	RemoveLike(ctx context.Context, postID, userID int64) error

	CreateComment(ctx context.Context, comment *model.Comment) error
	GetComment(ctx context.Context, id int64) (*model.Comment, error)
	UpdateCommentText(ctx context.Context, id int64, text string) error
	SoftDeleteComment(ctx context.Context, id int64) error
	ListComments(ctx context.Context, postID int64, page utils.Page) (utils.PageResult[model.Comment], error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// --- Post ---

func (r *postRepository) CreatePost(ctx context.Context, post *model.Post, imageIDs []int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		if len(imageIDs) == 0 {
			return nil
		}
		links := make([]imageModel.PostImage, len(imageIDs))
		for i, id := range imageIDs {
			links[i] = imageModel.PostImage{PostID: post.ID, ImageID: id, Position: i}
		}
		return tx.Create(&links).Error
	})
	return database.Classify(err)
}

func (r *postRepository) GetPost(ctx context.Context, id int64) (*model.Post, error) {
	return r.getPost(r.db.WithContext(ctx).Where("is_deleted = ?", false), id)
}

func (r *postRepository) GetPostAny(ctx context.Context, id int64) (*model.Post, error) {
	return r.getPost(r.db.WithContext(ctx), id)
}

func (r *postRepository) getPost(db *gorm.DB, id int64) (*model.Post, error) {
	var post model.Post
	if err := db.Where("id = ?", id).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrPostNotFound
		}
		return nil, database.Classify(err)
	}
	return &post, nil
}

func (r *postRepository) SoftDeletePost(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Post{}).
			Where("id = ? AND is_deleted = ?", id, false).
			Update("is_deleted", true).Error; err != nil {
			return err
		}
		return tx.Model(&model.Comment{}).
			Where("post_id = ? AND is_deleted = ?", id, false).
			Update("is_deleted", true).Error
	})
	return database.Classify(err)
}

// --- Like ---

func (r *postRepository) AddLike(ctx context.Context, postID, userID int64) error {
	like := &model.Like{PostID: postID, UserID: userID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(like).Error
	return database.Classify(err)
}

func (r *postRepository) RemoveLike(ctx context.Context, postID, userID int64) error {
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&model.Like{}).Error
	return database.Classify(err)
}

// --- Comment ---

func (r *postRepository) CreateComment(ctx context.Context, comment *model.Comment) error {
	return database.Classify(r.db.WithContext(ctx).Create(comment).Error)
}

// GetComment 包含已删除的评论，由调用方判断
func (r *postRepository) GetComment(ctx context.Context, id int64) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrCommentNotFound
		}
		return nil, database.Classify(err)
	}
	return &comment, nil
}

func (r *postRepository) UpdateCommentText(ctx context.Context, id int64, text string) error {
	err := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("text", text).Error
	return database.Classify(err)
}

func (r *postRepository) SoftDeleteComment(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_deleted", true).Error
	return database.Classify(err)
}

func (r *postRepository) ListComments(ctx context.Context, postID int64, page utils.Page) (utils.PageResult[model.Comment], error) {
	base := r.db.WithContext(ctx).
		Table("comments c").
		Select("c.*").
		Where("c.post_id = ? AND c.is_deleted = ?", postID, false)
	return database.Paginate[model.Comment](base, "c.created_at ASC, c.id ASC", page)
}
