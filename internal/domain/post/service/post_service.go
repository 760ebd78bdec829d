package service

import (
	"context"
	"strings"

	imageModel "social_feed/internal/domain/image/model"
	imageService "social_feed/internal/domain/image/service"
	"social_feed/internal/domain/post/engagement"
	"social_feed/internal/domain/post/feed"
	"social_feed/internal/domain/post/model"
	"social_feed/internal/domain/post/repository"
	"social_feed/internal/pkg/errs"
	"social_feed/pkg/logger"
	"social_feed/pkg/utils"

	"go.uber.org/zap"
)

const (
	maxTitleLength = 256
	maxImages      = 10
)

// CreatePostInput 发帖参数
type CreatePostInput struct {
	Title  string
	Text   string
	Images []string
}

// SnapshotReader 单帖互动快照
type SnapshotReader interface {
	Snapshot(ctx context.Context, postID, viewerID int64) (engagement.Snapshot, error)
}

// FeedReader 信息流查询
type FeedReader interface {
	Feed(ctx context.Context, req feed.Request) (utils.PageResult[feed.PostWithEngagement], error)
}

// PostService 帖子服务接口
type PostService interface {
	CreatePost(ctx context.Context, authorID int64, in CreatePostInput) (*feed.PostWithEngagement, error)
	GetPost(ctx context.Context, postID, viewerID int64) (*feed.PostWithEngagement, error)
	DeletePost(ctx context.Context, postID, userID int64) error
	Feed(ctx context.Context, req feed.Request) (utils.PageResult[feed.PostWithEngagement], error)

	Like(ctx context.Context, postID, userID int64) (engagement.Snapshot, error)
	Unlike(ctx context.Context, postID, userID int64) (engagement.Snapshot, error)

	AddComment(ctx context.Context, postID, authorID int64, text string) (*model.Comment, error)
	UpdateComment(ctx context.Context, commentID, userID int64, text string) (*model.Comment, error)
	DeleteComment(ctx context.Context, commentID, userID int64) error
	ListComments(ctx context.Context, postID int64, page utils.Page) (utils.PageResult[model.Comment], error)
}

type postService struct {
	repo      repository.PostRepository
	snapshots SnapshotReader
	feeds     FeedReader
	images    imageService.ImageService
}

// NewPostService 创建帖子服务
func NewPostService(repo repository.PostRepository, snapshots SnapshotReader, feeds FeedReader, images imageService.ImageService) PostService {
	return &postService{repo: repo, snapshots: snapshots, feeds: feeds, images: images}
}

func (s *postService) CreatePost(ctx context.Context, authorID int64, in CreatePostInput) (*feed.PostWithEngagement, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, errs.Validation("title is required")
	}
	if len(title) > maxTitleLength {
		return nil, errs.Validationf("title exceeds %d characters", maxTitleLength)
	}
	if len(in.Images) > maxImages {
		return nil, errs.Validationf("at most %d images per post", maxImages)
	}

	images, err := s.images.Resolve(ctx, authorID, in.Images)
	if err != nil {
		return nil, err
	}
	imageIDs := make([]int64, len(images))
	for i, img := range images {
		imageIDs[i] = img.ID
	}

	post := &model.Post{Title: title, Text: in.Text, AuthorID: authorID}
	if err := s.repo.CreatePost(ctx, post, imageIDs); err != nil {
		return nil, err
	}
	logger.Log.Info("post created", zap.Int64("post_id", post.ID), zap.Int64("user_id", authorID), zap.Int("images", len(imageIDs)))

	return s.compose(ctx, post, authorID)
}

func (s *postService) GetPost(ctx context.Context, postID, viewerID int64) (*feed.PostWithEngagement, error) {
	post, err := s.repo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.compose(ctx, post, viewerID)
}

// compose 单帖补齐互动快照与图片
func (s *postService) compose(ctx context.Context, post *model.Post, viewerID int64) (*feed.PostWithEngagement, error) {
	snap, err := s.snapshots.Snapshot(ctx, post.ID, viewerID)
	if err != nil {
		return nil, err
	}
	views, err := s.images.PostViews(ctx, []int64{post.ID})
	if err != nil {
		return nil, err
	}
	images := views[post.ID]
	if images == nil {
		images = []imageModel.View{}
	}
	return &feed.PostWithEngagement{
		ID:         post.ID,
		Title:      post.Title,
		Text:       post.Text,
		AuthorID:   post.AuthorID,
		CreatedAt:  post.CreatedAt,
		ModifiedAt: post.ModifiedAt,
		Snapshot:   snap,
		Images:     images,
	}, nil
}

// DeletePost 仅作者可删，已删除的帖子再次删除视为成功
func (s *postService) DeletePost(ctx context.Context, postID, userID int64) error {
	post, err := s.repo.GetPostAny(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return errs.ErrNotOwner
	}
	if post.IsDeleted {
		return nil
	}
	if err := s.repo.SoftDeletePost(ctx, postID); err != nil {
		return err
	}
	logger.Log.Info("post deleted", zap.Int64("post_id", postID), zap.Int64("user_id", userID))
	return nil
}

func (s *postService) Feed(ctx context.Context, req feed.Request) (utils.PageResult[feed.PostWithEngagement], error) {
	return s.feeds.Feed(ctx, req)
}

func (s *postService) Like(ctx context.Context, postID, userID int64) (engagement.Snapshot, error) {
	if _, err := s.repo.GetPost(ctx, postID); err != nil {
		return engagement.Snapshot{}, err
	}
	if err := s.repo.AddLike(ctx, postID, userID); err != nil {
		return engagement.Snapshot{}, err
	}
	return s.snapshots.Snapshot(ctx, postID, userID)
}

func (s *postService) Unlike(ctx context.Context, postID, userID int64) (engagement.Snapshot, error) {
	if _, err := s.repo.GetPost(ctx, postID); err != nil {
		return engagement.Snapshot{}, err
	}
	if err := s.repo.RemoveLike(ctx, postID, userID); err != nil {
		return engagement.Snapshot{}, err
	}
	return s.snapshots.Snapshot(ctx, postID, userID)
}

func (s *postService) AddComment(ctx context.Context, postID, authorID int64, text string) (*model.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errs.Validation("comment text is required")
	}
	if _, err := s.repo.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	comment := &model.Comment{PostID: postID, AuthorID: authorID, Text: text}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ownComment 取评论(含已删除)并校验作者
func (s *postService) ownComment(ctx context.Context, commentID, userID int64) (*model.Comment, error) {
	comment, err := s.repo.GetComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != userID {
		return nil, errs.ErrNotOwner
	}
	return comment, nil
}

func (s *postService) UpdateComment(ctx context.Context, commentID, userID int64, text string) (*model.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errs.Validation("comment text is required")
	}
	comment, err := s.ownComment(ctx, commentID, userID)
	if err != nil {
		return nil, err
	}
	if comment.IsDeleted {
		return nil, errs.ErrCommentNotFound
	}
	if err := s.repo.UpdateCommentText(ctx, commentID, text); err != nil {
		return nil, err
	}
	comment.Text = text
	return comment, nil
}

func (s *postService) DeleteComment(ctx context.Context, commentID, userID int64) error {
	comment, err := s.ownComment(ctx, commentID, userID)
	if err != nil {
		return err
	}
	if comment.IsDeleted {
		return nil
	}
	return s.repo.SoftDeleteComment(ctx, commentID)
}

func (s *postService) ListComments(ctx context.Context, postID int64, page utils.Page) (utils.PageResult[model.Comment], error) {
	if _, err := s.repo.GetPost(ctx, postID); err != nil {
		return utils.PageResult[model.Comment]{}, err
	}
	return s.repo.ListComments(ctx, postID, page)
}
