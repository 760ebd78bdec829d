package handler

import (
	"social_feed/internal/domain/post/feed"
	"social_feed/internal/domain/post/service"
	"social_feed/internal/pkg/common"
	"social_feed/internal/pkg/config"
	"social_feed/internal/pkg/middleware"
	"social_feed/pkg/response"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	service service.PostService
	feedCfg config.FeedConfig
}

func NewPostHandler(s service.PostService, feedCfg config.FeedConfig) *PostHandler {
	return &PostHandler{service: s, feedCfg: feedCfg}
}

// CreatePostInput 发帖输入
type CreatePostInput struct {
	Title  string   `json:"title" binding:"required"`
	Text   string   `json:"text"`
	Images []string `json:"images"`
}

// CommentInput 评论输入
type CommentInput struct {
	Text string `json:"text" binding:"required"`
}

// CreatePost 发帖
// @Summary 发布帖子
// @Tags Post
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body CreatePostInput true "帖子内容，images 为已上传图片的 hash"
// @Success 200 {object} response.Response{data=feed.PostWithEngagement}
// @Router /post/add [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	var input CreatePostInput
	if !common.BindJSON(c, &input) {
		return
	}
	post, err := h.service.CreatePost(c.Request.Context(), middleware.UserID(c), service.CreatePostInput{
		Title:  input.Title,
		Text:   input.Text,
		Images: input.Images,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, post)
}

// GetPost 帖子详情
// @Summary 获取帖子
// @Tags Post
// @Produce json
// @Param id path int true "帖子ID"
// @Success 200 {object} response.Response{data=feed.PostWithEngagement}
// @Failure 404 {object} response.Response
// @Router /post/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	id, ok := common.ParamID(c, "id")
	if !ok {
		return
	}
	post, err := h.service.GetPost(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, post)
}

// DeletePost 删除自己的帖子
// @Summary 删除帖子
// @Tags Post
// @Security BearerAuth
// @Param id path int true "帖子ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /post/{id} [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	id, ok := common.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeletePost(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, nil)
}

func (h *PostHandler) feed(c *gin.Context, req feed.Request) {
	page, ok := common.BindPage(c, h.feedCfg)
	if !ok {
		return
	}
	req.Page = page
	req.ViewerID = middleware.UserID(c)

	result, err := h.service.Feed(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, result)
}

// Latest 最新帖子
// @Summary 最新流
// @Tags Feed
// @Produce json
// @Param page query int false "页码，从 1 开始"
// @Param per_page query int false "每页条数"
// @Success 200 {object} response.Response{data=utils.PageResult[feed.PostWithEngagement]}
// @Router /post/latests [get]
func (h *PostHandler) Latest(c *gin.Context) {
	h.feed(c, feed.Request{Kind: feed.KindLatest})
}

// Recommended 推荐帖子
// @Summary 推荐流，仅包含推荐窗口内的帖子，按得分降序
// @Tags Feed
// @Produce json
// @Param page query int false "页码，从 1 开始"
// @Param per_page query int false "每页条数"
// @Success 200 {object} response.Response{data=utils.PageResult[feed.PostWithEngagement]}
// @Router /post/recommended [get]
func (h *PostHandler) Recommended(c *gin.Context) {
	h.feed(c, feed.Request{Kind: feed.KindRecommended})
}

// ByAuthor 某用户的帖子
// @Summary 用户帖子
// @Tags Feed
// @Produce json
// @Param id path int true "用户ID"
// @Param page query int false "页码"
// @Param per_page query int false "每页条数"
// @Success 200 {object} response.Response{data=utils.PageResult[feed.PostWithEngagement]}
// @Router /user/{id}/posts [get]
func (h *PostHandler) ByAuthor(c *gin.Context) {
	authorID, ok := common.ParamID(c, "id")
	if !ok {
		return
	}
	h.feed(c, feed.Request{Kind: feed.KindAuthor, AuthorID: authorID})
}

// Like 点赞，重复点赞无副作用
// @Summary 点赞
// @Tags Post
// @Security BearerAuth
// @Param id path int true "帖子ID"
// @Success 200 {object} response.Response{data=engagement.Snapshot}
// @Router /post/{id}/like [post]
func (h *PostHandler) Like(c *gin.Context) {
	id, ok := common.ParamID(c, "id")
	if !ok {
		return
	}
	snap, err := h.service.Like(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, snap)
}

// Unlike 取消点赞
// @Summary 取消点赞
// @Tags Post
// @Security BearerAuth
// @Param id path int true "帖子ID"
// @Success 200 {object} response.Response{data=engagement.Snapshot}
// @Router /post/{id}/like [delete]
func (h *PostHandler) Unlike(c *gin.Context) {
	id, ok := common.ParamID(c, "id")
	if !ok {
		return
	}
	snap, err := h.service.Unlike(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, snap)
}

// ListComments 评论列表
// @Summary 评论列表，按时间正序
// @Tags Comment
// @Produce json
// @Param id path int true "帖子ID"
// @Param page query int false "页码"
// @Param per_page query int false "每页条数"
// @Success 200 {object} response.Response{data=utils.PageResult[model.Comment]}
// @Router /post/{id}/comments [get]
func (h *PostHandler) ListComments(c *gin.Context) {
	id, ok := common.ParamID(c, "id")
	if !ok {
		return
	}
	page, ok := common.BindPage(c, h.feedCfg)
	if !ok {
		return
	}
	result, err := h.service.ListComments(c.Request.Context(), id, page)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, result)
}

// AddComment 发表评论
// @Summary 发表评论
// @Tags Comment
// @Accept json
// @Security BearerAuth
// @Param id path int true "帖子ID"
// @Param input body CommentInput true "评论内容"
// @Success 200 {object} response.Response{data=model.Comment}
// @Router /post/{id}/comments [post]
func (h *PostHandler) AddComment(c *gin.Context) {
	id, ok := common.ParamID(c, "id")
	if !ok {
		return
	}
	var input CommentInput
	if !common.BindJSON(c, &input) {
		return
	}
	comment, err := h.service.AddComment(c.Request.Context(), id, middleware.UserID(c), input.Text)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, comment)
}

// UpdateComment 修改自己的评论
// @Summary 修改评论
// @Tags Comment
// @Accept json
// @Security BearerAuth
// @Param id path int true "评论ID"
// @Param input body CommentInput true "评论内容"
// @Success 200 {object} response.Response{data=model.Comment}
// @Router /comment/{id} [put]
func (h *PostHandler) UpdateComment(c *gin.Context) {
	id, ok := common.ParamID(c, "id")
	if !ok {
		return
	}
	var input CommentInput
	if !common.BindJSON(c, &input) {
		return
	}
	comment, err := h.service.UpdateComment(c.Request.Context(), id, middleware.UserID(c), input.Text)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, comment)
}

// DeleteComment 删除自己的评论
// @Summary 删除评论
// @Tags Comment
// @Security BearerAuth
// @Param id path int true "评论ID"
// @Success 200 {object} response.Response
// @Router /comment/{id} [delete]
func (h *PostHandler) DeleteComment(c *gin.Context) {
	id, ok := common.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteComment(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, nil)
}
