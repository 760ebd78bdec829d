package handler

import (
	"social_feed/internal/domain/user/service"
	"social_feed/internal/pkg/common"
	"social_feed/internal/pkg/config"
	"social_feed/internal/pkg/middleware"
	"social_feed/pkg/response"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户处理器
type UserHandler struct {
	service service.UserService
	pageCfg config.FeedConfig
}

// NewUserHandler 创建处理器
func NewUserHandler(s service.UserService, pageCfg config.FeedConfig) *UserHandler {
	return &UserHandler{service: s, pageCfg: pageCfg}
}

// RegisterInput 注册输入
type RegisterInput struct {
	Login    string `json:"login" binding:"required"`
	Name     string `json:"name"`
	Password string `json:"password" binding:"required"`
}

// LoginInput 登录输入
type LoginInput struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshInput 刷新令牌输入
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// EditInput 修改资料输入，缺省字段不修改
type EditInput struct {
	Name  *string `json:"name"`
	About *string `json:"about"`
	Image *string `json:"image"`
}

// Register 处理注册请求
// @Summary 注册
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body RegisterInput true "注册信息"
// @Success 200 {object} response.Response{data=utils.TokenPair}
// @Failure 409 {object} response.Response
// @Router /auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var input RegisterInput
	if !common.BindJSON(c, &input) {
		return
	}
	pair, err := h.service.Register(c.Request.Context(), service.RegisterInput{
		Login:    input.Login,
		Name:     input.Name,
		Password: input.Password,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, pair)
}

// Login 处理登录请求
// @Summary 登录
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body LoginInput true "登录信息"
// @Success 200 {object} response.Response{data=utils.TokenPair}
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var input LoginInput
	if !common.BindJSON(c, &input) {
		return
	}
	pair, err := h.service.Login(c.Request.Context(), input.Login, input.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, pair)
}

// Refresh 用刷新令牌换取新的一对令牌
// @Summary 刷新令牌
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body RefreshInput true "刷新令牌"
// @Success 200 {object} response.Response{data=utils.TokenPair}
// @Failure 401 {object} response.Response
// @Router /auth/refresh [post]
func (h *UserHandler) Refresh(c *gin.Context) {
	var input RefreshInput
	if !common.BindJSON(c, &input) {
		return
	}
	pair, err := h.service.Refresh(c.Request.Context(), input.RefreshToken)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, pair)
}

// Logout 吊销刷新令牌
// @Summary 退出登录
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body RefreshInput true "刷新令牌"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	var input RefreshInput
	if !common.BindJSON(c, &input) {
		return
	}
	if err := h.service.Logout(c.Request.Context(), input.RefreshToken); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, nil)
}

// Me 当前用户
// @Summary 当前用户
// @Tags User
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=service.UserResponse}
// @Router /user/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.service.GetUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, user)
}

// GetUser 获取单个用户
// @Summary 获取用户
// @Tags User
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response{data=service.UserResponse}
// @Failure 404 {object} response.Response
// @Router /user/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := common.ParamID(c, "id")
	if !ok {
		return
	}
	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, user)
}

// Edit 修改当前用户资料
// @Summary 修改资料
// @Tags User
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body EditInput true "name / about / image(头像 hash)"
// @Success 200 {object} response.Response{data=service.UserResponse}
// @Router /user/edit [post]
func (h *UserHandler) Edit(c *gin.Context) {
	var input EditInput
	if !common.BindJSON(c, &input) {
		return
	}
	user, err := h.service.Edit(c.Request.Context(), middleware.UserID(c), service.EditInput{
		Name:      input.Name,
		About:     input.About,
		ImageHash: input.Image,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, user)
}

// GetUsers 用户列表（分页）
// @Summary 用户列表
// @Tags User
// @Produce json
// @Param page query int false "页码"
// @Param per_page query int false "每页条数"
// @Success 200 {object} response.Response{data=utils.PageResult[service.UserResponse]}
// @Router /users [get]
func (h *UserHandler) GetUsers(c *gin.Context) {
	page, ok := common.BindPage(c, h.pageCfg)
	if !ok {
		return
	}
	users, err := h.service.List(c.Request.Context(), page)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, users)
}
