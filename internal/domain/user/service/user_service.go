package service

import (
	"context"
	"errors"
	"strings"
	"time"

	imageService "social_feed/internal/domain/image/service"
	"social_feed/internal/domain/user/model"
	"social_feed/internal/domain/user/repository"
	"social_feed/internal/pkg/errs"
	"social_feed/internal/pkg/session"
	"social_feed/pkg/logger"
	"social_feed/pkg/utils"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// UserResponse 对外的用户信息
type UserResponse struct {
	ID     int64   `json:"id"`
	Login  string  `json:"login"`
	Name   string  `json:"name"`
	About  *string `json:"about"`
	ImgURL *string `json:"img_url"`
}

// RegisterInput 注册参数
type RegisterInput struct {
	Login    string
	Name     string
	Password string
}

// EditInput 修改资料，nil 表示不修改
type EditInput struct {
	Name      *string
	About     *string
	ImageHash *string
}

// Tokens 令牌签发与解析
type Tokens interface {
	Issue(userID int64) (*utils.TokenPair, string, error)
	Parse(token, tokenType string) (*utils.Claims, error)
	RefreshExpire() time.Duration
}

// UserService 用户服务接口
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*utils.TokenPair, error)
	Login(ctx context.Context, login, password string) (*utils.TokenPair, error)
	// Refresh 刷新令牌只能使用一次，成功后旧令牌失效
	Refresh(ctx context.Context, refreshToken string) (*utils.TokenPair, error)
	// Logout 吊销刷新令牌，已失效的会话再次吊销视为成功
	Logout(ctx context.Context, refreshToken string) error
	GetUser(ctx context.Context, id int64) (*UserResponse, error)
	Edit(ctx context.Context, id int64, in EditInput) (*UserResponse, error)
	List(ctx context.Context, page utils.Page) (utils.PageResult[UserResponse], error)
}

type userService struct {
	repo     repository.UserRepository
	images   imageService.ImageService
	tokens   Tokens
	sessions session.Store
	cost     int
}

// NewUserService 创建用户服务
func NewUserService(repo repository.UserRepository, images imageService.ImageService, tokens Tokens, sessions session.Store) UserService {
	return &userService{
		repo:     repo,
		images:   images,
		tokens:   tokens,
		sessions: sessions,
		cost:     bcrypt.DefaultCost,
	}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*utils.TokenPair, error) {
	login := strings.TrimSpace(in.Login)
	if login == "" {
		return nil, errs.Validation("login is required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, errs.Validationf("password must be at least %d characters", minPasswordLength)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = login
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, errs.Internal(err)
	}
	user := &model.User{Login: login, Name: name, Password: string(hash)}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	logger.Log.Info("user registered", zap.Int64("user_id", user.ID))

	return s.issue(ctx, user.ID)
}

func (s *userService) Login(ctx context.Context, login, password string) (*utils.TokenPair, error) {
	user, err := s.repo.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return nil, errs.ErrBadCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errs.ErrBadCredentials
	}
	return s.issue(ctx, user.ID)
}

func (s *userService) Refresh(ctx context.Context, refreshToken string) (*utils.TokenPair, error) {
	claims, err := s.tokens.Parse(refreshToken, utils.TokenTypeRefresh)
	if err != nil {
		return nil, errs.ErrTokenInvalid
	}
	userID, err := s.sessions.Consume(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if userID != claims.UserID {
		logger.Log.Warn("refresh session user mismatch", zap.Int64("claims_user", claims.UserID), zap.Int64("session_user", userID))
		return nil, errs.ErrTokenInvalid
	}
	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return nil, errs.ErrTokenInvalid
		}
		return nil, err
	}
	return s.issue(ctx, userID)
}

func (s *userService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokens.Parse(refreshToken, utils.TokenTypeRefresh)
	if err != nil {
		return errs.ErrTokenInvalid
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return err
	}
	logger.Log.Info("user logged out", zap.Int64("user_id", claims.UserID))
	return nil
}

// issue 签发令牌并登记刷新会话
func (s *userService) issue(ctx context.Context, userID int64) (*utils.TokenPair, error) {
	pair, jti, err := s.tokens.Issue(userID)
	if err != nil {
		return nil, errs.Internal(err)
	}
	if err := s.sessions.Save(ctx, jti, userID, s.tokens.RefreshExpire()); err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *userService) GetUser(ctx context.Context, id int64) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out, err := s.toResponses(ctx, []model.User{*user})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *userService) Edit(ctx context.Context, id int64, in EditInput) (*UserResponse, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, errs.Validation("name must not be empty")
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	update := repository.ProfileUpdate{Name: in.Name, About: in.About}
	if in.ImageHash != nil {
		images, err := s.images.Resolve(ctx, id, []string{*in.ImageHash})
		if err != nil {
			return nil, err
		}
		update.ImageID = &images[0].ID
	}
	// 资料与头像在同一事务内写入
	if err := s.repo.UpdateProfile(ctx, id, update); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

func (s *userService) List(ctx context.Context, page utils.Page) (utils.PageResult[UserResponse], error) {
	res, err := s.repo.List(ctx, page)
	if err != nil {
		return utils.PageResult[UserResponse]{}, err
	}
	items, err := s.toResponses(ctx, res.Items)
	if err != nil {
		return utils.PageResult[UserResponse]{}, err
	}
	return utils.PageResult[UserResponse]{Count: res.Count, Items: items, Page: res.Page, PerPage: res.PerPage}, nil
}

// toResponses 批量补齐头像
func (s *userService) toResponses(ctx context.Context, users []model.User) ([]UserResponse, error) {
	out := make([]UserResponse, 0, len(users))
	if len(users) == 0 {
		return out, nil
	}
	if err := copier.Copy(&out, &users); err != nil {
		return nil, errs.Internal(err)
	}

	ids := make([]int64, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	views, err := s.images.UserViews(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		if v, ok := views[out[i].ID]; ok {
			url := v.URL
			out[i].ImgURL = &url
		}
	}
	return out, nil
}
