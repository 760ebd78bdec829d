package user

import (
	"fmt"

	imageModule "social_feed/internal/domain/image"
	imageService "social_feed/internal/domain/image/service"
	"social_feed/internal/domain/user/handler"
	"social_feed/internal/domain/user/repository"
	"social_feed/internal/domain/user/service"
	"social_feed/internal/pkg/middleware"
	"social_feed/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// UserModule 用户模块
type UserModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&UserModule{})
}

func (m *UserModule) Name() string {
	return "user"
}

func (m *UserModule) Priority() int {
	return 2
}

func (m *UserModule) Init(ctx *registry.ModuleContext) error {
	images, ok := ctx.Lookup(imageModule.ServiceName).(imageService.ImageService)
	if !ok {
		return fmt.Errorf("user module: image service not initialized")
	}

	// 1. 依赖注入
	userRepo := repository.NewUserRepository(ctx.DB)
	userService := service.NewUserService(userRepo, images, ctx.Tokens, ctx.Sessions)
	userHandler := handler.NewUserHandler(userService, ctx.Config.Feed)

	// 2. 路由注册
	setupRoutes(ctx.Router, userHandler, middleware.AuthMiddleware(ctx.Tokens))
	return nil
}

func setupRoutes(r gin.IRouter, h *handler.UserHandler, auth gin.HandlerFunc) {
	// 公开路由
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
		authGroup.POST("/logout", h.Logout)
	}

	r.GET("/user/:id", h.GetUser)
	r.GET("/users", h.GetUsers)

	// 受保护的路由
	userGroup := r.Group("/user", auth)
	{
		userGroup.GET("/me", h.Me)
		userGroup.POST("/edit", h.Edit)
	}
}
