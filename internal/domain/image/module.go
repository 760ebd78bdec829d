package image

import (
	"social_feed/internal/domain/image/handler"
	"social_feed/internal/domain/image/repository"
	"social_feed/internal/domain/image/service"
	"social_feed/internal/pkg/middleware"
	"social_feed/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// ServiceName 其他模块通过 ModuleContext.Lookup 获取 ImageService
const ServiceName = "image"

// ImageModule 图片模块
type ImageModule struct{}

func init() {
	registry.Register(&ImageModule{})
}

func (m *ImageModule) Name() string {
	return "image"
}

func (m *ImageModule) Priority() int {
	// user 与 post 都依赖图片服务
	return 1
}

func (m *ImageModule) Init(ctx *registry.ModuleContext) error {
	storage := ctx.Config.Storage
	repo := repository.NewImageRepository(ctx.DB)
	svc := service.NewImageService(repo, ctx.Uploader, storage.PresignExpire, storage.MaxUploadSize)
	ctx.Provide(ServiceName, svc)

	setupRoutes(ctx.Router, handler.NewImageHandler(svc), middleware.AuthMiddleware(ctx.Tokens))
	return nil
}

func setupRoutes(r gin.IRouter, h *handler.ImageHandler, auth gin.HandlerFunc) {
	g := r.Group("/image")
	g.GET("/:hash", h.Get)

	authed := g.Group("", auth)
	{
		authed.POST("/upload", h.Upload)
		authed.POST("/upload/batch", h.UploadBatch)
	}
}
