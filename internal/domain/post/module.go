package post

import (
	"fmt"

	imageModule "social_feed/internal/domain/image"
	imageService "social_feed/internal/domain/image/service"
	"social_feed/internal/domain/post/engagement"
	"social_feed/internal/domain/post/feed"
	"social_feed/internal/domain/post/handler"
	"social_feed/internal/domain/post/ranking"
	"social_feed/internal/domain/post/repository"
	"social_feed/internal/domain/post/service"
	"social_feed/internal/pkg/middleware"
	"social_feed/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// PostModule 帖子、评论、点赞与信息流
type PostModule struct{}

func init() {
	registry.Register(&PostModule{})
}

func (m *PostModule) Name() string {
	return "post"
}

func (m *PostModule) Priority() int {
	return 10
}

func (m *PostModule) Init(ctx *registry.ModuleContext) error {
	images, ok := ctx.Lookup(imageModule.ServiceName).(imageService.ImageService)
	if !ok {
		return fmt.Errorf("post module: image service not initialized")
	}

	// 1. 依赖注入
	var observer feed.Observer
	if ctx.Metrics != nil {
		observer = ctx.Metrics
	}
	ranker := ranking.NewRanker(ctx.Config.Feed)
	aggregator := engagement.NewAggregator(ctx.SQLX)
	composer := feed.NewComposer(ctx.DB, ranker, images, observer)
	postRepo := repository.NewPostRepository(ctx.DB)
	postService := service.NewPostService(postRepo, aggregator, composer, images)
	postHandler := handler.NewPostHandler(postService, ctx.Config.Feed)

	// 2. 路由注册
	setupRoutes(ctx.Router, postHandler, middleware.AuthMiddleware(ctx.Tokens), middleware.OptionalAuth(ctx.Tokens))
	return nil
}

func setupRoutes(r gin.IRouter, h *handler.PostHandler, auth, optional gin.HandlerFunc) {
	// 匿名可读，登录后带上 is_liked
	public := r.Group("", optional)
	{
		public.GET("/post/latests", h.Latest)
		public.GET("/post/recommended", h.Recommended)
		public.GET("/post/:id", h.GetPost)
		public.GET("/post/:id/comments", h.ListComments)
		public.GET("/user/:id/posts", h.ByAuthor)
	}

	authed := r.Group("", auth)
	{
		authed.POST("/post/add", h.CreatePost)
		authed.DELETE("/post/:id", h.DeletePost)
		authed.POST("/post/:id/like", h.Like)
		authed.DELETE("/post/:id/like", h.Unlike)
		authed.POST("/post/:id/comments", h.AddComment)
		authed.PUT("/comment/:id", h.UpdateComment)
		authed.DELETE("/comment/:id", h.DeleteComment)
	}
}
