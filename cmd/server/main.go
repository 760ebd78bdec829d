// @title Social Feed API
// @version 1.0
// @description 帖子、评论、点赞与信息流（最新 / 推荐 / 按作者）
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"social_feed/docs"
	_ "social_feed/internal/domain/image"
	_ "social_feed/internal/domain/post"
	_ "social_feed/internal/domain/user"
	"social_feed/internal/pkg/config"
	"social_feed/internal/pkg/middleware"
	"social_feed/internal/pkg/registry"
	"social_feed/internal/pkg/session"
	"social_feed/internal/pkg/uploader"
	"social_feed/pkg/database"
	"social_feed/pkg/logger"
	"social_feed/pkg/metrics"
	"social_feed/pkg/response"
	"social_feed/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log, cfg.App.Debug); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. 基础设施
	db, err := database.InitDatabase(cfg.Database, cfg.App.Debug)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	sdb, err := database.NewSQLX(db)
	if err != nil {
		return err
	}

	rdb, err := database.InitRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	store, err := uploader.New(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	collector := metrics.NewMetricsCollector()
	if err := collector.RegisterDB(sqlDB, cfg.Database.DBName); err != nil {
		return err
	}

	// 2. 路由与中间件
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.TraceMiddleware(),
		middleware.LoggerMiddleware(),
		middleware.MetricsMiddleware(collector),
		cors.New(corsConfig()),
	)

	limiter := middleware.NewIPRateLimiter(cfg.RateLimit)
	go limiter.RunCleanup(ctx, time.Minute, 10*time.Minute)

	router.GET("/healthz", healthz(db, rdb))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(collector.Registry(), promhttp.HandlerOpts{})))
	docs.SwaggerInfo.Version = "1.0"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("", middleware.RateLimitMiddleware(limiter))

	// 3. 业务模块
	moduleCtx := &registry.ModuleContext{
		Config:   cfg,
		DB:       db,
		SQLX:     sdb,
		Uploader: store,
		Tokens:   utils.NewTokenIssuer(cfg.JWT),
		Sessions: session.NewRedisStore(rdb),
		Metrics:  collector,
		Router:   api,
	}
	if err := registry.InitModules(moduleCtx); err != nil {
		return err
	}

	// 4. 启动并优雅退出
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func corsConfig() cors.Config {
	c := cors.DefaultConfig()
	c.AllowAllOrigins = true
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", middleware.TraceHeader)
	c.ExposeHeaders = []string{middleware.TraceHeader}
	if origins := os.Getenv("CORS_ALLOW_ORIGINS"); origins != "" {
		c.AllowAllOrigins = false
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.AllowOrigins = append(c.AllowOrigins, o)
			}
		}
	}
	return c
}

// healthz 数据库与 Redis 均可达时返回 200
func healthz(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err == nil {
			err = rdb.Ping(ctx).Err()
		}
		if err != nil {
			response.Error(c, http.StatusServiceUnavailable, response.ErrStorageUnavailable, err.Error())
			return
		}
		response.Success(c, gin.H{"status": "ok"})
	}
}
