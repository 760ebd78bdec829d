package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	App       AppConfig       `mapstructure:"app"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Feed      FeedConfig      `mapstructure:"feed"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Port     string `mapstructure:"port"`
	SSLMode  string `mapstructure:"sslmode"`
	TimeZone string `mapstructure:"timezone"`
	// Replicas 只读副本 DSN 列表，为空时读写都走主库
	Replicas []string `mapstructure:"replicas"`

	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	SlowThreshold   time.Duration `mapstructure:"slow_threshold"`
}

// DSN 返回 postgres 连接串
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		d.Host, d.User, d.Password, d.DBName, d.Port, d.SSLMode, d.TimeZone)
}

// URL 返回 golang-migrate 使用的连接 URL
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret        string        `mapstructure:"secret"`
	AccessExpire  time.Duration `mapstructure:"access_expire"`
	RefreshExpire time.Duration `mapstructure:"refresh_expire"`
	Issuer        string        `mapstructure:"issuer"`
}

type AppConfig struct {
	Env   string `mapstructure:"env"`
	Debug bool   `mapstructure:"debug"`
}

// StorageConfig 对象存储配置，Driver 取值 oss / minio
type StorageConfig struct {
	Driver        string        `mapstructure:"driver"`
	Endpoint      string        `mapstructure:"endpoint"`
	AccessKey     string        `mapstructure:"access_key"`
	SecretKey     string        `mapstructure:"secret_key"`
	Bucket        string        `mapstructure:"bucket"`
	UseSSL        bool          `mapstructure:"use_ssl"`
	PublicURL     string        `mapstructure:"public_url"`
	PresignExpire time.Duration `mapstructure:"presign_expire"`
	MaxUploadSize int64         `mapstructure:"max_upload_size"`
}

// FeedConfig 信息流排序与分页参数
type FeedConfig struct {
	LikeWeight      float64       `mapstructure:"like_weight"`
	CommentWeight   float64       `mapstructure:"comment_weight"`
	DecayPerSecond  float64       `mapstructure:"decay_per_second"`
	RecommendWindow time.Duration `mapstructure:"recommend_window"`
	DefaultPerPage  int           `mapstructure:"default_per_page"`
	MaxPerPage      int           `mapstructure:"max_per_page"`
}

type RateLimitConfig struct {
	QPS   float64 `mapstructure:"qps"`
	Burst int     `mapstructure:"burst"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Validate 验证配置
func (c *Config) Validate() error {
	// JWT 配置验证
	if c.JWT.Secret == "" || c.JWT.Secret == "your_super_secret_key" {
		return errors.New("please set a secure JWT secret in production")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("JWT secret should be at least 32 characters")
	}

	// 数据库配置验证
	if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
		return errors.New("database configuration is incomplete")
	}

	// Redis 配置验证
	if c.Redis.Addr == "" {
		return errors.New("redis address is required")
	}

	switch c.Storage.Driver {
	case "oss", "minio":
	default:
		return fmt.Errorf("unsupported storage driver %q", c.Storage.Driver)
	}

	return c.Feed.Validate()
}

// Validate 排序权重必须非负，分页上限必须合理
func (f FeedConfig) Validate() error {
	if f.LikeWeight < 0 || f.CommentWeight < 0 || f.DecayPerSecond < 0 {
		return errors.New("feed weights must be non-negative")
	}
	if f.RecommendWindow <= 0 {
		return errors.New("feed.recommend_window must be positive")
	}
	if f.MaxPerPage <= 0 || f.DefaultPerPage < 0 || f.DefaultPerPage > f.MaxPerPage {
		return errors.New("feed.default_per_page must be within [0, max_per_page]")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "UTC")
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.conn_max_idle_time", 30*time.Minute)
	v.SetDefault("database.slow_threshold", 200*time.Millisecond)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.access_expire", 2*time.Hour)
	v.SetDefault("jwt.refresh_expire", 30*24*time.Hour)
	v.SetDefault("jwt.issuer", "social-feed")

	v.SetDefault("app.env", "dev")
	v.SetDefault("app.debug", true)

	v.SetDefault("storage.driver", "minio")
	v.SetDefault("storage.bucket", "images")
	v.SetDefault("storage.presign_expire", time.Hour)
	v.SetDefault("storage.max_upload_size", 10<<20)

	v.SetDefault("feed.like_weight", 2.0)
	v.SetDefault("feed.comment_weight", 1.0)
	// 一小时衰减 1 分
	v.SetDefault("feed.decay_per_second", 1.0/3600)
	v.SetDefault("feed.recommend_window", 7*24*time.Hour)
	v.SetDefault("feed.default_per_page", 100)
	v.SetDefault("feed.max_per_page", 500)

	v.SetDefault("rate_limit.qps", 100)
	v.SetDefault("rate_limit.burst", 200)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// LoadConfig 加载配置，按 APP_ENV 选择 configs/config.<env>.yaml
func LoadConfig() (*Config, error) {
	// 获取环境变量，默认为dev
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	configName := "config"
	if env != "dev" {
		configName = "config." + env
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// 绑定环境变量，例如 FEED_LIKE_WEIGHT 覆盖 feed.like_weight
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 手动覆盖，以防 viper 无法正确解析复杂结构或环境变量
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		cfg.Redis.Addr = redisAddr
	}
	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		cfg.JWT.Secret = jwtSecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}
