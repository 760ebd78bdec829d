package registry

import (
	"sort"

	"social_feed/internal/pkg/config"
	"social_feed/internal/pkg/session"
	"social_feed/internal/pkg/uploader"
	"social_feed/pkg/metrics"
	"social_feed/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

// ModuleContext 模块初始化所需的上下文
type ModuleContext struct {
	Config   *config.Config
	DB       *gorm.DB
	SQLX     *sqlx.DB
	Uploader uploader.Uploader
	Tokens   *utils.TokenIssuer
	Sessions session.Store
	Metrics  *metrics.MetricsCollector
	Router   gin.IRouter

	// 模块之间共享的服务，先初始化的模块写入，后初始化的模块读取
	Services map[string]interface{}
}

// Provide 登记一个共享服务
func (c *ModuleContext) Provide(name string, svc interface{}) {
	if c.Services == nil {
		c.Services = make(map[string]interface{})
	}
	c.Services[name] = svc
}

// Lookup 取共享服务，不存在时返回 nil
func (c *ModuleContext) Lookup(name string) interface{} {
	return c.Services[name]
}

// Module 模块接口
type Module interface {
	// Name 返回模块名称
	Name() string

	// Init 初始化模块（依赖注入、路由注册等）
	Init(ctx *ModuleContext) error

	// Priority 返回初始化优先级（数字越小越先初始化）
	// 例如：image 模块要先于 user 和 post 模块初始化
	Priority() int
}

// moduleRegistry 全局模块注册表
var moduleRegistry = make(map[string]Module)

// Register 注册模块
func Register(module Module) {
	moduleRegistry[module.Name()] = module
}

// GetModules 获取所有已注册的模块
func GetModules() map[string]Module {
	return moduleRegistry
}

// InitModules 按优先级初始化所有模块，优先级相同按名称排序
func InitModules(ctx *ModuleContext) error {
	modules := make([]Module, 0, len(moduleRegistry))
	for _, m := range moduleRegistry {
		modules = append(modules, m)
	}
	sort.Slice(modules, func(i, j int) bool {
		if modules[i].Priority() != modules[j].Priority() {
			return modules[i].Priority() < modules[j].Priority()
		}
		return modules[i].Name() < modules[j].Name()
	})

	for _, module := range modules {
		if err := module.Init(ctx); err != nil {
			return err
		}
	}
	return nil
}
