package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"restaurant_hub_202601/internal/config"
	"restaurant_hub_202601/internal/controller"
	"restaurant_hub_202601/internal/middleware"
	"restaurant_hub_202601/internal/model"
	"restaurant_hub_202601/internal/repository"
	"restaurant_hub_202601/internal/router"
	"restaurant_hub_202601/internal/service"
	"restaurant_hub_202601/internal/task"
	"restaurant_hub_202601/pkg/database"
	"restaurant_hub_202601/pkg/logger"
)

// @title Restaurant Hub API
// @version 1.0
// @description 多餐厅菜单与订单服务
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if _, err := logger.Init(cfg.LogLevel, cfg.DevMode); err != nil {
		panic(err)
	}
	defer logger.Sync()
	if !cfg.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// 2. 初始化数据库
	db := initDatabase(cfg)

	// 3. 初始化依赖
	deps := initDependencies(cfg, db)

	// 4. 启动定时任务
	tasks := initTasks(cfg, deps)

	// 5. 初始化路由
	r := router.SetupRouter(deps.Controllers, routerOptions(cfg, deps))

	// 6. 启动服务
	startServer(cfg, r, func() {
		tasks.Stop()
		if deps.Redis != nil {
			_ = deps.Redis.Close()
		}
	})
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Redis       *redis.Client
	Store       *repository.Store
	Storage     service.StorageProvider
	Controllers *router.Controllers
	Services    *Services
}

// Services 服务集合
type Services struct {
	Media     *service.MediaService
	User      *service.UserService
	Catalog   *service.CatalogService
	Order     *service.OrderService
	Blacklist *service.BlacklistService
	Chat      *service.ChatService
	MenuCache service.MenuCache
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase(cfg *config.Config) *gorm.DB {
	db, err := database.Open(database.Options{
		Driver:          cfg.DB.Driver,
		DSN:             cfg.DB.DSN,
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.DB.ConnMaxLifeTime) * time.Minute,
	})
	if err != nil {
		logger.L().Fatalw("[DB] 连接失败", "error", err)
	}
	if err := database.QuickInit(db, model.AllModels()); err != nil {
		logger.L().Fatalw("[DB] 初始化失败", "error", err)
	}
	return db
}

// initDependencies 初始化所有依赖
func initDependencies(cfg *config.Config, db *gorm.DB) *Dependencies {
	middleware.SetJWTConfig(&middleware.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenTTL: cfg.JWT.TTL,
		Issuer:         cfg.JWT.Issuer,
	})

	// -------- Repo 层 --------
	store := repository.NewStore(db)

	// -------- 存储 & 缓存 --------
	storage := initStorage(cfg)
	rdb, menuCache := initMenuCache(cfg)

	// -------- 业务服务 --------
	box := service.BoundingBox{Width: cfg.Media.ThumbWidth, Height: cfg.Media.ThumbHeight}
	media := service.NewMediaService(storage, cfg.Media.MaxUploadBytes).WithMaxPixels(cfg.Media.MaxPixels)
	services := &Services{
		Media:     media,
		User:      service.NewUserService(store, media, service.NewBcryptHasher(bcrypt.DefaultCost), menuCache).WithBoundingBox(box),
		Catalog:   service.NewCatalogService(store, media, menuCache).WithBoundingBox(box),
		Order:     service.NewOrderService(store),
		Blacklist: service.NewBlacklistService(store),
		Chat:      service.NewChatService(store),
		MenuCache: menuCache,
	}

	// -------- Controller 层 --------
	controllers := &router.Controllers{
		Auth:       controller.NewAuthController(services.User),
		Manage:     controller.NewManageController(services.Catalog, services.Blacklist, services.Order),
		Restaurant: controller.NewRestaurantController(services.Catalog, services.Chat),
		Order:      controller.NewOrderController(services.Order),
	}

	return &Dependencies{
		DB:          db,
		Redis:       rdb,
		Store:       store,
		Storage:     storage,
		Controllers: controllers,
		Services:    services,
	}
}

// initStorage 初始化媒体存储
func initStorage(cfg *config.Config) service.StorageProvider {
	storage, err := service.NewStorageProvider(service.StorageConfig{
		Provider:  cfg.Storage.Provider,
		BasePath:  cfg.Storage.BasePath,
		URLPrefix: cfg.Storage.URLPrefix,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
	})
	if err != nil {
		logger.L().Fatalw("[Storage] 初始化失败", "error", err)
	}
	return storage
}

// initMenuCache 配置了 REDIS_ADDR 时启用菜单缓存，连接失败则降级为不缓存
func initMenuCache(cfg *config.Config) (*redis.Client, service.MenuCache) {
	if cfg.Redis.Addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.L().Warnw("[Cache] Redis 不可用，菜单缓存已关闭", "addr", cfg.Redis.Addr, "error", err)
		_ = rdb.Close()
		return nil, nil
	}
	logger.L().Infow("[Cache] 菜单缓存已启用", "addr", cfg.Redis.Addr)
	return rdb, service.NewRedisMenuCache(rdb, cfg.Redis.MenuTTL)
}

// routerOptions 路由选项
func routerOptions(cfg *config.Config, deps *Dependencies) router.Options {
	opts := router.Options{
		Resolve: deps.Services.User.ResolveIdentity,
		HealthCheck: func(ctx context.Context) error {
			return database.HealthCheck(ctx, deps.DB)
		},
		MediaURLPrefix: cfg.Storage.URLPrefix,
		MaxUploadBytes: cfg.Media.MaxUploadBytes,
		UploadCooldown: cfg.Server.UploadCooldown,
		AllowOrigins:   cfg.Server.AllowOrigins,
	}
	if local, ok := deps.Storage.(*service.LocalStorage); ok {
		opts.MediaDir = local.Root()
	}
	if cfg.Server.LoginPerMinute > 0 {
		opts.LoginRate = rate.Every(time.Minute / time.Duration(cfg.Server.LoginPerMinute))
		opts.LoginBurst = cfg.Server.LoginPerMinute
	}
	return opts
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(cfg *config.Config, deps *Dependencies) *task.TaskManager {
	taskDeps := &task.TaskManagerDeps{Restaurants: deps.Store.Restaurants}
	if local, ok := deps.Storage.(*service.LocalStorage); ok {
		taskDeps.Sweeper = local
	}
	if deps.Services.MenuCache != nil {
		taskDeps.Menus = deps.Services.Catalog
	}

	tm := task.NewTaskManager(taskDeps, &task.TaskManagerConfig{
		SweepSpec:   cfg.Media.SweepCron,
		SweepMaxAge: cfg.Media.SweepMaxAge,
		WarmupSpec:  cfg.Redis.WarmupCron,
	})
	if err := tm.Start(); err != nil {
		logger.L().Fatalw("[Task] 启动失败", "error", err)
	}
	return tm
}

// ==================== 服务启动 ====================

// startServer 启动服务，收到退出信号后优雅关闭
func startServer(cfg *config.Config, r *gin.Engine, cleanup func()) {
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 异步启动服务
	go func() {
		logger.L().Infof("服务启动在 :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatalw("服务启动失败", "error", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.L().Info("正在关闭服务...")

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.L().Errorw("服务强制关闭", "error", err)
	}
	cleanup()

	logger.L().Info("服务已退出")
}
