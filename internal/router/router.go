package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/time/rate"

	_ "restaurant_hub_202601/docs"
	"restaurant_hub_202601/internal/controller"
	"restaurant_hub_202601/internal/middleware"
)

// Controllers 控制器集合
type Controllers struct {
	Auth       *controller.AuthController
	Manage     *controller.ManageController
	Restaurant *controller.RestaurantController
	Order      *controller.OrderController
}

// Options 路由选项
type Options struct {
	Resolve        middleware.IdentityResolver
	HealthCheck    func(ctx context.Context) error
	MediaDir       string // 本地存储根目录，为空时不挂载静态文件
	MediaURLPrefix string
	MaxUploadBytes int64
	UploadCooldown time.Duration
	LoginRate      rate.Limit // 每 IP 登录速率，0 表示不限
	LoginBurst     int
	AllowOrigins   []string
}

// SetupRouter 创建 gin 引擎并注册所有路由
func SetupRouter(ctls *Controllers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID())

	corsCfg := cors.DefaultConfig()
	if len(opts.AllowOrigins) > 0 {
		corsCfg.AllowOrigins = opts.AllowOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AddAllowHeaders("Authorization", middleware.HeaderRequestID)
	corsCfg.AddExposeHeaders(middleware.HeaderRequestID)
	r.Use(cors.New(corsCfg))

	if opts.MaxUploadBytes > 0 {
		// 表单其余字段与文件头留出余量
		r.MaxMultipartMemory = opts.MaxUploadBytes + 1<<20
	}

	// Swagger 文档：/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/healthz", func(c *gin.Context) {
		if opts.HealthCheck != nil {
			if err := opts.HealthCheck(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if opts.MediaDir != "" && opts.MediaURLPrefix != "" {
		r.Static(opts.MediaURLPrefix, opts.MediaDir)
	}

	auth := middleware.JWTAuth(opts.Resolve)
	limiter := middleware.NewCooldownLimiter()
	upload := func(action string) gin.HandlerFunc {
		return middleware.UploadCooldown(limiter, action, opts.UploadCooldown)
	}
	loginLimit := func(c *gin.Context) { c.Next() }
	if opts.LoginRate > 0 {
		loginLimit = middleware.RateLimit(middleware.NewIPRateLimiter(opts.LoginRate, max(opts.LoginBurst, 1)))
	}

	api := r.Group("/api")
	{
		// 账号
		account := api.Group("/auth")
		{
			account.POST("/register", upload("register"), ctls.Auth.Register)
			account.POST("/login", loginLimit, ctls.Auth.Login)
			account.GET("/profile", auth, ctls.Auth.Profile)
			account.DELETE("/account", auth, ctls.Auth.DeleteAccount)
		}

		// 经理侧
		manage := api.Group("/manage", auth)
		{
			manage.GET("", ctls.Manage.Index)
			manage.POST("/restaurant", upload("restaurant"), ctls.Manage.CreateRestaurant)
			manage.DELETE("/restaurant", ctls.Manage.DeleteRestaurant)
			manage.POST("/categories/:category_id/dishes", upload("dish"), ctls.Manage.AddDish)
			manage.DELETE("/dishes/:dish_id", ctls.Manage.DeleteDish)
			manage.GET("/blacklist", ctls.Manage.ListBlacklist)
			manage.POST("/blacklist", ctls.Manage.Block)
			manage.DELETE("/blacklist/:user_id", ctls.Manage.Unblock)
			manage.GET("/orders", ctls.Manage.ListOrders)
		}

		// 顾客侧
		restaurants := api.Group("/restaurants")
		{
			restaurants.GET("/:id/menu", ctls.Restaurant.Menu)
			restaurants.POST("/:id/orders", auth, ctls.Order.PlaceOrder)
			restaurants.POST("/:id/chats", auth, ctls.Restaurant.PostChat)
			restaurants.GET("/:id/chats", auth, ctls.Restaurant.ListChat)
		}

		orders := api.Group("/orders", auth)
		{
			orders.GET("", ctls.Order.List)
			orders.GET("/:id", ctls.Order.Get)
			orders.DELETE("/:id", ctls.Order.Delete)
		}
	}

	return r
}
