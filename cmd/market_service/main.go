package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qwertyllionman/Alijahon/api/middleware"
	v1 "github.com/qwertyllionman/Alijahon/api/v1"
	"github.com/qwertyllionman/Alijahon/internal/dao"
	"github.com/qwertyllionman/Alijahon/internal/dao/mysql"
	rdb "github.com/qwertyllionman/Alijahon/internal/dao/redis"
	"github.com/qwertyllionman/Alijahon/internal/model"
	"github.com/qwertyllionman/Alijahon/internal/mq"
	"github.com/qwertyllionman/Alijahon/internal/service"
	"github.com/qwertyllionman/Alijahon/pkg/app"
	"github.com/qwertyllionman/Alijahon/pkg/logger"
	"github.com/qwertyllionman/Alijahon/pkg/utils"
)

func main() {
	// 加载配置
	cfg := app.BootstrapApp()

	// 设置Gin模式
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	// 初始化MySQL
	db, err := mysql.InitDB(&cfg.Database.Mysql)
	if err != nil {
		logger.Fatal("Failed to init MySQL", "err", err)
	}
	if err := mysql.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to migrate schema", "err", err)
	}

	// 初始化Redis（防重复提交锁）
	redisDB, err := rdb.InitRedis(&cfg.Database.Redis)
	if err != nil {
		logger.Fatal("Failed to init Redis", "err", err)
	}

	// 初始化RabbitMQ通道池；MQ不可用时降级为不发事件
	pool, err := mq.Init(&cfg.MQ)
	if err != nil {
		logger.Error("Failed to init RabbitMQ, order events disabled", "err", err)
		pool = nil
	} else {
		defer pool.Close()
		if err := pool.EnsureBaseTopology(); err != nil {
			logger.Error("Failed to declare MQ topology", "err", err)
		}
	}

	// DAO 层
	userDao := dao.NewUserDao(db)
	productDao := dao.NewProductDao(db)
	orderDao := dao.NewOrderDao(db)
	threadDao := dao.NewThreadDao(db)
	paymentDao := dao.NewPaymentDao(db)
	settingsDao := dao.NewSettingsDao(db)

	// Service 层
	events := service.NewEventPublisher(pool)
	authService := service.NewAuthService(userDao, cfg.JWT.Secret, cfg.JWT.ExpireHours)
	userService := service.NewUserService(userDao)
	productService := service.NewProductService(productDao)
	orderService := service.NewOrderService(orderDao, productDao, threadDao, settingsDao, redisDB, events, &cfg.Order)
	threadService := service.NewThreadService(threadDao, productDao)
	paymentService := service.NewPaymentService(paymentDao, userDao, redisDB)
	statisticsService := service.NewStatisticsService(threadDao, settingsDao)

	// Handler 层
	authHandler := v1.NewAuthHandler(authService)
	userHandler := v1.NewUserHandler(userService)
	productHandler := v1.NewProductHandler(productService)
	orderHandler := v1.NewOrderHandler(orderService, userService)
	threadHandler := v1.NewThreadHandler(threadService, statisticsService)
	paymentHandler := v1.NewPaymentHandler(paymentService)

	r := gin.Default()

	// 全局限流
	r.Use(middleware.GlobalRateLimit(cfg))

	// 健康检查接口
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "market service is running",
		})
	})

	jwtUtil := utils.NewJWTUtil(cfg.JWT.Secret, cfg.JWT.ExpireHours)

	api := r.Group("/api/v1")
	{
		// 公开路由：登录、商品目录、推广链接访问
		productHandler.RegisterRoutes(api)

		// 受保护的路由组（需要JWT认证）
		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware(jwtUtil))

		authHandler.RegisterRoutes(api, protected)
		threadHandler.RegisterRoutes(api, protected)
		userHandler.RegisterRoutes(protected)

		// 下单路由：JWT + 更严格的限流
		customer := api.Group("")
		customer.Use(middleware.JWTAuthMiddleware(jwtUtil))
		customer.Use(middleware.OrderRateLimit(cfg))

		// 操作台：操作员/配送员/管理员
		staff := api.Group("/operator")
		staff.Use(middleware.JWTAuthMiddleware(jwtUtil))
		staff.Use(middleware.RequireRoles(model.RoleAdmin, model.RoleOperator, model.RoleDeliver))

		orderHandler.RegisterRoutes(customer, staff)

		// 管理员终审
		admin := api.Group("/admin")
		admin.Use(middleware.JWTAuthMiddleware(jwtUtil))
		admin.Use(middleware.RequireRoles(model.RoleAdmin))

		paymentHandler.RegisterRoutes(protected, admin)
	}

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("market service starting on " + serverAddr)
	if err := r.Run(serverAddr); err != nil {
		logger.Fatal("Failed to start market service", "err", err)
	}
}
