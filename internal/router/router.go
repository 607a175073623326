package router

import (
	"fmt"
	"strings"

	"github.com/colis-next/internal/cache"
	"github.com/colis-next/internal/config"
	"github.com/colis-next/internal/constants"
	adminhandlers "github.com/colis-next/internal/http/handlers/admin"
	courierhandlers "github.com/colis-next/internal/http/handlers/courier"
	handlershared "github.com/colis-next/internal/http/handlers/shared"
	"github.com/colis-next/internal/logger"
	"github.com/colis-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按管理端/骑手端分组）
	authHandler := handlershared.NewAuthHandler(c)
	adminHandler := adminhandlers.New(c)
	courierHandler := courierhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = constants.RedisPrefixDefault
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.login_too_many",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	jwtAuth := JWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo)

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 认证接口（管理员、员工与骑手共用）
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), authHandler.Login)
			auth.POST("/logout", jwtAuth, authHandler.Logout)
			auth.GET("/profile", jwtAuth, authHandler.Profile)
		}

		// 骑手接口
		courier := apiV1.Group("/courier")
		courier.Use(jwtAuth, RequireRoleMiddleware(constants.RoleCourier))
		{
			courier.GET("/deliveries", courierHandler.ListDeliveries)
			courier.GET("/deliveries/:id", courierHandler.GetDelivery)
			courier.PATCH("/deliveries/:id/status", courierHandler.UpdateStatus)
			courier.POST("/deliveries/:id/postpone", courierHandler.Postpone)
			courier.POST("/deliveries/:id/transfer", courierHandler.Transfer)
			courier.PUT("/deliveries/:id/remarks", courierHandler.UpdateRemarks)
			courier.GET("/settlement", courierHandler.MySettlement)
		}

		// 后台接口（admin 全量放行，staff 走 Casbin 策略表）
		admin := apiV1.Group("/admin")
		admin.Use(jwtAuth, RequireRoleMiddleware(constants.RoleAdmin, constants.RoleStaff), AdminRBACMiddleware(c.AuthzService))
		{
			// 仪表盘
			admin.GET("/dashboard", adminHandler.AdminDashboard)

			// 客户管理
			admin.GET("/clients", adminHandler.AdminListClients)
			admin.POST("/clients", adminHandler.AdminCreateClient)
			admin.GET("/clients/:id", adminHandler.AdminGetClient)
			admin.PUT("/clients/:id", adminHandler.AdminUpdateClient)
			admin.DELETE("/clients/:id", adminHandler.AdminDeleteClient)

			// 骑手管理
			admin.GET("/couriers", adminHandler.AdminListCouriers)
			admin.POST("/couriers", adminHandler.AdminCreateCourier)
			admin.GET("/couriers/:id", adminHandler.AdminGetCourier)
			admin.PUT("/couriers/:id", adminHandler.AdminUpdateCourier)
			admin.DELETE("/couriers/:id", adminHandler.AdminDeleteCourier)

			// 员工账号管理
			admin.GET("/staff", adminHandler.AdminListStaff)
			admin.POST("/staff", adminHandler.AdminCreateStaff)

			// 配送单管理
			admin.GET("/deliveries", adminHandler.AdminListDeliveries)
			admin.POST("/deliveries", adminHandler.AdminCreateDelivery)
			admin.GET("/deliveries/:id", adminHandler.AdminGetDelivery)
			admin.PUT("/deliveries/:id", adminHandler.AdminUpdateDelivery)
			admin.DELETE("/deliveries/:id", adminHandler.AdminDeleteDelivery)
			admin.PATCH("/deliveries/:id/status", adminHandler.AdminSetDeliveryStatus)
			admin.POST("/deliveries/:id/postpone", adminHandler.AdminPostponeDelivery)
			admin.POST("/deliveries/:id/transfer", adminHandler.AdminTransferDelivery)

			// 对账报表
			admin.GET("/reports/clients/:id", adminHandler.AdminClientReport)
			admin.GET("/reports/clients/:id/export", adminHandler.AdminExportClientReport)
			admin.GET("/reports/couriers/:id", adminHandler.AdminCourierReport)

			// 结算
			admin.GET("/settlements/pending", adminHandler.AdminPendingClientSettlements)
			admin.GET("/settlements/couriers/pending", adminHandler.AdminPendingCourierSettlements)
			admin.POST("/settlements/confirm", adminHandler.AdminConfirmClientSettlement)
			admin.POST("/settlements/courier-confirm", adminHandler.AdminConfirmCourierSettlement)

			// 权限管理
			admin.GET("/authz/roles", adminHandler.AdminListRoles)
			admin.GET("/authz/users/:id/roles", adminHandler.AdminUserRoles)
			admin.POST("/authz/assign", adminHandler.AdminAssignRole)
			admin.POST("/authz/revoke", adminHandler.AdminRevokeRole)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
