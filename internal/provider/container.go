package provider

import (
	"github.com/colis-next/internal/authz"
	"github.com/colis-next/internal/cache"
	"github.com/colis-next/internal/config"
	"github.com/colis-next/internal/logger"
	"github.com/colis-next/internal/models"
	"github.com/colis-next/internal/queue"
	"github.com/colis-next/internal/repository"
	"github.com/colis-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo      repository.UserRepository
	ClientRepo    repository.ClientRepository
	DeliveryRepo  repository.DeliveryRepository
	DashboardRepo repository.DashboardRepository

	// Services
	AuthzService      *authz.Service
	AuthService       *service.AuthService
	UserService       *service.UserService
	ClientService     *service.ClientService
	DeliveryService   *service.DeliveryService
	SettlementService *service.SettlementService
	DashboardService  *service.DashboardService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.ClientRepo = repository.NewClientRepository(db)
	c.DeliveryRepo = repository.NewDeliveryRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.AuthService = service.NewAuthService(c.Config, c.UserRepo)
	c.UserService = service.NewUserService(c.UserRepo, c.DeliveryRepo, c.AuthService)
	c.ClientService = service.NewClientService(c.ClientRepo, c.DeliveryRepo)
	c.DeliveryService = service.NewDeliveryService(c.Config, c.DeliveryRepo, c.ClientRepo, c.UserRepo, c.QueueClient)
	c.SettlementService = service.NewSettlementService(c.Config, c.DeliveryRepo, c.ClientRepo, c.UserRepo)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo)
}
