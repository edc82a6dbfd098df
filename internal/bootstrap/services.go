package bootstrap

import (
	"database/sql"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/brnlabs/staffdesk/config"
	"github.com/brnlabs/staffdesk/internal/data"
	httpx "github.com/brnlabs/staffdesk/internal/http"
	"github.com/brnlabs/staffdesk/internal/observability/statsd"
	"github.com/brnlabs/staffdesk/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth       *service.AuthService
	Users      *service.UserService
	Tasks      *service.TaskService
	Leaves     *service.LeaveService
	Uploads    *httpx.UploadStore
	SSOEnabled bool
	Metrics    *statsd.Client
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	Users  *data.UserRepo
	Tasks  *data.TaskRepo
	Leaves *data.LeaveRepo
}

func buildRepositories(db *sql.DB) *serviceRepositories {
	return &serviceRepositories{
		Users:  data.NewUserRepo(db),
		Tasks:  data.NewTaskRepo(db),
		Leaves: data.NewLeaveRepo(db),
	}
}

// buildMetricsSink configures the statsd client. Returns nil when metrics
// are disabled; metric emission treats a nil sink as a no-op.
func buildMetricsSink(cfg config.MetricsConfig, logger *slog.Logger) *statsd.Client {
	if cfg.Addr == "" {
		return nil
	}
	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.Addr,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		if logger != nil {
			logger.Error("failed to initialise statsd client", "error", err)
		}
		return nil
	}
	return client
}

// NewServices wires repositories, adapters, and domain services.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil {
		return ServiceContainer{}, nil
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := deps.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	repos := buildRepositories(deps.DB)
	metricsSink := buildMetricsSink(appCfg.Metrics, logger)

	uploads, err := httpx.NewUploadStore(appCfg.Uploads.Dir, appCfg.Uploads.MaxBytes)
	if err != nil {
		return ServiceContainer{}, err
	}

	userService := service.NewUserService(service.UserServiceOptions{
		Users:   repos.Users,
		Metrics: metricsSink,
	})

	authService, ssoEnabled := BuildAuthService(AuthDeps{
		Auth:        appCfg.Auth,
		RedisClient: deps.RedisClient,
		Users:       repos.Users,
		Metrics:     metricsSink,
		Logger:      logger,
	})

	return ServiceContainer{
		Auth:       authService,
		Users:      userService,
		Tasks:      service.NewTaskService(repos.Tasks),
		Leaves:     service.NewLeaveService(repos.Leaves),
		Uploads:    uploads,
		SSOEnabled: ssoEnabled,
		Metrics:    metricsSink,
	}, nil
}
