package router

import (
	"context"

	"github.com/oksasatya/go-ddd-realworld/internal/application"
	"github.com/oksasatya/go-ddd-realworld/internal/container"
	handlers "github.com/oksasatya/go-ddd-realworld/internal/interface/http"
	"github.com/oksasatya/go-ddd-realworld/internal/router/modules"
)

type Services struct {
	Users    *application.UserService
	Profiles *application.ProfileService
	Articles *application.ArticleService
	Tags     *application.TagService
}

// BuildServices wires the application services from the container.
func BuildServices() Services {
	repos := container.GetRepositories()
	logger := container.GetLogger()
	rdb := container.GetRedis()
	appName := ""
	if cfg := container.GetConfig(); cfg != nil {
		appName = cfg.AppName
	}

	return Services{
		Users: &application.UserService{
			Users:    repos.Users,
			Tx:       repos.Tx,
			JWT:      container.GetJWT(),
			Redis:    rdb,
			Uploader: container.GetUploader(),
			Logger:   logger,
		},
		Profiles: &application.ProfileService{
			Users:    repos.Users,
			Tx:       repos.Tx,
			Notifier: container.Notifier(),
			AppName:  appName,
			Logger:   logger,
		},
		Articles: &application.ArticleService{
			Users:    repos.Users,
			Articles: repos.Articles,
			Comments: repos.Comments,
			Tags:     repos.Tags,
			Tx:       repos.Tx,
			Index:    container.GetIndex(),
			Redis:    rdb,
			Notifier: container.Notifier(),
			Logger:   logger,
		},
		Tags: &application.TagService{
			Tags:   repos.Tags,
			Redis:  rdb,
			Logger: logger,
		},
	}
}

// healthChecks probes whichever backends are configured.
func healthChecks() map[string]handlers.Check {
	checks := map[string]handlers.Check{}
	if pool := container.GetPGPool(); pool != nil {
		checks["postgres"] = pool.Ping
	}
	if rdb := container.GetRedis(); rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return checks
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	svc := BuildServices()
	logger := container.GetLogger()
	jwt := container.GetJWT()

	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc.Users, logger), jwt))
	r.Add(modules.NewProfileModule(handlers.NewProfileHandler(svc.Profiles, logger), jwt))
	r.Add(modules.NewArticleModule(handlers.NewArticleHandler(svc.Articles, logger), jwt))
	r.Add(modules.NewTagModule(handlers.NewTagHandler(svc.Tags, logger)))

	cfg := container.GetConfig()
	if cfg != nil && cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
	r.AddRoot(modules.NewOpsModule(handlers.NewHealthHandler(healthChecks(), logger), cfg != nil && cfg.MetricsEnabled))
}
