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
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-realworld/config"
	"github.com/oksasatya/go-ddd-realworld/internal/container"
	"github.com/oksasatya/go-ddd-realworld/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-ddd-realworld/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-realworld/internal/infrastructure/search"
	"github.com/oksasatya/go-ddd-realworld/internal/router"
	"github.com/oksasatya/go-ddd-realworld/pkg/helpers"
	"github.com/oksasatya/go-ddd-realworld/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetJWT(helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL, cfg.AppName))

	closeStorage := initStorage(ctx, cfg, logger)
	defer closeStorage()

	closeIntegrations := initIntegrations(ctx, cfg, logger)
	defer closeIntegrations()

	r := router.NewEngine(cfg)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.WithField("storage", cfg.StorageDriver).Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
		return
	}
	logger.Info("server exited properly")
}

// initStorage selects the repositories and returns a cleanup func.
func initStorage(ctx context.Context, cfg *config.Config, logger *logrus.Logger) func() {
	if cfg.UseMemoryStorage() {
		store := memory.NewStore()
		container.SetRepositories(container.Repositories{
			Users:    store.Users(),
			Articles: store.Articles(),
			Comments: store.Comments(),
			Tags:     store.Tags(),
			Tx:       store,
		})
		logger.Warn("using in-memory storage; data is lost on restart")
		return func() {}
	}

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		pool.Close()
		logger.WithError(err).Fatal("migration failed")
	}
	container.SetPGPool(pool)
	container.SetRepositories(container.Repositories{
		Users:    pginfra.NewUserRepository(pool),
		Articles: pginfra.NewArticleRepository(pool),
		Comments: pginfra.NewCommentRepository(pool),
		Tags:     pginfra.NewTagRepository(pool),
		Tx:       pginfra.NewTxManager(pool),
	})
	return pool.Close
}

// initIntegrations connects the optional backends. A backend that is not
// configured, or cannot be reached, is left nil and its feature degrades.
func initIntegrations(ctx context.Context, cfg *config.Config, logger *logrus.Logger) func() {
	var closers []func()

	if cfg.RedisAddr != "" {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.WithError(err).Warn("redis unavailable; sessions, rate limits and tag cache disabled")
			_ = rdb.Close()
		} else {
			container.SetRedis(rdb)
			closers = append(closers, func() { _ = rdb.Close() })
		}
	}

	if cfg.GCSBucket != "" {
		gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			logger.WithError(err).Warn("gcs unavailable; image uploads disabled")
		} else {
			container.SetUploader(&helpers.GCSUploader{Client: gcs, Bucket: cfg.GCSBucket})
			closers = append(closers, func() { _ = gcs.Close() })
		}
	}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Warn("elasticsearch unavailable; search disabled")
		} else {
			container.SetES(es)
			container.SetIndex(search.NewArticleIndex(es, cfg.ESArticlesIndex))
		}
	}

	if cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQNotifyQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; notifications disabled")
		} else {
			container.SetRabbitPub(pub)
			closers = append(closers, pub.Close)
		}
	}

	return func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
}
