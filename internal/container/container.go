package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-realworld/config"
	"github.com/oksasatya/go-ddd-realworld/internal/application"
	repo "github.com/oksasatya/go-ddd-realworld/internal/domain/repository"
	"github.com/oksasatya/go-ddd-realworld/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons. Optional integrations
// (Redis, Elasticsearch, RabbitMQ, GCS) stay nil when not configured.

// Repositories bundles one storage backend: postgres or in-memory.
type Repositories struct {
	Users    repo.UserRepository
	Articles repo.ArticleRepository
	Comments repo.CommentRepository
	Tags     repo.TagRepository
	Tx       repo.Transactor
}

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	repos       Repositories

	jwtManager *helpers.JWTManager

	uploader  application.ObjectUploader
	rabbitPub *helpers.RabbitPublisher
	esClient  *elasticsearch.Client
	index     application.ArticleIndex
)

func SetConfig(c *config.Config)               { cfg = c }
func GetConfig() *config.Config                { return cfg }
func SetLogger(l *logrus.Logger)               { logger = l }
func GetLogger() *logrus.Logger                { return logger }
func SetPGPool(p *pgxpool.Pool)                { pgPool = p }
func GetPGPool() *pgxpool.Pool                 { return pgPool }
func SetRedis(r *redis.Client)                 { redisClient = r }
func GetRedis() *redis.Client                  { return redisClient }
func SetRepositories(r Repositories)           { repos = r }
func GetRepositories() Repositories            { return repos }
func SetJWT(m *helpers.JWTManager)             { jwtManager = m }
func GetJWT() *helpers.JWTManager              { return jwtManager }
func SetUploader(u application.ObjectUploader) { uploader = u }
func GetUploader() application.ObjectUploader  { return uploader }

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetES(c *elasticsearch.Client)           { esClient = c }
func GetES() *elasticsearch.Client            { return esClient }
func SetIndex(i application.ArticleIndex)     { index = i }
func GetIndex() application.ArticleIndex      { return index }

// Notifier returns the job publisher, or nil when RabbitMQ is not configured.
// The nil check keeps a typed nil pointer out of the interface.
func Notifier() application.JobPublisher {
	if rabbitPub == nil {
		return nil
	}
	return rabbitPub
}
