package main

import (
	"context"
	"errors"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-realworld/config"
	"github.com/oksasatya/go-ddd-realworld/internal/application"
	pginfra "github.com/oksasatya/go-ddd-realworld/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-realworld/pkg/helpers"
)

type seedUser struct {
	Username, Email, Password string
}

var users = []seedUser{
	{"jake", "jake@jake.jake", "password123"},
	{"anna", "anna@example.com", "password123"},
}

var articles = []application.CreateArticleInput{
	{
		Title:       "How to train your dragon",
		Description: "Ever wonder how?",
		Body:        "You have to believe",
		TagList:     []string{"reactjs", "angularjs", "dragons"},
	},
	{
		Title:       "Welcome to Conduit",
		Description: "A place to share your knowledge",
		Body:        "Conduit is a social blogging site.",
		TagList:     []string{"welcome", "introduction"},
	},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()
	if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		logger.WithError(err).Fatal("migration failed")
	}

	jwtm := helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL, cfg.AppName)
	usersRepo := pginfra.NewUserRepository(pool)
	tx := pginfra.NewTxManager(pool)

	userSvc := &application.UserService{Users: usersRepo, Tx: tx, JWT: jwtm, Logger: logger}
	profileSvc := &application.ProfileService{Users: usersRepo, Tx: tx, AppName: cfg.AppName, Logger: logger}
	articleSvc := &application.ArticleService{
		Users:    usersRepo,
		Articles: pginfra.NewArticleRepository(pool),
		Comments: pginfra.NewCommentRepository(pool),
		Tags:     pginfra.NewTagRepository(pool),
		Tx:       tx,
		Logger:   logger,
	}

	ids := make([]int64, 0, len(users))
	for _, u := range users {
		id, err := ensureUser(ctx, userSvc, jwtm, u)
		if err != nil {
			logger.WithError(err).WithField("username", u.Username).Fatal("failed to seed user")
		}
		logger.WithFields(logrus.Fields{"id": id, "email": u.Email, "password": u.Password}).Info("seeded user")
		ids = append(ids, id)
	}
	jake, anna := ids[0], ids[1]

	if _, err := profileSvc.Follow(ctx, anna, users[0].Username); err != nil {
		logger.WithError(err).Fatal("failed to seed follow")
	}

	for _, in := range articles {
		a, err := articleSvc.CreateArticle(ctx, jake, in)
		if errors.Is(err, application.ErrConflict) {
			logger.WithField("title", in.Title).Info("article already seeded")
			continue
		}
		if err != nil {
			logger.WithError(err).WithField("title", in.Title).Fatal("failed to seed article")
		}
		if _, err := articleSvc.CreateComment(ctx, anna, a.Slug, "Thank you so much!"); err != nil {
			logger.WithError(err).Fatal("failed to seed comment")
		}
		if _, err := articleSvc.FavoriteArticle(ctx, anna, a.Slug); err != nil {
			logger.WithError(err).Fatal("failed to seed favorite")
		}
		logger.WithFields(logrus.Fields{"slug": a.Slug, "tags": a.TagList}).Info("seeded article")
	}
	logger.Info("seed complete")
}

// ensureUser registers u, or logs in when it already exists, and returns its ID.
func ensureUser(ctx context.Context, svc *application.UserService, jwtm *helpers.JWTManager, u seedUser) (int64, error) {
	out, err := svc.Register(ctx, application.RegisterInput{Username: u.Username, Email: u.Email, Password: u.Password})
	if errors.Is(err, application.ErrConflict) {
		out, err = svc.Login(ctx, u.Email, u.Password)
	}
	if err != nil {
		return 0, err
	}
	claims, err := jwtm.Parse(out.Token)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}
