package container

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-todo-auth/config"
	app "github.com/oksasatya/go-todo-auth/internal/application"
	"github.com/oksasatya/go-todo-auth/internal/domain/repository"
	"github.com/oksasatya/go-todo-auth/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-todo-auth/internal/infrastructure/postgres"
	"github.com/oksasatya/go-todo-auth/pkg/helpers"
	"github.com/oksasatya/go-todo-auth/pkg/mailer"
)

// Build constructs every component from cfg. The returned cleanup closes
// whatever was opened and is safe to call when Build fails.
func Build(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, func(), error) {
	c := &Container{Config: cfg, Logger: logger}
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// Credential store
	repo, pool, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, cleanup, err
	}
	closers = append(closers, closeStore)
	c.Repo, c.PGPool = repo, pool

	// Redis (rate limiting only; fail open when unreachable)
	if cfg.RateLimitEnabled {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := helpers.PingRedis(ctx, rdb); err != nil {
			logger.WithError(err).Warn("redis unreachable; rate limiting disabled")
			_ = rdb.Close()
		} else {
			c.Redis = rdb
			closers = append(closers, func() { _ = rdb.Close() })
		}
	}

	// Avatar hosting
	images := helpers.NewGCSImageHost(nil, cfg.GCSBucket, cfg.AvatarFolder)
	if cfg.GCSBucket != "" {
		gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return nil, cleanup, fmt.Errorf("init gcs: %w", err)
		}
		closers = append(closers, func() { _ = gcs.Close() })
		c.GCS = gcs
		images.Client = gcs
	} else {
		logger.Warn("GCS_BUCKET not set; avatar uploads will fail")
	}

	// Account directory
	var index app.AccountIndex
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			return nil, cleanup, fmt.Errorf("init elasticsearch: %w", err)
		}
		c.ES = es
		index = helpers.NewESAccountIndex(es, cfg.ESAccountsIndex)
	}

	notifier, err := buildNotifier(cfg, logger, c, &closers)
	if err != nil {
		return nil, cleanup, err
	}

	c.JWT = helpers.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	c.Cookies = helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)
	c.Service = app.NewService(app.Deps{
		Repo:        c.Repo,
		Tokens:      c.JWT,
		Images:      images,
		Notifier:    notifier,
		Index:       index,
		Logger:      logger,
		OTPExpire:   cfg.OTPExpire,
		ResetExpire: cfg.ResetOTPExpire,
	})
	return c, cleanup, nil
}

func buildNotifier(cfg *config.Config, logger *logrus.Logger, c *Container, closers *[]func()) (app.Notifier, error) {
	if !cfg.MailSendEnabled {
		logger.Warn("MAIL_SEND_ENABLED=false; notifications are logged, not sent")
		return mailer.LogNotifier{Logger: logger}, nil
	}
	switch cfg.MailDelivery {
	case "direct":
		if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
			return nil, fmt.Errorf("mailgun not configured")
		}
		return mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender), nil
	case "queue", "":
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			return nil, fmt.Errorf("connect rabbitmq: %w", err)
		}
		*closers = append(*closers, pub.Close)
		c.RabbitPub = pub
		return mailer.NewQueueNotifier(pub), nil
	default:
		return nil, fmt.Errorf("unknown MAIL_DELIVERY %q", cfg.MailDelivery)
	}
}

// OpenStore builds only the credential store, for tools that need nothing else.
func OpenStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (repository.AccountRepository, func(), error) {
	repo, _, closeStore, err := openStore(ctx, cfg, logger)
	return repo, closeStore, err
}

func openStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (repository.AccountRepository, *pgxpool.Pool, func(), error) {
	noop := func() {}
	switch cfg.StoreDriver {
	case "memory":
		logger.Warn("using in-memory account store; data is lost on restart")
		return memory.NewAccountRepository(cfg.PasswordHashCost), nil, noop, nil
	case "postgres", "":
	default:
		return nil, nil, noop, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	pool, err := pginfra.NewPool(ctx, pginfra.PoolOptions{
		DSN:         cfg.PostgresDSN(),
		MaxConns:    cfg.DBMaxConns,
		MinConns:    cfg.DBMinConns,
		MaxConnLife: cfg.DBMaxConnLife,
	})
	if err != nil {
		return nil, nil, noop, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		pool.Close()
		return nil, nil, noop, fmt.Errorf("migrate: %w", err)
	}
	return pginfra.NewAccountRepository(pool, cfg.PasswordHashCost), pool, pool.Close, nil
}
