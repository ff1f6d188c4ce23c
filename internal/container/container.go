package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-todo-auth/config"
	app "github.com/oksasatya/go-todo-auth/internal/application"
	"github.com/oksasatya/go-todo-auth/internal/domain/repository"
	"github.com/oksasatya/go-todo-auth/pkg/helpers"
)

// Container holds the components built once in main and handed to the router.
// Optional clients are nil when their backend is not configured.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	PGPool    *pgxpool.Pool         // nil with the memory store
	Redis     *redis.Client         // nil disables rate limiting
	GCS       *storage.Client       // nil when avatars are not hosted on GCS
	ES        *elasticsearch.Client // nil disables the account directory
	RabbitPub *helpers.RabbitPublisher

	JWT     *helpers.JWTManager
	Cookies *helpers.Manager
	Repo    repository.AccountRepository
	Service *app.Service
}

// RateLimiter returns the Redis client used by rate limit middleware, or nil
// when limiting is disabled.
func (c *Container) RateLimiter() *redis.Client {
	if c == nil || c.Config == nil || !c.Config.RateLimitEnabled {
		return nil
	}
	return c.Redis
}
