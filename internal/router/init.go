package router

import (
	"github.com/oksasatya/go-todo-auth/internal/container"
	handlers "github.com/oksasatya/go-todo-auth/internal/interface/http"
	"github.com/oksasatya/go-todo-auth/internal/interface/middleware"
	"github.com/oksasatya/go-todo-auth/internal/router/modules"
)

// InitModules builds handlers from the container and registers every module.
// This function should be called once during application startup.
func InitModules(r *Registry, c *container.Container) {
	gate := middleware.Auth(c.Repo, c.JWT, c.Logger)
	rdb := c.RateLimiter()

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(c.Service, c.Logger, c.Cookies), gate, rdb))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(c.Service, c.Logger), gate, rdb))
	r.Add(modules.NewTaskModule(handlers.NewTaskHandler(c.Service, c.Logger), gate, rdb))

	if c.Config != nil && c.Config.DebugMetricsEnabled {
		modules.NewDebugModule(rdb).Register(r.Engine.Group("/api"))
	}
}
