package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-todo-auth/internal/interface/http"
	"github.com/oksasatya/go-todo-auth/internal/interface/middleware"
)

// UserModule wires profile routes. All of them require a session.
type UserModule struct {
	Handler *handlers.UserHandler
	Gate    gin.HandlerFunc
	RDB     *redis.Client
}

func NewUserModule(h *handlers.UserHandler, gate gin.HandlerFunc, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, Gate: gate, RDB: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(m.Gate)
	auth.Use(middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByAccountID(), nil))
	{
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/updateProfile", m.Handler.UpdateProfile)
		auth.PUT("/updatePassword", m.Handler.UpdatePassword)
		auth.GET("/users/search", m.Handler.Search)
	}
}
