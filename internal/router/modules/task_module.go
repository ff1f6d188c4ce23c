package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-todo-auth/internal/interface/http"
	"github.com/oksasatya/go-todo-auth/internal/interface/middleware"
)

type TaskModule struct {
	Handler *handlers.TaskHandler
	Gate    gin.HandlerFunc
	RDB     *redis.Client
}

func NewTaskModule(h *handlers.TaskHandler, gate gin.HandlerFunc, rdb *redis.Client) *TaskModule {
	return &TaskModule{Handler: h, Gate: gate, RDB: rdb}
}

func (m *TaskModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(m.Gate)
	auth.Use(middleware.RateLimit(m.RDB, 300, time.Minute, middleware.KeyByAccountID(), nil))
	{
		auth.POST("/addTask", m.Handler.AddTask)
		auth.PUT("/task/:taskId", m.Handler.ToggleTask)
		auth.DELETE("/task/:taskId", m.Handler.RemoveTask)
	}
}
