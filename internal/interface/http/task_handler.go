package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/go-todo-auth/internal/application"
	"github.com/oksasatya/go-todo-auth/pkg/response"
)

type TaskHandler struct {
	Svc    *app.Service
	Logger *logrus.Logger
}

func NewTaskHandler(svc *app.Service, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{Svc: svc, Logger: logger}
}

type addTaskRequest struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
}

// AddTask POST /addTask {title, description}
func (h *TaskHandler) AddTask(c *gin.Context) {
	id, ok := requireAccount(c)
	if !ok {
		return
	}
	var req addTaskRequest
	if !bind(c, &req) {
		return
	}
	task, err := h.Svc.AddTask(c.Request.Context(), id, req.Title, req.Description)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, task, "Task added successfully", nil)
}

// ToggleTask PUT /task/:taskId
func (h *TaskHandler) ToggleTask(c *gin.Context) {
	id, ok := requireAccount(c)
	if !ok {
		return
	}
	task, err := h.Svc.ToggleTask(c.Request.Context(), id, c.Param("taskId"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, task, "Task Updated successfully", nil)
}

// RemoveTask DELETE /task/:taskId
func (h *TaskHandler) RemoveTask(c *gin.Context) {
	id, ok := requireAccount(c)
	if !ok {
		return
	}
	if err := h.Svc.RemoveTask(c.Request.Context(), id, c.Param("taskId")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Task removed successfully", nil)
}
