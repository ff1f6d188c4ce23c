package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/go-todo-auth/internal/application"
	"github.com/oksasatya/go-todo-auth/internal/interface/middleware"
	"github.com/oksasatya/go-todo-auth/pkg/response"
)

type UserHandler struct {
	Svc    *app.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *app.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type updateProfileRequest struct {
	Name string `json:"name" form:"name"`
}

type updatePasswordRequest struct {
	OldPassword string `json:"oldPassword" form:"oldPassword"`
	NewPassword string `json:"newPassword" form:"newPassword"`
}

// GetProfile GET /profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	acc, ok := middleware.CurrentAccount(c)
	if !ok {
		requireAccount(c)
		return
	}
	response.Success(c, http.StatusOK, viewAccount(acc), "profile", nil)
}

// UpdateProfile PUT /updateProfile (multipart: name?, avatar?)
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	id, ok := requireAccount(c)
	if !ok {
		return
	}
	var req updateProfileRequest
	if !bind(c, &req) {
		return
	}
	upload, closeFn, err := formUpload(c, avatarField)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid avatar upload", err.Error())
		return
	}
	defer closeFn()

	acc, err := h.Svc.UpdateProfile(c.Request.Context(), id, app.UpdateProfileInput{Name: req.Name, Avatar: upload})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, viewAccount(acc), "Profile Updated successfully", nil)
}

// UpdatePassword PUT /updatePassword {oldPassword, newPassword}
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	id, ok := requireAccount(c)
	if !ok {
		return
	}
	var req updatePasswordRequest
	if !bind(c, &req) {
		return
	}
	if err := h.Svc.ChangePassword(c.Request.Context(), id, req.OldPassword, req.NewPassword); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Password Updated successfully", nil)
}

// Search GET /users/search?q=&size=
func (h *UserHandler) Search(c *gin.Context) {
	if _, ok := requireAccount(c); !ok {
		return
	}
	size, _ := strconv.Atoi(c.Query("size"))
	hits, err := h.Svc.SearchAccounts(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", gin.H{"count": len(hits)})
}
