package handlers

import (
	"time"

	"github.com/oksasatya/go-todo-auth/internal/domain/entity"
)

// accountView is the public JSON shape of an account. It never carries the
// password hash or challenge codes.
type accountView struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Avatar    *entity.Avatar `json:"avatar,omitempty"`
	Verified  bool           `json:"verified"`
	Tasks     []entity.Task  `json:"tasks"`
	CreatedAt time.Time      `json:"created_at"`
}

func viewAccount(a *entity.Account) accountView {
	tasks := a.Tasks
	if tasks == nil {
		tasks = []entity.Task{}
	}
	return accountView{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Avatar:    a.Avatar,
		Verified:  a.IsVerified(),
		Tasks:     tasks,
		CreatedAt: a.CreatedAt,
	}
}
