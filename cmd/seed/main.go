package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/oksasatya/go-todo-auth/config"
	"github.com/oksasatya/go-todo-auth/internal/container"
	"github.com/oksasatya/go-todo-auth/internal/domain/entity"
	"github.com/oksasatya/go-todo-auth/internal/domain/repository"
	"github.com/oksasatya/go-todo-auth/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	repo, closeStore, err := container.OpenStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer closeStore()

	email := "demo@example.com"
	password := "password123"
	name := "demoUser"

	if existing, err := repo.FindByEmail(ctx, email); err == nil {
		fmt.Printf("demo account already present: id=%s email=%s\n", existing.ID, existing.Email)
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		log.Fatalf("failed to look up demo account: %v", err)
	}

	now := time.Now().UTC()
	acc := &entity.Account{
		Email:        email,
		Name:         name,
		Verification: entity.Verified{At: now},
		Reset:        entity.ResetIdle{},
		Tasks: []entity.Task{
			{ID: uuid.NewString(), Title: "Try the API", Description: "toggle me with PUT /api/v1/task/:taskId", CreatedAt: now},
		},
	}
	acc.SetPassword(password)
	if err := repo.Create(ctx, acc); err != nil {
		log.Fatalf("failed to seed account: %v", err)
	}
	fmt.Printf("seeded account: id=%s email=%s name=%s password=%s\n", acc.ID, email, name, password)
}
