package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-todo-auth/config"
	"github.com/oksasatya/go-todo-auth/internal/container"
	"github.com/oksasatya/go-todo-auth/pkg/helpers"
)

// reaper deletes unverified accounts whose verification OTP expired. It runs
// once, or every REAPER_INTERVAL when that is set.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-reaper", cfg.Env)

	// The reaper never sends mail; don't dial RabbitMQ or Mailgun for it.
	cfg.MailSendEnabled = false
	cfg.RateLimitEnabled = false

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, cleanup, err := container.Build(ctx, cfg, logger)
	defer cleanup()
	if err != nil {
		cleanup()
		log.Fatalf("startup failed: %v", err)
	}

	reap := func() {
		n, err := c.Service.ReapUnverified(ctx)
		if err != nil {
			helpers.LogError(logger, "reap failed", err, nil)
			return
		}
		helpers.LogInfo(logger, "reaped unverified accounts", logrus.Fields{"deleted": n})
	}

	reap()
	if cfg.ReaperInterval <= 0 {
		return
	}

	ticker := time.NewTicker(cfg.ReaperInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("reaper stopped")
			return
		case <-ticker.C:
			reap()
		}
	}
}
