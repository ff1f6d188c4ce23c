package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-todo-auth/internal/interface/http"
	"github.com/oksasatya/go-todo-auth/internal/interface/middleware"
)

// AuthModule wires registration, verification and password reset routes.
// Public: POST /register, POST /login, GET /logout, POST /forgetPassword, PUT /resetPassword
// Protected: POST /verify, POST /resendOtp
type AuthModule struct {
	Handler *handlers.AuthHandler
	Gate    gin.HandlerFunc
	RDB     *redis.Client
}

func NewAuthModule(h *handlers.AuthHandler, gate gin.HandlerFunc, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, Gate: gate, RDB: rdb}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	registerLimiter := middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	loginLimiter := middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	forgotLimiter := middleware.RateLimit(m.RDB, 5, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	resetLimiter := middleware.RateLimit(m.RDB, 30, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())

	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.GET("/logout", m.Handler.Logout)
	rg.POST("/forgetPassword", forgotLimiter, m.Handler.ForgotPassword)
	rg.PUT("/resetPassword", resetLimiter, m.Handler.ResetPassword)

	// OTP guessing is limited per account
	otpLimiter := middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByAccountID(), nil)
	rg.POST("/verify", m.Gate, otpLimiter, m.Handler.Verify)
	rg.POST("/resendOtp", m.Gate, otpLimiter, m.Handler.ResendOTP)
}
