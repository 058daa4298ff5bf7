package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/andrsolo/contactbook/internal/interface/http"
	"github.com/andrsolo/contactbook/internal/interface/middleware"
)

// AuthModule exposes registration, login and the email-driven flows.
// All routes are public; brute-force protection is per-IP rate limiting.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Redis   *redis.Client
}

func NewAuthModule(h *handlers.AuthHandler, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, Redis: rdb}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	limited := middleware.RateLimit(m.Redis, 20, time.Minute, middleware.KeyByIPAndPath())

	auth.POST("/register", limited, m.Handler.Register)
	auth.POST("/login", limited, m.Handler.Login)
	auth.GET("/confirmed_email/:token", m.Handler.ConfirmEmail)
	auth.POST("/request_email", limited, m.Handler.RequestEmail)
	auth.POST("/reset_password", limited, m.Handler.ResetPassword)
	auth.GET("/confirm_reset_password/:token", m.Handler.ConfirmResetPassword)
}
