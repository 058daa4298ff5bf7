package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/andrsolo/contactbook/internal/interface/http"
	"github.com/andrsolo/contactbook/internal/interface/middleware"
)

// UserModule registers the profile routes. /me carries its own per-user
// rate limit; avatar changes are restricted to admins.
type UserModule struct {
	Handler *handlers.UserHandler
	Auth    gin.HandlerFunc
	Redis   *redis.Client
}

func NewUserModule(h *handlers.UserHandler, auth gin.HandlerFunc, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, Auth: auth, Redis: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users", m.Auth)

	meLimit := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByUser())
	users.GET("/me", meLimit, m.Handler.Me)
	users.PATCH("/avatar", middleware.RequireAdmin(), m.Handler.UpdateAvatar)
}
