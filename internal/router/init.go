package router

import (
	"github.com/gin-gonic/gin"

	"github.com/andrsolo/contactbook/internal/application"
	"github.com/andrsolo/contactbook/internal/container"
	"github.com/andrsolo/contactbook/internal/infrastructure/postgres"
	handlers "github.com/andrsolo/contactbook/internal/interface/http"
	"github.com/andrsolo/contactbook/internal/interface/middleware"
	"github.com/andrsolo/contactbook/internal/router/modules"
	"github.com/andrsolo/contactbook/pkg/cache"
)

// Init builds the repositories, services and handlers out of the container
// singletons and registers every feature module under /api.
func Init(engine *gin.Engine) *Registry {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	rdb := container.GetRedis()
	tm := container.GetTokens()

	userRepo := postgres.NewUserRepository(container.GetPGPool())
	contactRepo := postgres.NewContactRepository(container.GetPGPool())

	authSvc := application.NewAuthService(
		userRepo, tm, container.GetRabbitPub(), logger,
		cfg.AppName, cfg.ConfirmEmailURL, cfg.ResetPasswordURL, cfg.MailSendEnabled,
	)
	contactSvc := application.NewContactService(
		contactRepo, cache.NewRedisBackend(rdb), logger,
		container.GetES(), cfg.ESContactsIndex,
		cfg.ContactCacheTTL, cfg.BirthdayCacheTTL,
	)
	userSvc := application.NewUserService(userRepo, container.GetGCS(), cfg.GCSBucket, logger)

	authMW := middleware.Auth(userRepo, tm)

	reg := NewRegistry(engine)
	reg.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, logger), rdb))
	reg.Add(modules.NewContactModule(handlers.NewContactHandler(contactSvc, logger), authMW))
	reg.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, logger), authMW, rdb))
	if cfg.DebugMetricsEnabled {
		reg.Add(modules.NewDebugModule())
	}
	reg.RegisterAll()
	return reg
}
