package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/andrsolo/contactbook/internal/interface/http"
)

// ContactModule registers the contact CRUD and lookup routes.
// Every route requires a valid session token.
type ContactModule struct {
	Handler *handlers.ContactHandler
	Auth    gin.HandlerFunc
}

func NewContactModule(h *handlers.ContactHandler, auth gin.HandlerFunc) *ContactModule {
	return &ContactModule{Handler: h, Auth: auth}
}

func (m *ContactModule) Register(rg *gin.RouterGroup) {
	contacts := rg.Group("/contacts", m.Auth)

	contacts.POST("/", m.Handler.Create)
	contacts.GET("/", m.Handler.List)
	contacts.GET("/find/", m.Handler.Find)
	contacts.GET("/birthdays/", m.Handler.Birthdays)
	contacts.GET("/search", m.Handler.Search)
	contacts.GET("/:id", m.Handler.Get)
	contacts.PATCH("/:id", m.Handler.Update)
	contacts.DELETE("/:id", m.Handler.Delete)
}
