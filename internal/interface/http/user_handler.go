package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/andrsolo/contactbook/internal/application"
	"github.com/andrsolo/contactbook/internal/interface/middleware"
	"github.com/andrsolo/contactbook/pkg/response"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

// Me GET /api/users/me
func (h *UserHandler) Me(c *gin.Context) {
	u := middleware.CurrentUser(c)
	response.Success(c, http.StatusOK, viewOf(u), "profile", nil)
}

// UpdateAvatar PATCH /api/users/avatar (admin only)
// Uploads the file to the external image host and stores the public URL.
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "avatar file is required", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "cannot read avatar file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	u := middleware.CurrentUser(c)
	updated, err := h.Svc.UpdateAvatar(c.Request.Context(), u, f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		h.Logger.WithError(err).Error("avatar update failed")
		response.Error[any](c, http.StatusInternalServerError, "avatar update failed", nil)
		return
	}
	response.Success(c, http.StatusOK, viewOf(updated), "avatar updated", nil)
}
