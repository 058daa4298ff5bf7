package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/andrsolo/contactbook/internal/application"
	"github.com/andrsolo/contactbook/internal/domain/entity"
	"github.com/andrsolo/contactbook/pkg/response"
	"github.com/andrsolo/contactbook/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

// userView is the public shape of a user; the credential digest never
// leaves the service.
type userView struct {
	ID        int64       `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Avatar    string      `json:"avatar,omitempty"`
	Role      entity.Role `json:"role"`
	Confirmed bool        `json:"confirmed"`
	CreatedAt time.Time   `json:"created_at"`
}

func viewOf(u *entity.User) userView {
	return userView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Avatar:    u.Avatar,
		Role:      u.Role,
		Confirmed: u.Confirmed,
		CreatedAt: u.CreatedAt,
	}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,pwd"`
	Role     string `json:"role" binding:"required,oneof=user admin"`
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     entity.Role(req.Role),
	})
	switch {
	case errors.Is(err, application.ErrEmailTaken), errors.Is(err, application.ErrUsernameTaken):
		response.Error[any](c, http.StatusConflict, err.Error(), nil)
		return
	case err != nil:
		h.Logger.WithError(err).Error("register failed")
		response.Error[any](c, http.StatusInternalServerError, "registration failed", nil)
		return
	}
	response.Success(c, http.StatusCreated, viewOf(u), "user registered", nil)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	token, err := h.Svc.Login(c.Request.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "invalid username or password", nil)
		return
	case errors.Is(err, application.ErrEmailNotConfirmed):
		response.Error[any](c, http.StatusUnauthorized, "email not confirmed", nil)
		return
	case err != nil:
		h.Logger.WithError(err).Error("login failed")
		response.Error[any](c, http.StatusInternalServerError, "login failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"}, "login successful", nil)
}

// ConfirmEmail GET /api/auth/confirmed_email/:token
func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	already, err := h.Svc.ConfirmEmail(c.Request.Context(), c.Param("token"))
	switch {
	case errors.Is(err, application.ErrInvalidToken):
		response.Error[any](c, http.StatusBadRequest, "verification error", nil)
		return
	case err != nil:
		h.Logger.WithError(err).Error("confirm email failed")
		response.Error[any](c, http.StatusInternalServerError, "verification error", nil)
		return
	}
	if already {
		response.Success[any](c, http.StatusOK, nil, "email already confirmed", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "email confirmed", nil)
}

type requestEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// RequestEmail POST /api/auth/request_email
// Re-sends the confirmation email. The reply does not reveal whether the
// address has an account.
func (h *AuthHandler) RequestEmail(c *gin.Context) {
	var req requestEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	already, err := h.Svc.RequestEmailConfirmation(c.Request.Context(), req.Email)
	if err != nil {
		h.Logger.WithError(err).Error("request email failed")
		response.Error[any](c, http.StatusInternalServerError, "request failed", nil)
		return
	}
	if already {
		response.Success[any](c, http.StatusOK, nil, "email already confirmed", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "check your email for confirmation", nil)
}

type resetPasswordRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

// ResetPassword POST /api/auth/reset_password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	err := h.Svc.RequestPasswordReset(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, application.ErrEmailNotConfirmed):
		response.Error[any](c, http.StatusBadRequest, "email not confirmed", nil)
		return
	case err != nil:
		h.Logger.WithError(err).Error("password reset request failed")
		response.Error[any](c, http.StatusInternalServerError, "request failed", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "check your email for confirmation", nil)
}

// ConfirmResetPassword GET /api/auth/confirm_reset_password/:token
func (h *AuthHandler) ConfirmResetPassword(c *gin.Context) {
	err := h.Svc.ConfirmPasswordReset(c.Request.Context(), c.Param("token"))
	switch {
	case errors.Is(err, application.ErrInvalidToken):
		response.Error[any](c, http.StatusBadRequest, "invalid or expired token", nil)
		return
	case errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	case err != nil:
		h.Logger.WithError(err).Error("password reset confirm failed")
		response.Error[any](c, http.StatusInternalServerError, "reset failed", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "password changed", nil)
}
