package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/andrsolo/contactbook/internal/application"
	repo "github.com/andrsolo/contactbook/internal/domain/repository"
	"github.com/andrsolo/contactbook/internal/interface/middleware"
	"github.com/andrsolo/contactbook/pkg/response"
	"github.com/andrsolo/contactbook/pkg/validation"
)

const dateLayout = "2006-01-02"

type ContactHandler struct {
	Svc    *application.ContactService
	Logger *logrus.Logger
}

func NewContactHandler(svc *application.ContactService, logger *logrus.Logger) *ContactHandler {
	return &ContactHandler{Svc: svc, Logger: logger}
}

type createContactRequest struct {
	FirstName string `json:"first_name" binding:"required,max=50"`
	LastName  string `json:"last_name" binding:"required,max=50"`
	Email     string `json:"email" binding:"required,email,max=100"`
	Phone     string `json:"phone" binding:"required,max=20"`
	Birthday  string `json:"birthday" binding:"required,datetime=2006-01-02"`
	Info      string `json:"info" binding:"max=200"`
}

type updateContactRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=50"`
	LastName  *string `json:"last_name" binding:"omitempty,max=50"`
	Email     *string `json:"email" binding:"omitempty,email,max=100"`
	Phone     *string `json:"phone" binding:"omitempty,max=20"`
	Birthday  *string `json:"birthday" binding:"omitempty,datetime=2006-01-02"`
	Info      *string `json:"info" binding:"omitempty,max=200"`
}

func pagination(c *gin.Context) (skip, limit int) {
	skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	return skip, limit
}

func contactID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error[any](c, http.StatusBadRequest, "invalid contact id", nil)
		return 0, false
	}
	return id, true
}

// Create POST /api/contacts/
func (h *ContactHandler) Create(c *gin.Context) {
	var req createContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	birthday, _ := time.Parse(dateLayout, req.Birthday)
	owner := middleware.CurrentUser(c)

	contact, err := h.Svc.Create(c.Request.Context(), application.ContactInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Birthday:  birthday,
		Info:      req.Info,
	}, owner.ID)
	if err != nil {
		h.Logger.WithError(err).Error("create contact failed")
		response.Error[any](c, http.StatusInternalServerError, "create failed", nil)
		return
	}
	response.Success(c, http.StatusCreated, contact, "contact created", nil)
}

// Get GET /api/contacts/:id
func (h *ContactHandler) Get(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}
	owner := middleware.CurrentUser(c)
	contact, err := h.Svc.Get(c.Request.Context(), id, owner.ID)
	switch {
	case errors.Is(err, application.ErrContactNotFound):
		response.Error[any](c, http.StatusNotFound, "contact not found", nil)
		return
	case err != nil:
		h.Logger.WithError(err).Error("get contact failed")
		response.Error[any](c, http.StatusInternalServerError, "lookup failed", nil)
		return
	}
	response.Success(c, http.StatusOK, contact, "contact", nil)
}

// List GET /api/contacts/
func (h *ContactHandler) List(c *gin.Context) {
	skip, limit := pagination(c)
	owner := middleware.CurrentUser(c)
	contacts, err := h.Svc.List(c.Request.Context(), skip, limit, owner.ID)
	if err != nil {
		h.Logger.WithError(err).Error("list contacts failed")
		response.Error[any](c, http.StatusInternalServerError, "list failed", nil)
		return
	}
	response.Success(c, http.StatusOK, contacts, "contacts", nil)
}

// Update PATCH /api/contacts/:id
func (h *ContactHandler) Update(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}
	var req updateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	upd := repo.ContactUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Info:      req.Info,
	}
	if req.Birthday != nil {
		birthday, _ := time.Parse(dateLayout, *req.Birthday)
		upd.Birthday = &birthday
	}

	owner := middleware.CurrentUser(c)
	contact, err := h.Svc.Update(c.Request.Context(), id, owner.ID, upd)
	switch {
	case errors.Is(err, application.ErrContactNotFound):
		response.Error[any](c, http.StatusNotFound, "contact not found", nil)
		return
	case err != nil:
		h.Logger.WithError(err).Error("update contact failed")
		response.Error[any](c, http.StatusInternalServerError, "update failed", nil)
		return
	}
	response.Success(c, http.StatusOK, contact, "contact updated", nil)
}

// Delete DELETE /api/contacts/:id
// Returns the removed record.
func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}
	owner := middleware.CurrentUser(c)
	contact, err := h.Svc.Delete(c.Request.Context(), id, owner.ID)
	switch {
	case errors.Is(err, application.ErrContactNotFound):
		response.Error[any](c, http.StatusNotFound, "contact not found", nil)
		return
	case err != nil:
		h.Logger.WithError(err).Error("delete contact failed")
		response.Error[any](c, http.StatusInternalServerError, "delete failed", nil)
		return
	}
	response.Success(c, http.StatusOK, contact, "contact deleted", nil)
}

// Find GET /api/contacts/find/?query=
func (h *ContactHandler) Find(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		response.Error[any](c, http.StatusBadRequest, "query parameter is required", nil)
		return
	}
	skip, limit := pagination(c)
	owner := middleware.CurrentUser(c)
	contacts, err := h.Svc.Find(c.Request.Context(), query, skip, limit, owner.ID)
	if err != nil {
		h.Logger.WithError(err).Error("find contacts failed")
		response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, contacts, "contacts", nil)
}

// Birthdays GET /api/contacts/birthdays/
func (h *ContactHandler) Birthdays(c *gin.Context) {
	skip, limit := pagination(c)
	owner := middleware.CurrentUser(c)
	contacts, err := h.Svc.Birthdays(c.Request.Context(), skip, limit, owner.ID)
	if err != nil {
		h.Logger.WithError(err).Error("birthday lookup failed")
		response.Error[any](c, http.StatusInternalServerError, "lookup failed", nil)
		return
	}
	response.Success(c, http.StatusOK, contacts, "upcoming birthdays", nil)
}

// Search GET /api/contacts/search?query= (Elasticsearch-backed)
func (h *ContactHandler) Search(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		response.Error[any](c, http.StatusBadRequest, "query parameter is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	owner := middleware.CurrentUser(c)
	hits, err := h.Svc.Search(c.Request.Context(), query, size, owner.ID)
	if err != nil {
		h.Logger.WithError(err).Error("es search failed")
		response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "contacts", nil)
}
