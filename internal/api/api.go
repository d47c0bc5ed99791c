package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wuwenbin0122/user-console/internal/models"
	"github.com/wuwenbin0122/user-console/internal/users"
)

// UserService is the subset of users.Service the handlers depend on.
type UserService interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, payload models.UserCreate) (models.User, error)
	UpdateUserRole(ctx context.Context, id, role string) (models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type Handler struct {
	service   UserService
	validator *users.Validator
	logger    *zap.Logger
}

func NewHandler(service UserService, validator *users.Validator, logger *zap.Logger) *Handler {
	if validator == nil {
		validator = users.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, validator: validator, logger: logger}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	userGroup := router.Group("/users")
	userGroup.GET("", h.handleList)
	userGroup.POST("", h.handleCreate)
	userGroup.PUT("/:id", h.handleUpdateRole)
	userGroup.DELETE("/:id", h.handleDelete)
}

func (h *Handler) handleList(c *gin.Context) {
	list, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	out := make([]models.User, 0, len(list))
	for _, u := range list {
		out = append(out, u.Sanitize())
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) handleCreate(c *gin.Context) {
	var req models.UserCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, users.CodeInvalidPayload, "invalid payload", nil)
		return
	}

	if err := h.validator.Validate(req); err != nil {
		var vErr *users.ValidationError
		if errors.As(err, &vErr) {
			writeError(c, http.StatusBadRequest, users.CodeValidationFailed, "missing required fields", vErr.Fields)
			return
		}
		h.logger.Error("validator failure", zap.Error(err))
		writeError(c, http.StatusBadRequest, users.CodeInvalidPayload, "invalid payload", nil)
		return
	}

	created, err := h.service.CreateUser(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created.Sanitize())
}

func (h *Handler) handleUpdateRole(c *gin.Context) {
	var req models.UserUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, users.CodeInvalidPayload, "invalid payload", nil)
		return
	}

	updated, err := h.service.UpdateUserRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated.Sanitize())
}

func (h *Handler) handleDelete(c *gin.Context) {
	if err := h.service.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	var storeErr *users.StoreError
	switch {
	case errors.Is(err, users.ErrNotFound):
		writeError(c, http.StatusNotFound, users.CodeUserNotFound, "user not found", nil)
	case errors.As(err, &storeErr):
		writeError(c, http.StatusInternalServerError, users.CodeStoreUnavailable, "user store unavailable", nil)
	default:
		h.logger.Error("unhandled service error", zap.String("path", c.FullPath()), zap.Error(err))
		writeError(c, http.StatusInternalServerError, users.CodeStoreUnavailable, "internal error", nil)
	}
}

func writeError(c *gin.Context, status int, code, message string, fields []string) {
	body := gin.H{
		"code":    code,
		"message": message,
	}
	if len(fields) > 0 {
		body["fields"] = fields
	}
	c.JSON(status, body)
}
