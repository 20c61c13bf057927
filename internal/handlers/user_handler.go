package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/seminar-service/internal/models"
	"github.com/SAP-F-2025/seminar-service/internal/services"
	"github.com/SAP-F-2025/seminar-service/internal/utils"
	"github.com/SAP-F-2025/seminar-service/internal/validator"
)

type UserHandler struct {
	BaseHandler
	userService   services.UserService
	exportService services.ExportService
}

func NewUserHandler(userService services.UserService, exportService services.ExportService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler:   NewBaseHandler(logger),
		userService:   userService,
		exportService: exportService,
	}
}

// ListUsers lists accounts with optional name/email search and role filter
// @Summary List users
// @Tags users
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	actor, ok := h.currentUser(c)
	if !ok {
		return
	}

	opts := services.UserListOptions{
		Query:  c.Query("q"),
		Limit:  intQuery(c, "limit", 20),
		Offset: intQuery(c, "offset", 0),
	}
	if raw := c.Query("role"); raw != "" {
		role := models.UserRole(raw)
		if !role.Valid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid role filter", Details: raw})
			return
		}
		opts.Role = &role
	}

	users, total, err := h.userService.List(c.Request.Context(), opts, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Data: users, Total: total, Limit: opts.Limit, Offset: opts.Offset})
}

// GetUser retrieves one account
// @Summary Get user
// @Tags users
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	actor, ok := h.currentUser(c)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser updates profile fields; role changes are admin-only
// @Summary Update user
// @Tags users
// @Security BearerAuth
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req validator.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	actor, ok := h.currentUser(c)
	if !ok {
		return
	}

	user, err := h.userService.Update(c.Request.Context(), c.Param("id"), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser removes an account
// @Summary Delete user
// @Tags users
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	actor, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), c.Param("id"), actor); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// ExportUsers downloads every account as an XLSX workbook
// @Summary Export users
// @Tags users
// @Security BearerAuth
// @Router /users/export [get]
func (h *UserHandler) ExportUsers(c *gin.Context) {
	actor, ok := h.currentUser(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportService.ExportUsers(c.Request.Context(), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
