package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/seminar-service/internal/models"
	"github.com/SAP-F-2025/seminar-service/internal/services"
	"github.com/SAP-F-2025/seminar-service/internal/utils"
	"github.com/SAP-F-2025/seminar-service/internal/validator"
)

// ErrorResponse is the error body for every endpoint.
type ErrorResponse struct {
	Message           string `json:"message"`
	Details           any    `json:"details,omitempty"`
	RemainingAttempts *int   `json:"remainingAttempts,omitempty"`
}

// ListResponse wraps paginated collections.
type ListResponse struct {
	Data   any   `json:"data"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// handleServiceError translates the service error taxonomy into HTTP
// responses. Anything unrecognized is logged in full and reported
// generically.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: verrs,
		})
		return
	}

	var otpErr *services.OTPError
	if errors.As(err, &otpErr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message:           otpErr.Message,
			RemainingAttempts: otpErr.RemainingAttempts,
		})
		return
	}

	if errors.Is(err, services.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Invalid credentials"})
		return
	}

	var perm *services.PermissionError
	if errors.As(err, &perm) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "You do not have permission to perform this action",
			Details: perm.Reason,
		})
		return
	}

	var notFound *services.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Message: notFound.Error()})
		return
	}

	var conflict *services.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, ErrorResponse{Message: conflict.Message})
		return
	}

	var upstream *services.UpstreamError
	if errors.As(err, &upstream) {
		utils.FromContext(c, h.logger).Error("upstream failure", "system", upstream.System, "error", err)
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Message: "A dependent service is unavailable, please try again"})
		return
	}

	utils.FromContext(c, h.logger).Error("unhandled service error",
		"path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
}

// currentUser returns the authenticated user loaded by the auth middleware.
func (h *BaseHandler) currentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return nil, false
	}
	return user, true
}
