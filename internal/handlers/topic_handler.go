package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/seminar-service/internal/models"
	"github.com/SAP-F-2025/seminar-service/internal/services"
	"github.com/SAP-F-2025/seminar-service/internal/utils"
	"github.com/SAP-F-2025/seminar-service/internal/validator"
)

type TopicHandler struct {
	BaseHandler
	topicService services.TopicService
}

func NewTopicHandler(topicService services.TopicService, logger utils.Logger) *TopicHandler {
	return &TopicHandler{
		BaseHandler:  NewBaseHandler(logger),
		topicService: topicService,
	}
}

func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func optStringQuery(c *gin.Context, name string) *string {
	if raw := c.Query(name); raw != "" {
		return &raw
	}
	return nil
}

// CreateTopic submits a new seminar topic
// @Summary Create topic
// @Tags topics
// @Security BearerAuth
// @Success 201 {object} models.Topic
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /topics [post]
func (h *TopicHandler) CreateTopic(c *gin.Context) {
	var req validator.TopicCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	actor, ok := h.currentUser(c)
	if !ok {
		return
	}

	topic, err := h.topicService.Create(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, topic)
}

// GetTopic retrieves a topic by id
// @Summary Get topic
// @Tags topics
// @Security BearerAuth
// @Router /topics/{id} [get]
func (h *TopicHandler) GetTopic(c *gin.Context) {
	actor, ok := h.currentUser(c)
	if !ok {
		return
	}

	topic, err := h.topicService.GetByID(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, topic)
}

// ListTopics lists topics scoped to the acting role
// @Summary List topics
// @Tags topics
// @Security BearerAuth
// @Router /topics [get]
func (h *TopicHandler) ListTopics(c *gin.Context) {
	actor, ok := h.currentUser(c)
	if !ok {
		return
	}

	opts := services.TopicListOptions{
		StudentID: optStringQuery(c, "studentId"),
		TeacherID: optStringQuery(c, "teacherId"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
		Limit:     intQuery(c, "limit", 20),
		Offset:    intQuery(c, "offset", 0),
	}
	if raw := c.Query("status"); raw != "" {
		status := models.TopicStatus(raw)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid status filter", Details: raw})
			return
		}
		opts.Status = &status
	}

	topics, total, err := h.topicService.List(c.Request.Context(), opts, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Data: topics, Total: total, Limit: opts.Limit, Offset: opts.Offset})
}

// UpdateTopic updates a topic within the acting role's field mask
// @Summary Update topic
// @Tags topics
// @Security BearerAuth
// @Router /topics/{id} [put]
func (h *TopicHandler) UpdateTopic(c *gin.Context) {
	var req validator.TopicUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	actor, ok := h.currentUser(c)
	if !ok {
		return
	}

	topic, err := h.topicService.Update(c.Request.Context(), c.Param("id"), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, topic)
}

// DeleteTopic deletes a topic
// @Summary Delete topic
// @Tags topics
// @Security BearerAuth
// @Router /topics/{id} [delete]
func (h *TopicHandler) DeleteTopic(c *gin.Context) {
	actor, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.topicService.Delete(c.Request.Context(), c.Param("id"), actor); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Topic deleted"})
}
