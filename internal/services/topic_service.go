package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/seminar-service/internal/events"
	"github.com/SAP-F-2025/seminar-service/internal/models"
	"github.com/SAP-F-2025/seminar-service/internal/repositories"
	"github.com/SAP-F-2025/seminar-service/internal/utils"
	"github.com/SAP-F-2025/seminar-service/internal/validator"
)

type topicService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	validator *validator.Validator
	logger    utils.Logger
}

func NewTopicService(
	repo repositories.Repository,
	publisher events.EventPublisher,
	v *validator.Validator,
	logger utils.Logger,
) TopicService {
	return &topicService{repo: repo, publisher: publisher, validator: v, logger: logger}
}

// checkID rejects malformed ids before any lookup so a garbage path segment
// reads as a client error, not a miss.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return validator.ValidationErrors{{Field: "id", Message: "must be a valid id", Value: id}}
	}
	return nil
}

func (s *topicService) Create(ctx context.Context, req *validator.TopicCreateRequest, actor *models.User) (*models.Topic, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}
	if actor.Role != models.RoleStudent {
		return nil, NewPermissionError(actor.ID, "topic", "create", "only students submit topics")
	}

	topic := &models.Topic{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TopicPending,
		StudentID:   actor.ID,
	}
	if err := s.repo.Topic().Create(ctx, topic); err != nil {
		return nil, fmt.Errorf("failed to create topic: %w", err)
	}

	s.logger.Info("topic submitted", "topic_id", topic.ID, "student_id", actor.ID)
	return topic, nil
}

func (s *topicService) GetByID(ctx context.Context, id string, actor *models.User) (*models.Topic, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	topic, err := s.repo.Topic().GetByID(ctx, id)
	if repositories.IsNotFoundError(err) {
		return nil, NewNotFoundError("topic", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get topic: %w", err)
	}

	if actor.Role == models.RoleStudent && topic.StudentID != actor.ID {
		return nil, NewPermissionError(actor.ID, "topic", "read", "students may only view their own topics")
	}
	return topic, nil
}

func (s *topicService) List(ctx context.Context, opts TopicListOptions, actor *models.User) ([]*models.Topic, int64, error) {
	filters := repositories.TopicFilters{
		StudentID: opts.StudentID,
		TeacherID: opts.TeacherID,
		Status:    opts.Status,
		Limit:     opts.Limit,
		Offset:    opts.Offset,
		SortBy:    opts.SortBy,
		SortOrder: opts.SortOrder,
	}

	// Students only ever see their own topics, whatever the query says.
	if actor.Role == models.RoleStudent {
		filters.StudentID = &actor.ID
	}

	topics, total, err := s.repo.Topic().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list topics: %w", err)
	}
	return topics, total, nil
}

func (s *topicService) Update(ctx context.Context, id string, req *validator.TopicUpdateRequest, actor *models.User) (*models.Topic, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	topic, err := s.repo.Topic().GetByID(ctx, id)
	if repositories.IsNotFoundError(err) {
		return nil, NewNotFoundError("topic", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get topic: %w", err)
	}

	if actor.Role == models.RoleStudent && topic.StudentID != actor.ID {
		return nil, NewPermissionError(actor.ID, "topic", "update", "students may only update their own topics")
	}

	masked := maskTopicUpdate(req, actor.Role)

	if masked.TeacherID != nil {
		if err := s.checkReviewer(ctx, *masked.TeacherID); err != nil {
			return nil, err
		}
	}

	if masked.Title != nil {
		topic.Title = *masked.Title
	}
	if masked.Description != nil {
		topic.Description = *masked.Description
	}
	if masked.Feedback != nil {
		topic.Feedback = masked.Feedback
	}
	if masked.TeacherID != nil {
		topic.TeacherID = masked.TeacherID
	}

	statusChanged := masked.Status != nil && *masked.Status != topic.Status
	if masked.Status != nil {
		topic.Status = *masked.Status
	}

	// A staff status change is a review: stamp the reviewer and time when the
	// request leaves them implicit.
	if statusChanged && actor.IsStaff() {
		if topic.TeacherID == nil {
			topic.TeacherID = &actor.ID
		}
		now := time.Now()
		topic.ReviewedAt = &now
	}

	if err := s.repo.Topic().Update(ctx, topic); err != nil {
		return nil, fmt.Errorf("failed to update topic: %w", err)
	}

	if statusChanged {
		s.publishEvent(ctx, events.EventTopicReviewed, map[string]any{
			"topicId":   topic.ID,
			"studentId": topic.StudentID,
			"teacherId": topic.TeacherID,
			"status":    topic.Status,
		})
		s.logger.Info("topic reviewed", "topic_id", topic.ID, "status", topic.Status, "reviewer_id", actor.ID)
	}

	return topic, nil
}

func (s *topicService) Delete(ctx context.Context, id string, actor *models.User) error {
	if err := checkID(id); err != nil {
		return err
	}

	topic, err := s.repo.Topic().GetByID(ctx, id)
	if repositories.IsNotFoundError(err) {
		return NewNotFoundError("topic", id)
	}
	if err != nil {
		return fmt.Errorf("failed to get topic: %w", err)
	}

	switch actor.Role {
	case models.RoleAdmin:
		// admins may delete any topic
	case models.RoleStudent:
		if topic.StudentID != actor.ID {
			return NewPermissionError(actor.ID, "topic", "delete", "students may only delete their own topics")
		}
		if topic.Status != models.TopicPending {
			return NewConflictError("Reviewed topics can no longer be deleted")
		}
	default:
		return NewPermissionError(actor.ID, "topic", "delete", "teachers do not delete topics")
	}

	if err := s.repo.Topic().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return NewNotFoundError("topic", id)
		}
		return fmt.Errorf("failed to delete topic: %w", err)
	}

	s.logger.Info("topic deleted", "topic_id", id, "actor_id", actor.ID)
	return nil
}

// checkReviewer verifies an explicitly assigned reviewer exists and holds a
// staff role.
func (s *topicService) checkReviewer(ctx context.Context, teacherID string) error {
	if err := checkID(teacherID); err != nil {
		return validator.ValidationErrors{{Field: "teacher_id", Message: "must be a valid id", Value: teacherID}}
	}
	reviewer, err := s.repo.User().GetByID(ctx, teacherID)
	if repositories.IsNotFoundError(err) {
		return NewNotFoundError("teacher", teacherID)
	}
	if err != nil {
		return fmt.Errorf("failed to get teacher: %w", err)
	}
	if !reviewer.IsStaff() {
		return validator.ValidationErrors{{Field: "teacher_id", Message: "must reference a teacher or admin", Value: teacherID}}
	}
	return nil
}

func (s *topicService) publishEvent(ctx context.Context, eventType string, data any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, eventType, data); err != nil {
		s.logger.Warn("failed to publish event", "event_type", eventType, "error", err)
	}
}
