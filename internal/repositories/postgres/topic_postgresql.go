package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/seminar-service/internal/models"
	"github.com/SAP-F-2025/seminar-service/internal/repositories"
)

var topicSortColumns = map[string]bool{
	"submitted_at": true,
	"title":        true,
	"status":       true,
}

type TopicPostgreSQL struct {
	db *gorm.DB
}

func NewTopicPostgreSQL(db *gorm.DB) repositories.TopicRepository {
	return &TopicPostgreSQL{db: db}
}

func (r *TopicPostgreSQL) Create(ctx context.Context, topic *models.Topic) error {
	if err := r.db.WithContext(ctx).Create(topic).Error; err != nil {
		return fmt.Errorf("failed to create topic: %w", err)
	}
	return nil
}

func (r *TopicPostgreSQL) GetByID(ctx context.Context, id string) (*models.Topic, error) {
	var topic models.Topic
	if err := r.db.WithContext(ctx).First(&topic, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get topic: %w", err)
	}
	return &topic, nil
}

func (r *TopicPostgreSQL) List(ctx context.Context, filters repositories.TopicFilters) ([]*models.Topic, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Topic{})

	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.TeacherID != nil {
		query = query.Where("teacher_id = ?", *filters.TeacherID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count topics: %w", err)
	}

	var topics []*models.Topic
	err := applySort(query, filters.SortBy, filters.SortOrder, topicSortColumns, "submitted_at").
		Limit(normalizeLimit(filters.Limit)).
		Offset(max(filters.Offset, 0)).
		Find(&topics).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list topics: %w", err)
	}
	return topics, total, nil
}

func (r *TopicPostgreSQL) Update(ctx context.Context, topic *models.Topic) error {
	if err := r.db.WithContext(ctx).Save(topic).Error; err != nil {
		return fmt.Errorf("failed to update topic: %w", err)
	}
	return nil
}

func (r *TopicPostgreSQL) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Topic{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete topic: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
