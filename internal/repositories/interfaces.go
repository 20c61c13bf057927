package repositories

import (
	"context"

	"github.com/SAP-F-2025/seminar-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type UserFilters struct {
	Query  string           `json:"query"` // name or email search
	Role   *models.UserRole `json:"role"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

type TopicFilters struct {
	StudentID *string             `json:"student_id"`
	TeacherID *string             `json:"teacher_id"`
	Status    *models.TopicStatus `json:"status"`
	Limit     int                 `json:"limit"`
	Offset    int                 `json:"offset"`
	SortBy    string              `json:"sort_by"`    // "submitted_at", "title"
	SortOrder string              `json:"sort_order"` // "asc", "desc"
}

type ReportFilters struct {
	StudentID *string              `json:"student_id"`
	TopicID   *string              `json:"topic_id"`
	Status    *models.ReportStatus `json:"status"`
	Limit     int                  `json:"limit"`
	Offset    int                  `json:"offset"`
	SortBy    string               `json:"sort_by"`
	SortOrder string               `json:"sort_order"`
}

// ===== REPOSITORY INTERFACES =====

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error

	ExistsByID(ctx context.Context, id string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type TopicRepository interface {
	Create(ctx context.Context, topic *models.Topic) error
	GetByID(ctx context.Context, id string) (*models.Topic, error)
	List(ctx context.Context, filters TopicFilters) ([]*models.Topic, int64, error)
	Update(ctx context.Context, topic *models.Topic) error
	Delete(ctx context.Context, id string) error
}

type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id string) (*models.Report, error)
	List(ctx context.Context, filters ReportFilters) ([]*models.Report, int64, error)
	Update(ctx context.Context, report *models.Report) error
	Delete(ctx context.Context, id string) error
}
