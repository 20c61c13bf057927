package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TopicStatus string

const (
	TopicPending  TopicStatus = "pending"
	TopicApproved TopicStatus = "approved"
	TopicRejected TopicStatus = "rejected"
)

func (s TopicStatus) Valid() bool {
	switch s {
	case TopicPending, TopicApproved, TopicRejected:
		return true
	}
	return false
}

// Topic is a seminar topic submitted by a student and reviewed by a teacher.
type Topic struct {
	ID          string      `json:"id" gorm:"primaryKey;size:36"`
	Title       string      `json:"title" gorm:"not null;size:200"`
	Description string      `json:"description" gorm:"not null;type:text"`
	Status      TopicStatus `json:"status" gorm:"not null;size:20;default:pending;index"`

	// Ownership and review references (by id, not containment)
	StudentID string  `json:"student_id" gorm:"not null;size:36;index"`
	TeacherID *string `json:"teacher_id,omitempty" gorm:"size:36;index"`

	Feedback    *string    `json:"feedback,omitempty" gorm:"type:text"`
	SubmittedAt time.Time  `json:"submitted_at"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Topic) TableName() string {
	return "topics"
}

func (t *Topic) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.SubmittedAt.IsZero() {
		t.SubmittedAt = time.Now()
	}
	return nil
}
