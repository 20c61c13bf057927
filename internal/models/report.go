package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportStatus string

const (
	ReportSubmitted ReportStatus = "submitted"
	ReportReviewed  ReportStatus = "reviewed"
	ReportApproved  ReportStatus = "approved"
	ReportRejected  ReportStatus = "rejected"
)

func (s ReportStatus) Valid() bool {
	switch s {
	case ReportSubmitted, ReportReviewed, ReportApproved, ReportRejected:
		return true
	}
	return false
}

// Report is an uploaded seminar report. FileKey identifies the stored object
// in the file store; FileName is the originally-uploaded client name.
type Report struct {
	ID      string       `json:"id" gorm:"primaryKey;size:36"`
	Title   string       `json:"title" gorm:"not null;size:200"`
	Status  ReportStatus `json:"status" gorm:"not null;size:20;default:submitted;index"`
	TopicID string       `json:"topic_id" gorm:"not null;size:36;index"`

	StudentID string  `json:"student_id" gorm:"not null;size:36;index"`
	TeacherID *string `json:"teacher_id,omitempty" gorm:"size:36;index"`

	FileKey  string `json:"file_key" gorm:"not null;size:255"`
	FileName string `json:"file_name" gorm:"not null;size:255"`
	FileSize int64  `json:"file_size" gorm:"not null"`

	Feedback    *string    `json:"feedback,omitempty" gorm:"type:text"`
	Grade       *string    `json:"grade,omitempty" gorm:"size:10"`
	SubmittedAt time.Time  `json:"submitted_at"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Report) TableName() string {
	return "reports"
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.SubmittedAt.IsZero() {
		r.SubmittedAt = time.Now()
	}
	return nil
}
