package validator

import "github.com/SAP-F-2025/seminar-service/internal/models"

// ===== AUTH DTOs =====

type RegisterRequest struct {
	FullName string          `json:"full_name" validate:"required,min=2,max=100"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=6"`
	Role     models.UserRole `json:"role" validate:"required,user_role"`

	RollNumber     *string `json:"roll_number" validate:"omitempty,max=50"`
	Department     *string `json:"department" validate:"omitempty,max=100"`
	Year           *int    `json:"year" validate:"omitempty,min=1,max=10"`
	Specialization *string `json:"specialization" validate:"omitempty,max=100"`
}

type VerifyOTPRequest struct {
	UserID string `json:"userId" validate:"required"`
	OTP    string `json:"otp" validate:"required,otp_code"`
}

type ResendOTPRequest struct {
	UserID string `json:"userId" validate:"required"`
}

type LoginRequest struct {
	Email    string           `json:"email" validate:"required,email"`
	Password string           `json:"password" validate:"required"`
	Role     *models.UserRole `json:"role" validate:"omitempty,user_role"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyResetOTPRequest struct {
	ResetID string `json:"resetId" validate:"required"`
	OTP     string `json:"otp" validate:"required,otp_code"`
}

type ResendResetOTPRequest struct {
	ResetID string `json:"resetId" validate:"required"`
}

type ResetPasswordRequest struct {
	ResetID     string `json:"resetId" validate:"required"`
	OTP         string `json:"otp" validate:"required,otp_code"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// ===== TOPIC DTOs =====

type TopicCreateRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"required,min=10"`
}

// TopicUpdateRequest carries every updatable field; the per-role field mask
// decides which of them the acting identity may actually touch.
type TopicUpdateRequest struct {
	Title       *string             `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string             `json:"description" validate:"omitempty,min=10"`
	Status      *models.TopicStatus `json:"status" validate:"omitempty,oneof=pending approved rejected"`
	Feedback    *string             `json:"feedback" validate:"omitempty,max=2000"`
	TeacherID   *string             `json:"teacher_id"`
}

// ===== REPORT DTOs =====

type ReportCreateRequest struct {
	Title   string `form:"title" validate:"required,min=3,max=200"`
	TopicID string `form:"topicId" validate:"required"`
}

type ReportUpdateRequest struct {
	Title     *string              `json:"title" validate:"omitempty,min=3,max=200"`
	Status    *models.ReportStatus `json:"status" validate:"omitempty,oneof=submitted reviewed approved rejected"`
	Feedback  *string              `json:"feedback" validate:"omitempty,max=2000"`
	Grade     *string              `json:"grade" validate:"omitempty,max=10"`
	TeacherID *string              `json:"teacher_id"`
}

// ===== USER DTOs =====

type UserUpdateRequest struct {
	FullName       *string          `json:"full_name" validate:"omitempty,min=2,max=100"`
	Role           *models.UserRole `json:"role" validate:"omitempty,user_role"`
	RollNumber     *string          `json:"roll_number" validate:"omitempty,max=50"`
	Department     *string          `json:"department" validate:"omitempty,max=100"`
	Year           *int             `json:"year" validate:"omitempty,min=1,max=10"`
	Specialization *string          `json:"specialization" validate:"omitempty,max=100"`
}
