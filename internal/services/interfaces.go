package services

import (
	"bytes"
	"context"
	"io"

	"github.com/SAP-F-2025/seminar-service/internal/models"
	"github.com/SAP-F-2025/seminar-service/internal/storage"
	"github.com/SAP-F-2025/seminar-service/internal/validator"
)

// RegistrationPayload is the state held while a registration waits for email
// verification. No user row exists until the OTP is confirmed.
type RegistrationPayload struct {
	FullName       string          `json:"fullName"`
	Email          string          `json:"email"`
	PasswordHash   string          `json:"passwordHash"`
	Role           models.UserRole `json:"role"`
	RollNumber     *string         `json:"rollNumber,omitempty"`
	Department     *string         `json:"department,omitempty"`
	Year           *int            `json:"year,omitempty"`
	Specialization *string         `json:"specialization,omitempty"`
}

// ResetPayload is the state held while a password reset waits for its OTP.
type ResetPayload struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

type RegisterResponse struct {
	UserID               string `json:"userId"`
	Email                string `json:"email"`
	RequiresVerification bool   `json:"requiresVerification"`
	Message              string `json:"message"`
}

type TokenResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ForgotPasswordResponse struct {
	Message string `json:"message"`
	ResetID string `json:"resetId,omitempty"`
}

// FileUpload is a transport-neutral view of an uploaded file. The reader must
// support seeking so content sniffing can rewind before the payload is stored.
type FileUpload struct {
	Name   string
	Size   int64
	Reader io.ReadSeeker
}

type AuthService interface {
	Register(ctx context.Context, req *validator.RegisterRequest) (*RegisterResponse, error)
	VerifyOTP(ctx context.Context, req *validator.VerifyOTPRequest) (*TokenResponse, error)
	ResendOTP(ctx context.Context, req *validator.ResendOTPRequest) (*MessageResponse, error)
	Login(ctx context.Context, req *validator.LoginRequest) (*TokenResponse, error)
	ForgotPassword(ctx context.Context, req *validator.ForgotPasswordRequest) (*ForgotPasswordResponse, error)
	VerifyResetOTP(ctx context.Context, req *validator.VerifyResetOTPRequest) (*MessageResponse, error)
	ResendResetOTP(ctx context.Context, req *validator.ResendResetOTPRequest) (*MessageResponse, error)
	ResetPassword(ctx context.Context, req *validator.ResetPasswordRequest) (*MessageResponse, error)
}

type TopicService interface {
	Create(ctx context.Context, req *validator.TopicCreateRequest, actor *models.User) (*models.Topic, error)
	GetByID(ctx context.Context, id string, actor *models.User) (*models.Topic, error)
	List(ctx context.Context, filters TopicListOptions, actor *models.User) ([]*models.Topic, int64, error)
	Update(ctx context.Context, id string, req *validator.TopicUpdateRequest, actor *models.User) (*models.Topic, error)
	Delete(ctx context.Context, id string, actor *models.User) error
}

type ReportService interface {
	Create(ctx context.Context, req *validator.ReportCreateRequest, upload *FileUpload, actor *models.User) (*models.Report, error)
	GetByID(ctx context.Context, id string, actor *models.User) (*models.Report, error)
	List(ctx context.Context, filters ReportListOptions, actor *models.User) ([]*models.Report, int64, error)
	Update(ctx context.Context, id string, req *validator.ReportUpdateRequest, actor *models.User) (*models.Report, error)
	Delete(ctx context.Context, id string, actor *models.User) error
	Download(ctx context.Context, id string, actor *models.User) (*models.Report, *storage.Object, error)
}

type UserService interface {
	GetByID(ctx context.Context, id string, actor *models.User) (*models.User, error)
	List(ctx context.Context, filters UserListOptions, actor *models.User) ([]*models.User, int64, error)
	Update(ctx context.Context, id string, req *validator.UserUpdateRequest, actor *models.User) (*models.User, error)
	Delete(ctx context.Context, id string, actor *models.User) error
}

type ExportService interface {
	ExportReports(ctx context.Context, actor *models.User) (*bytes.Buffer, string, error)
	ExportUsers(ctx context.Context, actor *models.User) (*bytes.Buffer, string, error)
}

// TopicListOptions mirror the query parameters accepted by the topic list
// endpoint; role scoping is applied on top of them by the service.
type TopicListOptions struct {
	Status    *models.TopicStatus
	StudentID *string
	TeacherID *string
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

type ReportListOptions struct {
	Status    *models.ReportStatus
	StudentID *string
	TopicID   *string
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

type UserListOptions struct {
	Query  string
	Role   *models.UserRole
	Limit  int
	Offset int
}
