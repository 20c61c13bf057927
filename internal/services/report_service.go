package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/SAP-F-2025/seminar-service/internal/events"
	"github.com/SAP-F-2025/seminar-service/internal/models"
	"github.com/SAP-F-2025/seminar-service/internal/repositories"
	"github.com/SAP-F-2025/seminar-service/internal/storage"
	"github.com/SAP-F-2025/seminar-service/internal/utils"
	"github.com/SAP-F-2025/seminar-service/internal/validator"
)

const maxReportSize = 10 << 20 // 10 MiB

// Accepted report formats, by extension and the content type the bytes must
// actually sniff as.
var allowedReportTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

type reportService struct {
	repo      repositories.Repository
	files     storage.FileStore
	publisher events.EventPublisher
	validator *validator.Validator
	logger    utils.Logger
}

func NewReportService(
	repo repositories.Repository,
	files storage.FileStore,
	publisher events.EventPublisher,
	v *validator.Validator,
	logger utils.Logger,
) ReportService {
	return &reportService{repo: repo, files: files, publisher: publisher, validator: v, logger: logger}
}

func (s *reportService) Create(ctx context.Context, req *validator.ReportCreateRequest, upload *FileUpload, actor *models.User) (*models.Report, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}
	if actor.Role != models.RoleStudent {
		return nil, NewPermissionError(actor.ID, "report", "create", "only students upload reports")
	}
	if err := checkID(req.TopicID); err != nil {
		return nil, validator.ValidationErrors{{Field: "topicId", Message: "must be a valid id", Value: req.TopicID}}
	}

	topic, err := s.repo.Topic().GetByID(ctx, req.TopicID)
	if repositories.IsNotFoundError(err) {
		return nil, NewNotFoundError("topic", req.TopicID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get topic: %w", err)
	}
	if topic.StudentID != actor.ID {
		return nil, NewPermissionError(actor.ID, "report", "create", "reports can only be uploaded against your own topic")
	}

	contentType, err := s.validateUpload(upload)
	if err != nil {
		return nil, err
	}

	// The file is stored before the metadata row so a failed insert can roll
	// the object back; the reverse order would leave a row pointing nowhere.
	ext := strings.ToLower(filepath.Ext(upload.Name))
	key := uuid.NewString() + ext
	if err := s.files.Save(ctx, key, upload.Reader, upload.Size, contentType); err != nil {
		return nil, NewUpstreamError("file store", err)
	}

	report := &models.Report{
		Title:     req.Title,
		Status:    models.ReportSubmitted,
		TopicID:   topic.ID,
		StudentID: actor.ID,
		FileKey:   key,
		FileName:  filepath.Base(upload.Name),
		FileSize:  upload.Size,
	}
	if err := s.repo.Report().Create(ctx, report); err != nil {
		if delErr := s.files.Delete(ctx, key); delErr != nil {
			s.logger.Warn("failed to roll back stored file", "file_key", key, "error", delErr)
		}
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	s.logger.Info("report uploaded",
		"report_id", report.ID, "topic_id", topic.ID, "student_id", actor.ID, "file_size", upload.Size)
	return report, nil
}

func (s *reportService) GetByID(ctx context.Context, id string, actor *models.User) (*models.Report, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	report, err := s.repo.Report().GetByID(ctx, id)
	if repositories.IsNotFoundError(err) {
		return nil, NewNotFoundError("report", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	if actor.Role == models.RoleStudent && report.StudentID != actor.ID {
		return nil, NewPermissionError(actor.ID, "report", "read", "students may only view their own reports")
	}
	return report, nil
}

func (s *reportService) List(ctx context.Context, opts ReportListOptions, actor *models.User) ([]*models.Report, int64, error) {
	filters := repositories.ReportFilters{
		StudentID: opts.StudentID,
		TopicID:   opts.TopicID,
		Status:    opts.Status,
		Limit:     opts.Limit,
		Offset:    opts.Offset,
		SortBy:    opts.SortBy,
		SortOrder: opts.SortOrder,
	}
	if actor.Role == models.RoleStudent {
		filters.StudentID = &actor.ID
	}

	reports, total, err := s.repo.Report().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, total, nil
}

func (s *reportService) Update(ctx context.Context, id string, req *validator.ReportUpdateRequest, actor *models.User) (*models.Report, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	report, err := s.repo.Report().GetByID(ctx, id)
	if repositories.IsNotFoundError(err) {
		return nil, NewNotFoundError("report", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	if actor.Role == models.RoleStudent && report.StudentID != actor.ID {
		return nil, NewPermissionError(actor.ID, "report", "update", "students may only update their own reports")
	}

	masked := maskReportUpdate(req, actor.Role)

	if masked.Title != nil {
		report.Title = *masked.Title
	}
	if masked.Feedback != nil {
		report.Feedback = masked.Feedback
	}
	if masked.TeacherID != nil {
		report.TeacherID = masked.TeacherID
	}

	gradeSet := masked.Grade != nil && (report.Grade == nil || *report.Grade != *masked.Grade)
	if masked.Grade != nil {
		report.Grade = masked.Grade
	}

	statusChanged := masked.Status != nil && *masked.Status != report.Status
	if masked.Status != nil {
		report.Status = *masked.Status
	}

	if (statusChanged || gradeSet) && actor.IsStaff() {
		if report.TeacherID == nil {
			report.TeacherID = &actor.ID
		}
		now := time.Now()
		report.ReviewedAt = &now
	}

	if err := s.repo.Report().Update(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to update report: %w", err)
	}

	if gradeSet {
		s.publishEvent(ctx, events.EventReportGraded, map[string]any{
			"reportId":  report.ID,
			"studentId": report.StudentID,
			"teacherId": report.TeacherID,
			"grade":     report.Grade,
			"status":    report.Status,
		})
		s.logger.Info("report graded", "report_id", report.ID, "grade", *report.Grade, "reviewer_id", actor.ID)
	}

	return report, nil
}

func (s *reportService) Delete(ctx context.Context, id string, actor *models.User) error {
	if err := checkID(id); err != nil {
		return err
	}

	report, err := s.repo.Report().GetByID(ctx, id)
	if repositories.IsNotFoundError(err) {
		return NewNotFoundError("report", id)
	}
	if err != nil {
		return fmt.Errorf("failed to get report: %w", err)
	}

	if actor.Role != models.RoleAdmin && report.StudentID != actor.ID {
		return NewPermissionError(actor.ID, "report", "delete", "only the owner or an admin may delete a report")
	}

	// Metadata first; a missing or unreachable file must not block the delete.
	if err := s.repo.Report().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return NewNotFoundError("report", id)
		}
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if err := s.files.Delete(ctx, report.FileKey); err != nil {
		s.logger.Warn("failed to delete report file", "file_key", report.FileKey, "error", err)
	}

	s.logger.Info("report deleted", "report_id", id, "actor_id", actor.ID)
	return nil
}

func (s *reportService) Download(ctx context.Context, id string, actor *models.User) (*models.Report, *storage.Object, error) {
	report, err := s.GetByID(ctx, id, actor)
	if err != nil {
		return nil, nil, err
	}

	obj, err := s.files.Open(ctx, report.FileKey, report.FileName)
	if err != nil {
		if err == storage.ErrFileNotFound {
			return nil, nil, NewNotFoundError("report file", id)
		}
		return nil, nil, NewUpstreamError("file store", err)
	}
	return report, obj, nil
}

// validateUpload enforces the extension whitelist, the size cap, and that the
// bytes actually are what the extension claims. The reader is rewound after
// sniffing. Returns the sniffed content type.
func (s *reportService) validateUpload(upload *FileUpload) (string, error) {
	if upload == nil || upload.Reader == nil {
		return "", validator.ValidationErrors{{Field: "file", Message: "is required"}}
	}

	ext := strings.ToLower(filepath.Ext(upload.Name))
	wantType, ok := allowedReportTypes[ext]
	if !ok {
		return "", validator.ValidationErrors{{Field: "file", Message: "must be a .pdf, .doc or .docx document", Value: upload.Name}}
	}

	if upload.Size <= 0 {
		return "", validator.ValidationErrors{{Field: "file", Message: "is empty"}}
	}
	if upload.Size > maxReportSize {
		return "", validator.ValidationErrors{{Field: "file", Message: "must be at most 10 MiB"}}
	}

	mtype, err := mimetype.DetectReader(upload.Reader)
	if err != nil {
		return "", fmt.Errorf("failed to sniff file type: %w", err)
	}
	if _, err := upload.Reader.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind upload: %w", err)
	}
	if !mtype.Is(wantType) {
		return "", validator.ValidationErrors{{Field: "file", Message: "content does not match its extension", Value: mtype.String()}}
	}
	return wantType, nil
}

func (s *reportService) publishEvent(ctx context.Context, eventType string, data any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, eventType, data); err != nil {
		s.logger.Warn("failed to publish event", "event_type", eventType, "error", err)
	}
}
