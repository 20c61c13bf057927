package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/seminar-service/internal/models"
	"github.com/SAP-F-2025/seminar-service/internal/repositories"
	"github.com/SAP-F-2025/seminar-service/internal/utils"
)

// exportBatchSize keeps export queries inside the repository's page cap.
const exportBatchSize = 100

type exportService struct {
	repo   repositories.Repository
	logger utils.Logger
}

func NewExportService(repo repositories.Repository, logger utils.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ExportReports produces an xlsx workbook of every report, one row per
// report. Teachers and admins only.
func (s *exportService) ExportReports(ctx context.Context, actor *models.User) (*bytes.Buffer, string, error) {
	if !actor.IsStaff() {
		return nil, "", NewPermissionError(actor.ID, "report", "export", "requires a teacher or admin role")
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Reports"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Title", "Status", "Topic ID", "Student ID", "Teacher ID", "Grade", "File Name", "Submitted At", "Reviewed At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for offset := 0; ; offset += exportBatchSize {
		reports, _, err := s.repo.Report().List(ctx, repositories.ReportFilters{
			Limit:  exportBatchSize,
			Offset: offset,
			SortBy: "submitted_at",
		})
		if err != nil {
			return nil, "", fmt.Errorf("failed to list reports for export: %w", err)
		}

		for _, r := range reports {
			values := []any{
				r.ID, r.Title, string(r.Status), r.TopicID, r.StudentID,
				deref(r.TeacherID), deref(r.Grade), r.FileName,
				r.SubmittedAt.Format(time.RFC3339), formatTime(r.ReviewedAt),
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				f.SetCellValue(sheet, cell, v)
			}
			row++
		}

		if len(reports) < exportBatchSize {
			break
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to write workbook: %w", err)
	}

	filename := fmt.Sprintf("reports_%s.xlsx", time.Now().Format("2006-01-02"))
	s.logger.Info("reports exported", "rows", row-2, "actor_id", actor.ID)
	return buf, filename, nil
}

// ExportUsers produces an xlsx workbook of every account. Admins only.
func (s *exportService) ExportUsers(ctx context.Context, actor *models.User) (*bytes.Buffer, string, error) {
	if actor.Role != models.RoleAdmin {
		return nil, "", NewPermissionError(actor.ID, "user", "export", "requires an admin role")
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Users"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Full Name", "Email", "Role", "Roll Number", "Department", "Year", "Specialization", "Created At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for offset := 0; ; offset += exportBatchSize {
		users, _, err := s.repo.User().List(ctx, repositories.UserFilters{
			Limit:  exportBatchSize,
			Offset: offset,
		})
		if err != nil {
			return nil, "", fmt.Errorf("failed to list users for export: %w", err)
		}

		for _, u := range users {
			year := ""
			if u.Year != nil {
				year = fmt.Sprintf("%d", *u.Year)
			}
			values := []any{
				u.ID, u.FullName, u.Email, string(u.Role),
				deref(u.RollNumber), deref(u.Department), year, deref(u.Specialization),
				u.CreatedAt.Format(time.RFC3339),
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				f.SetCellValue(sheet, cell, v)
			}
			row++
		}

		if len(users) < exportBatchSize {
			break
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to write workbook: %w", err)
	}

	filename := fmt.Sprintf("users_%s.xlsx", time.Now().Format("2006-01-02"))
	s.logger.Info("users exported", "rows", row-2, "actor_id", actor.ID)
	return buf, filename, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
