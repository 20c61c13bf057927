package services

import (
	"github.com/SAP-F-2025/seminar-service/internal/models"
	"github.com/SAP-F-2025/seminar-service/internal/validator"
)

// Per-role update masks. Update requests carry every updatable field; the
// mask for the acting role decides which of them actually apply. A field
// outside the mask is silently dropped, not rejected, so clients can reuse
// one request shape across roles.

var topicUpdateMask = map[models.UserRole]map[string]bool{
	models.RoleStudent: {
		"title":       true,
		"description": true,
	},
	models.RoleTeacher: {
		"status":     true,
		"feedback":   true,
		"teacher_id": true,
	},
	models.RoleAdmin: {
		"title":       true,
		"description": true,
		"status":      true,
		"feedback":    true,
		"teacher_id":  true,
	},
}

var reportUpdateMask = map[models.UserRole]map[string]bool{
	models.RoleStudent: {
		"title": true,
	},
	models.RoleTeacher: {
		"status":     true,
		"feedback":   true,
		"grade":      true,
		"teacher_id": true,
	},
	models.RoleAdmin: {
		"title":      true,
		"status":     true,
		"feedback":   true,
		"grade":      true,
		"teacher_id": true,
	},
}

func maskTopicUpdate(req *validator.TopicUpdateRequest, role models.UserRole) validator.TopicUpdateRequest {
	mask := topicUpdateMask[role]
	var out validator.TopicUpdateRequest
	if mask["title"] {
		out.Title = req.Title
	}
	if mask["description"] {
		out.Description = req.Description
	}
	if mask["status"] {
		out.Status = req.Status
	}
	if mask["feedback"] {
		out.Feedback = req.Feedback
	}
	if mask["teacher_id"] {
		out.TeacherID = req.TeacherID
	}
	return out
}

func maskReportUpdate(req *validator.ReportUpdateRequest, role models.UserRole) validator.ReportUpdateRequest {
	mask := reportUpdateMask[role]
	var out validator.ReportUpdateRequest
	if mask["title"] {
		out.Title = req.Title
	}
	if mask["status"] {
		out.Status = req.Status
	}
	if mask["feedback"] {
		out.Feedback = req.Feedback
	}
	if mask["grade"] {
		out.Grade = req.Grade
	}
	if mask["teacher_id"] {
		out.TeacherID = req.TeacherID
	}
	return out
}
