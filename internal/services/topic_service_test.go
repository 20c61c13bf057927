package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/seminar-service/internal/events"
	"github.com/SAP-F-2025/seminar-service/internal/models"
	"github.com/SAP-F-2025/seminar-service/internal/validator"
)

type topicFixture struct {
	svc       TopicService
	repo      *mockRepository
	publisher *events.MockEventPublisher
	student   *models.User
	teacher   *models.User
	admin     *models.User
}

func newTopicFixture(t *testing.T) *topicFixture {
	t.Helper()

	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc := NewTopicService(repo, publisher, validator.New(), testLogger())

	f := &topicFixture{
		svc:       svc,
		repo:      repo,
		publisher: publisher,
		student:   &models.User{ID: uuid.NewString(), FullName: "Student", Email: "s@edu", Role: models.RoleStudent},
		teacher:   &models.User{ID: uuid.NewString(), FullName: "Teacher", Email: "t@edu", Role: models.RoleTeacher},
		admin:     &models.User{ID: uuid.NewString(), FullName: "Admin", Email: "a@edu", Role: models.RoleAdmin},
	}
	ctx := context.Background()
	repo.users.Create(ctx, f.student)
	repo.users.Create(ctx, f.teacher)
	repo.users.Create(ctx, f.admin)
	return f
}

func (f *topicFixture) submit(t *testing.T, actor *models.User) *models.Topic {
	t.Helper()
	topic, err := f.svc.Create(context.Background(), &validator.TopicCreateRequest{
		Title:       "Distributed caching strategies",
		Description: "A study of cache coherence in distributed systems.",
	}, actor)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return topic
}

func TestTopicCreate(t *testing.T) {
	f := newTopicFixture(t)

	topic := f.submit(t, f.student)
	if topic.Status != models.TopicPending {
		t.Errorf("new topic status = %s, want %s", topic.Status, models.TopicPending)
	}
	if topic.StudentID != f.student.ID {
		t.Errorf("topic owner = %s, want %s", topic.StudentID, f.student.ID)
	}

	// Teachers do not submit topics.
	_, err := f.svc.Create(context.Background(), &validator.TopicCreateRequest{
		Title: "Teacher topic", Description: "Should not be accepted at all.",
	}, f.teacher)
	var perm *PermissionError
	if !errors.As(err, &perm) {
		t.Errorf("teacher Create() error = %v, want PermissionError", err)
	}
}

func TestTopicStudentUpdateMask(t *testing.T) {
	f := newTopicFixture(t)
	ctx := context.Background()

	topic := f.submit(t, f.student)

	// Review fields in a student request are dropped, not rejected.
	approved := models.TopicApproved
	feedback := "self-approval"
	newTitle := "Revised caching strategies"
	updated, err := f.svc.Update(ctx, topic.ID, &validator.TopicUpdateRequest{
		Title:    &newTitle,
		Status:   &approved,
		Feedback: &feedback,
	}, f.student)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.Title != newTitle {
		t.Errorf("title = %s, want %s", updated.Title, newTitle)
	}
	if updated.Status != models.TopicPending {
		t.Errorf("status = %s, student must not change it", updated.Status)
	}
	if updated.Feedback != nil {
		t.Error("feedback must not be set by a student")
	}
	if len(f.publisher.GetPublishedEvents()) != 0 {
		t.Error("no review event should be published for a student update")
	}
}

func TestTopicReviewAutoStamp(t *testing.T) {
	f := newTopicFixture(t)
	ctx := context.Background()

	topic := f.submit(t, f.student)

	approved := models.TopicApproved
	feedback := "Good scope, proceed."
	updated, err := f.svc.Update(ctx, topic.ID, &validator.TopicUpdateRequest{
		Status:   &approved,
		Feedback: &feedback,
	}, f.teacher)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.Status != models.TopicApproved {
		t.Errorf("status = %s, want %s", updated.Status, models.TopicApproved)
	}
	if updated.TeacherID == nil || *updated.TeacherID != f.teacher.ID {
		t.Errorf("reviewer = %v, want %s", updated.TeacherID, f.teacher.ID)
	}
	if updated.ReviewedAt == nil {
		t.Error("ReviewedAt should be stamped on review")
	}

	published := f.publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.EventTopicReviewed {
		t.Errorf("expected one %s event, got %+v", events.EventTopicReviewed, published)
	}
}

func TestTopicStudentCannotTouchOthers(t *testing.T) {
	f := newTopicFixture(t)
	ctx := context.Background()

	topic := f.submit(t, f.student)
	other := &models.User{ID: uuid.NewString(), FullName: "Other", Email: "o@edu", Role: models.RoleStudent}
	f.repo.users.Create(ctx, other)

	var perm *PermissionError

	if _, err := f.svc.GetByID(ctx, topic.ID, other); !errors.As(err, &perm) {
		t.Errorf("GetByID() error = %v, want PermissionError", err)
	}

	title := "hijacked"
	if _, err := f.svc.Update(ctx, topic.ID, &validator.TopicUpdateRequest{Title: &title}, other); !errors.As(err, &perm) {
		t.Errorf("Update() error = %v, want PermissionError", err)
	}

	if err := f.svc.Delete(ctx, topic.ID, other); !errors.As(err, &perm) {
		t.Errorf("Delete() error = %v, want PermissionError", err)
	}
}

func TestTopicListScopedToStudent(t *testing.T) {
	f := newTopicFixture(t)
	ctx := context.Background()

	mine := f.submit(t, f.student)

	other := &models.User{ID: uuid.NewString(), FullName: "Other", Email: "o@edu", Role: models.RoleStudent}
	f.repo.users.Create(ctx, other)
	f.submit(t, other)

	// A student cannot widen the scope with an explicit filter.
	topics, total, err := f.svc.List(ctx, TopicListOptions{StudentID: &other.ID}, f.student)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 1 || len(topics) != 1 || topics[0].ID != mine.ID {
		t.Errorf("student list = %d topics, want only their own", len(topics))
	}

	// Staff see everything.
	_, total, err = f.svc.List(ctx, TopicListOptions{}, f.teacher)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 2 {
		t.Errorf("teacher list total = %d, want 2", total)
	}
}

func TestTopicMalformedID(t *testing.T) {
	f := newTopicFixture(t)

	_, err := f.svc.GetByID(context.Background(), "not-a-uuid", f.admin)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("GetByID() error = %v, want ValidationErrors", err)
	}
}

func TestTopicDeleteRules(t *testing.T) {
	f := newTopicFixture(t)
	ctx := context.Background()

	topic := f.submit(t, f.student)

	// Owner may delete while pending.
	if err := f.svc.Delete(ctx, topic.ID, f.student); err != nil {
		t.Fatalf("owner Delete() error = %v", err)
	}

	// A reviewed topic is locked for the student but not for an admin.
	topic = f.submit(t, f.student)
	approved := models.TopicApproved
	if _, err := f.svc.Update(ctx, topic.ID, &validator.TopicUpdateRequest{Status: &approved}, f.teacher); err != nil {
		t.Fatalf("review Update() error = %v", err)
	}

	var conflict *ConflictError
	if err := f.svc.Delete(ctx, topic.ID, f.student); !errors.As(err, &conflict) {
		t.Errorf("student Delete() of reviewed topic error = %v, want ConflictError", err)
	}
	if err := f.svc.Delete(ctx, topic.ID, f.admin); err != nil {
		t.Errorf("admin Delete() error = %v", err)
	}
}
