package services

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/seminar-service/internal/models"
	"github.com/SAP-F-2025/seminar-service/internal/repositories"
)

// In-memory repository used by the service tests.

type mockUserRepo struct {
	mu        sync.Mutex
	users     map[string]*models.User
	createErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*models.User)}
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockUserRepo) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.User
	for _, u := range m.users {
		if filters.Role != nil && u.Role != *filters.Role {
			continue
		}
		if filters.Query != "" && !strings.Contains(strings.ToLower(u.FullName+u.Email), strings.ToLower(filters.Query)) {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.Password = passwordHash
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[id]
	return ok, nil
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type mockTopicRepo struct {
	mu     sync.Mutex
	topics map[string]*models.Topic
}

func newMockTopicRepo() *mockTopicRepo {
	return &mockTopicRepo{topics: make(map[string]*models.Topic)}
}

func (m *mockTopicRepo) Create(ctx context.Context, topic *models.Topic) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if topic.ID == "" {
		topic.ID = uuid.NewString()
	}
	cp := *topic
	m.topics[topic.ID] = &cp
	return nil
}

func (m *mockTopicRepo) GetByID(ctx context.Context, id string) (*models.Topic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.topics[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *mockTopicRepo) List(ctx context.Context, filters repositories.TopicFilters) ([]*models.Topic, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Topic
	for _, t := range m.topics {
		if filters.StudentID != nil && t.StudentID != *filters.StudentID {
			continue
		}
		if filters.TeacherID != nil && (t.TeacherID == nil || *t.TeacherID != *filters.TeacherID) {
			continue
		}
		if filters.Status != nil && t.Status != *filters.Status {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (m *mockTopicRepo) Update(ctx context.Context, topic *models.Topic) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.topics[topic.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *topic
	m.topics[topic.ID] = &cp
	return nil
}

func (m *mockTopicRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.topics[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.topics, id)
	return nil
}

type mockReportRepo struct {
	mu        sync.Mutex
	reports   map[string]*models.Report
	createErr error
}

func newMockReportRepo() *mockReportRepo {
	return &mockReportRepo{reports: make(map[string]*models.Report)}
}

func (m *mockReportRepo) Create(ctx context.Context, report *models.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	cp := *report
	m.reports[report.ID] = &cp
	return nil
}

func (m *mockReportRepo) GetByID(ctx context.Context, id string) (*models.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockReportRepo) List(ctx context.Context, filters repositories.ReportFilters) ([]*models.Report, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Report
	for _, r := range m.reports {
		if filters.StudentID != nil && r.StudentID != *filters.StudentID {
			continue
		}
		if filters.TopicID != nil && r.TopicID != *filters.TopicID {
			continue
		}
		if filters.Status != nil && r.Status != *filters.Status {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (m *mockReportRepo) Update(ctx context.Context, report *models.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reports[report.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *report
	m.reports[report.ID] = &cp
	return nil
}

func (m *mockReportRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reports[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.reports, id)
	return nil
}

type mockRepository struct {
	users   *mockUserRepo
	topics  *mockTopicRepo
	reports *mockReportRepo
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users:   newMockUserRepo(),
		topics:  newMockTopicRepo(),
		reports: newMockReportRepo(),
	}
}

func (m *mockRepository) User() repositories.UserRepository     { return m.users }
func (m *mockRepository) Topic() repositories.TopicRepository   { return m.topics }
func (m *mockRepository) Report() repositories.ReportRepository { return m.reports }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }
