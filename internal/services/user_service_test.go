package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/seminar-service/internal/models"
	"github.com/SAP-F-2025/seminar-service/internal/validator"
)

func newUserFixture(t *testing.T) (UserService, *mockRepository, *models.User, *models.User) {
	t.Helper()

	repo := newMockRepository()
	svc := NewUserService(repo, validator.New(), testLogger())

	admin := &models.User{ID: uuid.NewString(), FullName: "Admin", Email: "a@edu", Role: models.RoleAdmin}
	student := &models.User{ID: uuid.NewString(), FullName: "Student", Email: "s@edu", Role: models.RoleStudent}
	ctx := context.Background()
	repo.users.Create(ctx, admin)
	repo.users.Create(ctx, student)
	return svc, repo, admin, student
}

func TestUserListRequiresStaff(t *testing.T) {
	svc, _, admin, student := newUserFixture(t)
	ctx := context.Background()

	var perm *PermissionError
	if _, _, err := svc.List(ctx, UserListOptions{}, student); !errors.As(err, &perm) {
		t.Errorf("student List() error = %v, want PermissionError", err)
	}

	if _, total, err := svc.List(ctx, UserListOptions{}, admin); err != nil || total != 2 {
		t.Errorf("admin List() = %d, %v; want 2, nil", total, err)
	}
}

func TestUserRoleChangeAdminOnly(t *testing.T) {
	svc, _, admin, student := newUserFixture(t)
	ctx := context.Background()

	teacher := models.RoleTeacher
	name := "Renamed"

	// Self-update applies profile fields but drops the role change.
	updated, err := svc.Update(ctx, student.ID, &validator.UserUpdateRequest{FullName: &name, Role: &teacher}, student)
	if err != nil {
		t.Fatalf("self Update() error = %v", err)
	}
	if updated.FullName != name {
		t.Errorf("full name = %s, want %s", updated.FullName, name)
	}
	if updated.Role != models.RoleStudent {
		t.Errorf("role = %s, self-update must not change it", updated.Role)
	}

	// An admin can promote.
	updated, err = svc.Update(ctx, student.ID, &validator.UserUpdateRequest{Role: &teacher}, admin)
	if err != nil {
		t.Fatalf("admin Update() error = %v", err)
	}
	if updated.Role != models.RoleTeacher {
		t.Errorf("role = %s, want %s", updated.Role, models.RoleTeacher)
	}
}

func TestUserDeleteRules(t *testing.T) {
	svc, repo, admin, student := newUserFixture(t)
	ctx := context.Background()

	var perm *PermissionError
	if err := svc.Delete(ctx, admin.ID, student); !errors.As(err, &perm) {
		t.Errorf("student Delete() error = %v, want PermissionError", err)
	}

	var conflict *ConflictError
	if err := svc.Delete(ctx, admin.ID, admin); !errors.As(err, &conflict) {
		t.Errorf("self Delete() error = %v, want ConflictError", err)
	}

	if err := svc.Delete(ctx, student.ID, admin); err != nil {
		t.Fatalf("admin Delete() error = %v", err)
	}
	if _, err := repo.users.GetByID(ctx, student.ID); err == nil {
		t.Error("deleted user should be gone")
	}
}

func TestUserGetScope(t *testing.T) {
	svc, _, _, student := newUserFixture(t)
	ctx := context.Background()

	other := &models.User{ID: uuid.NewString(), FullName: "Other", Email: "o@edu", Role: models.RoleStudent}

	var perm *PermissionError
	if _, err := svc.GetByID(ctx, other.ID, student); !errors.As(err, &perm) {
		t.Errorf("cross-student GetByID() error = %v, want PermissionError", err)
	}

	if _, err := svc.GetByID(ctx, student.ID, student); err != nil {
		t.Errorf("self GetByID() error = %v", err)
	}
}
