package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/seminar-service/internal/models"
	"github.com/SAP-F-2025/seminar-service/internal/repositories"
	"github.com/SAP-F-2025/seminar-service/internal/utils"
	"github.com/SAP-F-2025/seminar-service/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	validator *validator.Validator
	logger    utils.Logger
}

func NewUserService(repo repositories.Repository, v *validator.Validator, logger utils.Logger) UserService {
	return &userService{repo: repo, validator: v, logger: logger}
}

func (s *userService) GetByID(ctx context.Context, id string, actor *models.User) (*models.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if actor.ID != id && !actor.IsStaff() {
		return nil, NewPermissionError(actor.ID, "user", "read", "students may only view their own profile")
	}

	user, err := s.repo.User().GetByID(ctx, id)
	if repositories.IsNotFoundError(err) {
		return nil, NewNotFoundError("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, opts UserListOptions, actor *models.User) ([]*models.User, int64, error) {
	if !actor.IsStaff() {
		return nil, 0, NewPermissionError(actor.ID, "user", "list", "requires a teacher or admin role")
	}

	users, total, err := s.repo.User().List(ctx, repositories.UserFilters{
		Query:  opts.Query,
		Role:   opts.Role,
		Limit:  opts.Limit,
		Offset: opts.Offset,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

func (s *userService) Update(ctx context.Context, id string, req *validator.UserUpdateRequest, actor *models.User) (*models.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	if actor.Role != models.RoleAdmin {
		if actor.ID != id {
			return nil, NewPermissionError(actor.ID, "user", "update", "only admins update other accounts")
		}
		// Role changes are admin-only even on your own account.
		req.Role = nil
	}

	user, err := s.repo.User().GetByID(ctx, id)
	if repositories.IsNotFoundError(err) {
		return nil, NewNotFoundError("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.RollNumber != nil {
		user.RollNumber = req.RollNumber
	}
	if req.Department != nil {
		user.Department = req.Department
	}
	if req.Year != nil {
		user.Year = req.Year
	}
	if req.Specialization != nil {
		user.Specialization = req.Specialization
	}

	if err := s.repo.User().Update(ctx, user); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("user", id)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("user updated", "user_id", id, "actor_id", actor.ID)
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id string, actor *models.User) error {
	if err := checkID(id); err != nil {
		return err
	}
	if actor.Role != models.RoleAdmin {
		return NewPermissionError(actor.ID, "user", "delete", "only admins delete accounts")
	}
	if actor.ID == id {
		return NewConflictError("You cannot delete your own account")
	}

	if err := s.repo.User().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return NewNotFoundError("user", id)
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("user deleted", "user_id", id, "actor_id", actor.ID)
	return nil
}
