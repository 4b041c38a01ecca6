package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stemsi/campus-portal/internal/model"
	"github.com/stemsi/campus-portal/internal/repository"
)

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrUserNotFound = errors.New("user not found")
)

// UserService handles account registration and administration.
type UserService struct {
	users *repository.UserRepository
	auth  *AuthService
}

// NewUserService creates a new UserService.
func NewUserService(users *repository.UserRepository, auth *AuthService) *UserService {
	return &UserService{users: users, auth: auth}
}

// Register creates a student account. Public signups never pick a role.
func (s *UserService) Register(ctx context.Context, reg model.Registration) (*model.User, error) {
	return s.Create(ctx, model.NewUser{
		Name:     reg.Name,
		Email:    reg.Email,
		Password: reg.Password,
		Role:     model.RoleStudent,
	})
}

// Create creates an account with an explicit role.
func (s *UserService) Create(ctx context.Context, in model.NewUser) (*model.User, error) {
	if !in.Role.Valid() {
		return nil, fmt.Errorf("unknown role %q", in.Role)
	}

	hash, err := s.auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	acc := &model.Account{
		User: model.User{
			Name:  strings.TrimSpace(in.Name),
			Email: strings.TrimSpace(in.Email),
			Role:  in.Role,
		},
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, acc); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	u := acc.User
	return &u, nil
}

// List returns every user ordered by ID.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx, "")
}

// UpdateRole changes a user's role.
func (s *UserService) UpdateRole(ctx context.Context, id int, role model.Role) (*model.User, error) {
	u, err := s.users.UpdateRole(ctx, id, role)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}
