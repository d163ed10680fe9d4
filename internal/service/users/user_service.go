package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mpetrov/aviabooking/internal/auth"
	"github.com/mpetrov/aviabooking/internal/domain"
	"github.com/mpetrov/aviabooking/internal/repository"
)

type UserUseCase interface {
	Register(ctx context.Context, name, email, password string, role domain.UserRole) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, time.Time, *domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, filter domain.UserFilter) ([]domain.User, error)
	Update(ctx context.Context, id int64, input UpdateUserInput) (*domain.User, error)
	Deactivate(ctx context.Context, id int64) error
}

// UpdateUserInput carries partial admin updates; nil fields are left as is.
type UpdateUserInput struct {
	Name     *string
	Role     *domain.UserRole
	IsActive *bool
}

type UserService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
}

func NewUserService(users repository.UserRepository, tokens *auth.TokenManager, bcryptCost int, logger *zap.Logger) *UserService {
	return &UserService{users: users, tokens: tokens, bcryptCost: bcryptCost, logger: logger}
}

func (s *UserService) Register(ctx context.Context, name, email, password string, role domain.UserRole) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	if role == "" {
		role = domain.RoleUser
	}
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (string, time.Time, *domain.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, domain.ErrNotFound) {
		return "", time.Time{}, nil, domain.ErrInvalidLogin
	}
	if err != nil {
		return "", time.Time{}, nil, err
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return "", time.Time{}, nil, domain.ErrInvalidLogin
	}
	if !user.IsActive {
		return "", time.Time{}, nil, domain.ErrUserInactive
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return "", time.Time{}, nil, err
	}
	return token, expiresAt, user, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	return s.users.List(ctx, filter)
}

func (s *UserService) Update(ctx context.Context, id int64, input UpdateUserInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Deactivate(ctx context.Context, id int64) error {
	return s.users.Deactivate(ctx, id)
}

var _ UserUseCase = (*UserService)(nil)
