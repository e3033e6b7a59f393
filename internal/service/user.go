package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Casglez3/login-register-backend/internal/crypto"
	"github.com/Casglez3/login-register-backend/internal/models"
	"github.com/Casglez3/login-register-backend/internal/repository"
)

// UserService is the account maintenance workflow. Callers must already
// have passed the authorization gate; the target account is not matched
// against the caller's identity.
type UserService interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, userName string) (*models.User, error)
	Update(ctx context.Context, id string, userName, password *string) error
	Delete(ctx context.Context, id string) error
}

type userService struct {
	repo   repository.UserRepository
	hasher crypto.Hasher
	logger *zap.Logger
}

// NewUserService creates a UserService.
func NewUserService(repo repository.UserRepository, hasher crypto.Hasher, logger *zap.Logger) UserService {
	return &userService{
		repo:   repo,
		hasher: hasher,
		logger: logger,
	}
}

// GetByID returns the account, or nil without error when no account has
// that id.
func (s *userService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		s.logger.Error("Failed to get user by id", zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}

// GetByUsername returns the account, or nil without error when no account
// has that username.
func (s *userService) GetByUsername(ctx context.Context, userName string) (*models.User, error) {
	user, err := s.repo.GetByUsername(ctx, userName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		s.logger.Error("Failed to get user by username", zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}

// Update replaces the provided fields and leaves the rest unchanged. A new
// password must pass the policy before anything is persisted.
func (s *userService) Update(ctx context.Context, id string, userName, password *string) error {
	var upd models.AccountUpdate

	if userName != nil {
		upd.UserName = userName
	}
	if password != nil {
		if !crypto.ValidatePassword(*password) {
			return ErrWeakPassword
		}
		passwordHash, err := s.hasher.Hash(*password)
		if err != nil {
			s.logger.Error("Failed to hash password", zap.Error(err))
			return fmt.Errorf("failed to hash password: %w", err)
		}
		upd.PasswordHash = &passwordHash
	}

	if err := s.repo.Update(ctx, id, upd); err != nil {
		s.logger.Error("Failed to update user", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// Delete removes the account. A missing id is not an error.
func (s *userService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete user", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
