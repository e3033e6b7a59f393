package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Casglez3/login-register-backend/internal/crypto"
	"github.com/Casglez3/login-register-backend/internal/models"
	"github.com/Casglez3/login-register-backend/internal/repository"
	"github.com/Casglez3/login-register-backend/internal/token"
)

var ( // Define custom errors
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrWeakPassword       = errors.New("password does not satisfy the policy")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// dummyHash is compared against when a login names an unknown user, so the
// request burns a bcrypt verification either way. The result is discarded.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService orchestrates the registration and login workflows.
type AuthService interface {
	Register(ctx context.Context, userName, password string) (*models.User, error)
	Login(ctx context.Context, userName, password string) (string, *models.User, error)
}

type authService struct {
	repo   repository.UserRepository
	hasher crypto.Hasher
	tokens *token.Manager
	logger *zap.Logger
}

// NewAuthService creates an AuthService backed by the given account
// directory, hasher and token manager.
func NewAuthService(repo repository.UserRepository, hasher crypto.Hasher, tokens *token.Manager, logger *zap.Logger) AuthService {
	return &authService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

// Register creates an account: uniqueness check, password policy check,
// hash, persist. The returned user carries the hash only in memory; the
// boundary never renders it.
func (s *authService) Register(ctx context.Context, userName, password string) (*models.User, error) {
	_, err := s.repo.GetByUsername(ctx, userName)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		s.logger.Error("Failed to check existing user", zap.Error(err))
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	if !crypto.ValidatePassword(password) {
		return nil, ErrWeakPassword
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, userName, passwordHash)
	if err != nil {
		// Two concurrent registrations can both pass the pre-check; the
		// unique index decides the loser.
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, ErrUserAlreadyExists
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", zap.String("userName", user.UserName))
	return user, nil
}

// Login verifies credentials and issues a bearer token.
func (s *authService) Login(ctx context.Context, userName, password string) (string, *models.User, error) {
	user, err := s.repo.GetByUsernameWithPassword(ctx, userName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Unknown usernames cost the same as wrong passwords.
			_, _ = s.hasher.Compare(password, dummyHash)
			return "", nil, ErrUserNotFound
		}
		s.logger.Error("Failed to get user by username", zap.Error(err))
		return "", nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	ok, err := s.hasher.Compare(password, user.PasswordHash)
	if err != nil {
		s.logger.Error("Stored credential hash is malformed", zap.String("userName", userName), zap.Error(err))
		return "", nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return "", nil, ErrInvalidCredentials
	}

	tokenString, err := s.tokens.Issue(user.ID, user.UserName)
	if err != nil {
		s.logger.Error("Failed to generate token", zap.Error(err))
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("User logged in", zap.String("userName", user.UserName))
	return tokenString, user, nil
}
