package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/Casglez3/login-register-backend/internal/models"
)

var (
	// ErrNotFound is returned when no account matches the lookup key.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateUser is returned when an insert hits the unique
	// username constraint.
	ErrDuplicateUser = errors.New("user name already taken")
)

// uniqueViolation is the postgres error code for a unique constraint hit.
const uniqueViolation = "23505"

// UserRepository is the account directory: it creates records, looks them
// up by unique username or by id, and applies partial updates and deletes.
type UserRepository interface {
	Create(ctx context.Context, userName, passwordHash string) (*models.User, error)
	GetByUsername(ctx context.Context, userName string) (*models.User, error)
	GetByUsernameWithPassword(ctx context.Context, userName string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id string, upd models.AccountUpdate) error
	Delete(ctx context.Context, id string) error
}

type userRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

// NewUserRepository creates a postgres-backed UserRepository.
func NewUserRepository(db *sqlx.DB, log *zap.Logger) UserRepository {
	return &userRepository{db: db, log: log}
}

// Create inserts a new account, assigning it a fresh id. The unique index
// on user_name is the authoritative duplicate check.
func (r *userRepository) Create(ctx context.Context, userName, passwordHash string) (*models.User, error) {
	user := &models.User{
		ID:           uuid.NewString(),
		UserName:     userName,
		PasswordHash: passwordHash,
	}

	query := `INSERT INTO users (id, user_name, password_hash) VALUES ($1, $2, $3) RETURNING created_at`
	err := r.db.QueryRowxContext(ctx, query, user.ID, user.UserName, user.PasswordHash).Scan(&user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, userName string) (*models.User, error) {
	var user models.User
	query := `SELECT id, user_name, created_at FROM users WHERE user_name = $1`
	if err := r.db.GetContext(ctx, &user, query, userName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsernameWithPassword selects the credential column excluded from
// normal reads. Only the login workflow should use it.
func (r *userRepository) GetByUsernameWithPassword(ctx context.Context, userName string) (*models.User, error) {
	var user models.User
	query := `SELECT id, user_name, password_hash, created_at FROM users WHERE user_name = $1`
	if err := r.db.GetContext(ctx, &user, query, userName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	query := `SELECT id, user_name, created_at FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Update applies the non-nil fields of upd in a single statement. With no
// fields set it is a no-op.
func (r *userRepository) Update(ctx context.Context, id string, upd models.AccountUpdate) error {
	set := make([]string, 0, 2)
	args := make([]interface{}, 0, 3)

	if upd.UserName != nil {
		args = append(args, *upd.UserName)
		set = append(set, fmt.Sprintf("user_name = $%d", len(args)))
	}
	if upd.PasswordHash != nil {
		args = append(args, *upd.PasswordHash)
		set = append(set, fmt.Sprintf("password_hash = $%d", len(args)))
	}
	if len(set) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d`, strings.Join(set, ", "), len(args))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// Delete removes the account. Deleting an id that matches nothing is not
// an error.
func (r *userRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
