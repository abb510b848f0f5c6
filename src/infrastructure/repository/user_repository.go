package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"insights-api/src/database"
	"insights-api/src/domain"
	"insights-api/src/service"
)

// UserRepository implements domain.UserRepository on Postgres
type UserRepository struct {
	db     *database.DB
	logger *logrus.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB, logger *logrus.Logger) domain.UserRepository {
	return &UserRepository{db: db, logger: logger}
}

const userColumns = `id, email, password_hash, first_name, last_name, bio, role, is_active, reset_token, reset_expires_at, last_login_at, created_at, updated_at`

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, bio, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.Bio, user.Role.String(), user.IsActive, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		r.logger.WithError(err).Error("failed to create user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.WithField("user_id", user.ID).Info("user created")
	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a user by normalized email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

// GetByResetToken retrieves a user by its pending reset token
func (r *UserRepository) GetByResetToken(ctx context.Context, token string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE reset_token = $1`, userColumns)
	return r.scanUser(r.db.QueryRowContext(ctx, query, token))
}

// Update replaces the mutable columns of a user
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET email = $1, password_hash = $2, first_name = $3, last_name = $4, bio = $5,
		    role = $6, is_active = $7, reset_token = $8, reset_expires_at = $9, updated_at = $10
		WHERE id = $11`

	result, err := r.db.ExecContext(ctx, query,
		user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Bio,
		user.Role.String(), user.IsActive, user.ResetToken, user.ResetExpiresAt,
		user.UpdatedAt, user.ID,
	)
	if err != nil {
		r.logger.WithError(err).Error("failed to update user")
		return fmt.Errorf("failed to update user: %w", err)
	}

	if err := requireRowsAffected(result); err != nil {
		return service.ErrUserNotFound
	}
	return nil
}

// UpdateLastLogin stamps the last successful login
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// IsEmailExists reports whether an account with the email exists
func (r *UserRepository) IsEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	var bio sql.NullString
	var role string
	var resetToken sql.NullString
	var resetExpiresAt sql.NullTime
	var lastLoginAt sql.NullTime

	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName,
		&bio, &role, &user.IsActive, &resetToken, &resetExpiresAt, &lastLoginAt,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, service.ErrUserNotFound
		}
		r.logger.WithError(err).Error("failed to scan user")
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.Role = domain.Role(role)
	if bio.Valid {
		user.Bio = bio.String
	}
	if resetToken.Valid {
		user.ResetToken = &resetToken.String
	}
	if resetExpiresAt.Valid {
		user.ResetExpiresAt = &resetExpiresAt.Time
	}
	if lastLoginAt.Valid {
		user.LastLoginAt = &lastLoginAt.Time
	}

	return &user, nil
}
