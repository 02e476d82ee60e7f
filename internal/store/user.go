// Package store provides database access methods for all Linkfolio
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"linkfolio/internal/models"
)

// UserStore handles all user-related database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// userColumns lists the columns selected in user queries.
const userColumns = `id, email, password_hash, display_name, slug, bio, role, totp_secret, totp_enabled, created_at, updated_at`

// scanUser scans a user row from the result set.
func scanUser(scanner interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := scanner.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Slug, &u.Bio,
		&u.Role, &u.TOTPSecret, &u.TOTPEnabled, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByEmail retrieves a user by their email address. Returns nil if not found.
func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user by their UUID. Returns nil if not found.
func (s *UserStore) FindByID(id uuid.UUID) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// FindBySlug retrieves a user by their public page slug. Returns nil if not found.
func (s *UserStore) FindBySlug(slug string) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE slug = $1`, slug)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by slug: %w", err)
	}
	return u, nil
}

// Create inserts a new user with a bcrypt-hashed password.
func (s *UserStore) Create(email, password, displayName, slug string, role models.Role) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	row := s.db.QueryRow(`
		INSERT INTO users (email, password_hash, display_name, slug, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		email, string(hash), displayName, slug, role,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// UpdateProfile changes a user's display name and bio.
func (s *UserStore) UpdateProfile(userID uuid.UUID, displayName, bio string) error {
	result, err := s.db.Exec(`
		UPDATE users SET display_name = $1, bio = $2, updated_at = NOW() WHERE id = $3
	`, displayName, bio, userID)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// SetTOTPSecret saves the TOTP secret for a user (during 2FA setup).
func (s *UserStore) SetTOTPSecret(userID uuid.UUID, secret string) error {
	_, err := s.db.Exec(`
		UPDATE users SET totp_secret = $1, updated_at = NOW() WHERE id = $2
	`, secret, userID)
	if err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	return nil
}

// EnableTOTP marks 2FA as active for a user (after successful code verification).
func (s *UserStore) EnableTOTP(userID uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE users SET totp_enabled = TRUE, updated_at = NOW() WHERE id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	return nil
}

// Delete removes a user by ID. The page row goes with it via the foreign key.
func (s *UserStore) Delete(userID uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// CheckPassword verifies a plaintext password against the user's stored hash.
func (s *UserStore) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
