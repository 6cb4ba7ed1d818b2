package store

import (
	"context"
	"database/sql"
	"errors"

	"pos-service/internal/models"
)

// ErrUsernameTaken is returned when registering an existing username
var ErrUsernameTaken = errors.New("username already taken")

// CreateUser inserts a new user
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, password_hash, is_staff)
		VALUES ($1, $2, $3)
		RETURNING id, has_paid, payment_notified, created_at, updated_at`

	err := s.db.GetContext(ctx, user, query,
		user.Username, user.PasswordHash, user.IsStaff)
	if isUniqueViolation(err) {
		return ErrUsernameTaken
	}
	return err
}

// GetUserByID retrieves a user by ID
func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE username = $1", username)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// MarkUserPaid flips has_paid and stamps paid_at in a single update
func (s *Store) MarkUserPaid(ctx context.Context, userID int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET has_paid = TRUE, paid_at = NOW(), updated_at = NOW() WHERE id = $1",
		userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkPaymentNotified flips the one-shot payment notification latch.
// Returns true if this call won the latch, false if it was already set.
func (s *Store) MarkPaymentNotified(ctx context.Context, userID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET payment_notified = TRUE, updated_at = NOW() WHERE id = $1 AND payment_notified = FALSE",
		userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
