package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Scurrlin/stocks-app/internal/models"
)

// FindUserByEmail resolves an email address to its directory record. It
// returns nil without an error when no record matches, so callers can treat
// unknown users as an expected outcome.
func (db *DB) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if email == "" {
		return nil, nil
	}

	query := `
		SELECT id, email, name, password_hash, created_at
		FROM users
		WHERE email = $1
	`
	var u models.User
	err := db.conn.QueryRowContext(ctx, query, email).Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &u, nil
}

// CreateUser inserts a new directory record. Returns ErrAlreadyExists when
// the email is already registered.
func (db *DB) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == "" || u.Email == "" || u.PasswordHash == "" {
		return ErrValidation
	}

	query := `
		INSERT INTO users (id, email, name, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	now := time.Now()
	_, err := db.conn.ExecContext(ctx, query, u.ID, u.Email, u.Name, u.PasswordHash, now)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	u.CreatedAt = now
	return nil
}
