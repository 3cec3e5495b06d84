package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Scurrlin/stocks-app/internal/models"
)

// AddToWatchlist stores a new watchlist entry for the user. The symbol is
// uppercased and the company name trimmed before the uniqueness check. The
// (user_id, symbol) primary key enforces uniqueness, so concurrent adds of
// the same pair cannot both succeed.
func (db *DB) AddToWatchlist(ctx context.Context, userID, symbol, company string) (*models.WatchlistEntry, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	company = strings.TrimSpace(company)
	if userID == "" || symbol == "" || company == "" {
		return nil, ErrValidation
	}

	query := `
		INSERT INTO watchlist (user_id, symbol, company, added_at)
		VALUES ($1, $2, $3, $4)
	`
	now := time.Now()
	_, err := db.conn.ExecContext(ctx, query, userID, symbol, company, now)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to add to watchlist: %w", err)
	}

	return &models.WatchlistEntry{
		UserID:  userID,
		Symbol:  symbol,
		Company: company,
		AddedAt: now,
	}, nil
}

// RemoveFromWatchlist deletes the entry for (userID, symbol). Returns
// ErrNotFound when no matching entry was deleted, so a second remove of the
// same symbol reports the absence instead of silently succeeding.
func (db *DB) RemoveFromWatchlist(ctx context.Context, userID, symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if userID == "" || symbol == "" {
		return ErrValidation
	}

	query := `DELETE FROM watchlist WHERE user_id = $1 AND symbol = $2`
	result, err := db.conn.ExecContext(ctx, query, userID, symbol)
	if err != nil {
		return fmt.Errorf("failed to remove from watchlist: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListWatchlist returns the user's watchlist entries, most recently added
// first. An empty watchlist yields an empty slice, not an error.
func (db *DB) ListWatchlist(ctx context.Context, userID string) ([]models.WatchlistEntry, error) {
	query := `
		SELECT user_id, symbol, company, added_at
		FROM watchlist
		WHERE user_id = $1
		ORDER BY added_at DESC
	`
	rows, err := db.conn.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist: %w", err)
	}
	defer rows.Close()

	var entries []models.WatchlistEntry
	for rows.Next() {
		var e models.WatchlistEntry
		if err := rows.Scan(&e.UserID, &e.Symbol, &e.Company, &e.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate watchlist: %w", err)
	}

	return entries, nil
}
