package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/onboard/internal/db"
	"github.com/alexanderramin/onboard/internal/domain"
)

// SQLiteCompletionRepo implements CompletionRepo using a SQLite database.
type SQLiteCompletionRepo struct {
	db db.DBTX
}

func NewSQLiteCompletionRepo(conn db.DBTX) *SQLiteCompletionRepo {
	return &SQLiteCompletionRepo{db: conn}
}

func (r *SQLiteCompletionRepo) Create(ctx context.Context, c *Completion) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO completions (id, user_id, user_type, saved, error, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, string(c.UserType), boolToInt(c.Saved), c.Error, formatTime(c.CompletedAt))
	if err != nil {
		return fmt.Errorf("inserting completion: %w", err)
	}
	return nil
}

const completionColumns = `id, user_id, user_type, saved, error, completed_at`

func (r *SQLiteCompletionRepo) Latest(ctx context.Context, userID string) (*Completion, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+completionColumns+` FROM completions WHERE user_id = ?
		ORDER BY completed_at DESC LIMIT 1`, userID)
	c, err := scanCompletion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("completion for %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning completion: %w", err)
	}
	return c, nil
}

func (r *SQLiteCompletionRepo) ListByUser(ctx context.Context, userID string) ([]*Completion, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+completionColumns+` FROM completions WHERE user_id = ?
		ORDER BY completed_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing completions: %w", err)
	}
	defer rows.Close()

	var out []*Completion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning completion: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCompletion(s scanner) (*Completion, error) {
	var c Completion
	var userType, completedAt string
	var saved int
	if err := s.Scan(&c.ID, &c.UserID, &userType, &saved, &c.Error, &completedAt); err != nil {
		return nil, err
	}
	c.UserType = domain.UserType(userType)
	c.Saved = saved != 0
	c.CompletedAt = parseTime(completedAt)
	return &c, nil
}
