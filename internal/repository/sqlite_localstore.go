package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/onboard/internal/db"
)

// SQLiteLocalStore implements LocalStore on the local_store table.
type SQLiteLocalStore struct {
	db  db.DBTX
	uow db.UnitOfWork
	now func() time.Time
}

// NewSQLiteLocalStore creates a store on conn. uow may be nil, in which case
// SetMany writes keys one by one.
func NewSQLiteLocalStore(conn db.DBTX, uow db.UnitOfWork) *SQLiteLocalStore {
	return &SQLiteLocalStore{db: conn, uow: uow, now: time.Now}
}

func (s *SQLiteLocalStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM local_store WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("local store key %q: %w", key, ErrNotFound)
		}
		return "", fmt.Errorf("reading local store key %q: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteLocalStore) Set(ctx context.Context, key, value string) error {
	return upsertKey(ctx, s.db, key, value, s.now())
}

// SetMany writes all values atomically when a unit of work is configured.
func (s *SQLiteLocalStore) SetMany(ctx context.Context, values map[string]string) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	now := s.now()

	write := func(ctx context.Context, tx db.DBTX) error {
		for _, k := range keys {
			if err := upsertKey(ctx, tx, k, values[k], now); err != nil {
				return err
			}
		}
		return nil
	}
	if s.uow == nil {
		return write(ctx, s.db)
	}
	return s.uow.WithinTx(ctx, write)
}

func upsertKey(ctx context.Context, conn db.DBTX, key, value string, now time.Time) error {
	_, err := conn.ExecContext(ctx,
		`INSERT INTO local_store (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, formatTime(now))
	if err != nil {
		return fmt.Errorf("writing local store key %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteLocalStore) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM local_store WHERE key = ?`, k); err != nil {
			return fmt.Errorf("deleting local store key %q: %w", k, err)
		}
	}
	return nil
}

func (s *SQLiteLocalStore) All(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value, updated_at FROM local_store ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("listing local store: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var updated string
		if err := rows.Scan(&e.Key, &e.Value, &updated); err != nil {
			return nil, fmt.Errorf("scanning local store entry: %w", err)
		}
		e.UpdatedAt = parseTime(updated)
		out = append(out, e)
	}
	return out, rows.Err()
}
