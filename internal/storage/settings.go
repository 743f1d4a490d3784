package storage

import (
	"context"
	"database/sql"
	"errors"
)

// GetSetting returns the stored value for key, or the empty string when the
// key is unset.
func (s *SQLiteStore) GetSetting(ctx context.Context, key string) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}
	if err := validateString(key, "key"); err != nil {
		return "", err
	}

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", storageErr("query setting", err)
	}
	return value, nil
}

// SaveSetting stores a key/value pair, replacing any prior value.
func (s *SQLiteStore) SaveSetting(ctx context.Context, key, value string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(key, "key"); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value); err != nil {
		return storageErr("save setting", err)
	}
	return nil
}
