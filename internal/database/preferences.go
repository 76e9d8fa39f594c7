package database

import (
	"context"
	"database/sql"
	"fmt"
)

type preferenceRepository struct {
	store *Store
}

func (r *preferenceRepository) Get(ctx context.Context, key string) (string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	query := `SELECT value FROM preferences WHERE key = ?`

	var value string
	err := r.store.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get preference %s: %w", key, err)
	}

	return value, nil
}

func (r *preferenceRepository) Set(ctx context.Context, key, value string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	query := `INSERT INTO preferences (key, value) VALUES (?, ?)
	          ON CONFLICT(key) DO UPDATE SET value = excluded.value`

	if _, err := r.store.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set preference %s: %w", key, err)
	}
	return nil
}

func (r *preferenceRepository) All(ctx context.Context) (map[string]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rows, err := r.store.db.QueryContext(ctx, `SELECT key, value FROM preferences`)
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	defer rows.Close()

	prefs := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		prefs[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}

	return prefs, nil
}
