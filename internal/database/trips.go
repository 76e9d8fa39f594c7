package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"campus-drive/internal/models"
)

type tripRepository struct {
	store *Store
}

func (r *tripRepository) Save(ctx context.Context, destinations []models.Location) (*models.SavedTrip, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	encoded, err := json.Marshal(destinations)
	if err != nil {
		return nil, fmt.Errorf("failed to encode destinations: %w", err)
	}

	trip := &models.SavedTrip{
		ID:           uuid.NewString(),
		Destinations: destinations,
		SavedAt:      time.Now().UTC(),
	}

	query := `INSERT INTO trips (id, destinations, saved_at) VALUES (?, ?, ?)`
	if _, err := r.store.db.ExecContext(ctx, query, trip.ID, string(encoded), trip.SavedAt); err != nil {
		return nil, fmt.Errorf("failed to save trip: %w", err)
	}

	return trip, nil
}

func (r *tripRepository) Latest(ctx context.Context) (*models.SavedTrip, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	query := `SELECT id, destinations, saved_at FROM trips ORDER BY saved_at DESC, id LIMIT 1`

	trip, err := scanTrip(r.store.db.QueryRowContext(ctx, query))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest trip: %w", err)
	}

	return trip, nil
}

func (r *tripRepository) List(ctx context.Context, limit int) ([]models.SavedTrip, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, destinations, saved_at FROM trips ORDER BY saved_at DESC, id LIMIT ?`
	rows, err := r.store.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	trips := []models.SavedTrip{}
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, *trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trips: %w", err)
	}

	return trips, nil
}

func (r *tripRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	result, err := r.store.db.ExecContext(ctx, `DELETE FROM trips WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*models.SavedTrip, error) {
	var trip models.SavedTrip
	var encoded string

	if err := row.Scan(&trip.ID, &encoded, &trip.SavedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(encoded), &trip.Destinations); err != nil {
		return nil, fmt.Errorf("failed to decode destinations: %w", err)
	}
	return &trip, nil
}
