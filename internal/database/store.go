// Package database persists dashboard state in SQLite: user preferences,
// saved trips, and the route cache.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"campus-drive/internal/models"

	_ "modernc.org/sqlite"
)

const (
	DefaultDBFileName = "campus-drive.db"
	schemaVersion     = 1
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("entity not found")

// PreferenceRepository is a string key/value store for UI preferences
type PreferenceRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	All(ctx context.Context) (map[string]string, error)
}

// TripRepository persists the multi-stop destination selection
type TripRepository interface {
	Save(ctx context.Context, destinations []models.Location) (*models.SavedTrip, error)
	Latest(ctx context.Context) (*models.SavedTrip, error)
	List(ctx context.Context, limit int) ([]models.SavedTrip, error)
	Delete(ctx context.Context, id string) error
}

// RouteCacheRepository memoizes service-resolved route legs. It satisfies
// routing.LegCache.
type RouteCacheRepository interface {
	Get(ctx context.Context, origin, dest models.Coordinates) (*models.RouteCacheEntry, error)
	Set(ctx context.Context, entry *models.RouteCacheEntry) error
	Clear(ctx context.Context) error
}

// Store is a SQLite-backed data store
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex

	preferenceRepo PreferenceRepository
	tripRepo       TripRepository
	routeCacheRepo RouteCacheRepository
}

// New creates a SQLite store at the specified path, initializing the schema
// when needed
func New(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		log.Printf("[DB] Opening SQLite database at: %s", dbPath)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	store := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	store.preferenceRepo = &preferenceRepository{store: store}
	store.tripRepo = &tripRepository{store: store}
	store.routeCacheRepo = &routeCacheRepository{store: store}

	return store, nil
}

func (s *Store) initSchema() error {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist, create everything
		return s.createSchema()
	}

	if version < schemaVersion {
		if err := s.runMigrations(version); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) createSchema() error {
	schema := `
	-- Schema version tracking
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY
	);
	INSERT INTO schema_version (version) VALUES (1);

	-- UI preferences, string key/value
	CREATE TABLE IF NOT EXISTS preferences (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	INSERT OR IGNORE INTO preferences (key, value) VALUES
		('theme', 'dark'),
		('show_boot_animation', 'true'),
		('music_volume', '70'),
		('music_shuffle', 'false'),
		('music_repeat', 'off');

	-- Saved multi-stop trips, destinations as a JSON array
	CREATE TABLE IF NOT EXISTS trips (
		id TEXT PRIMARY KEY,
		destinations TEXT NOT NULL,
		saved_at DATETIME NOT NULL
	);

	-- Route cache: one row per resolved (origin, destination) leg
	CREATE TABLE IF NOT EXISTS route_cache (
		origin_lat REAL NOT NULL,
		origin_lng REAL NOT NULL,
		dest_lat REAL NOT NULL,
		dest_lng REAL NOT NULL,
		polyline TEXT NOT NULL,
		distance_meters REAL NOT NULL,
		duration_seconds REAL NOT NULL,
		PRIMARY KEY (origin_lat, origin_lng, dest_lat, dest_lng)
	);

	CREATE INDEX IF NOT EXISTS idx_trips_saved_at ON trips(saved_at DESC);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	log.Printf("[DB] SQLite schema initialized (version %d)", schemaVersion)
	return nil
}

func (s *Store) runMigrations(fromVersion int) error {
	// Add migrations here as the schema evolves
	_, err := s.db.Exec("UPDATE schema_version SET version = ?", schemaVersion)
	return err
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		// Checkpoint WAL before closing
		s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
		return s.db.Close()
	}
	return nil
}

// HealthCheck verifies the database connection
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetDBPath returns the current database file path
func (s *Store) GetDBPath() string {
	return s.dbPath
}

// Repository accessors
func (s *Store) Preferences() PreferenceRepository { return s.preferenceRepo }
func (s *Store) Trips() TripRepository             { return s.tripRepo }
func (s *Store) RouteCache() RouteCacheRepository  { return s.routeCacheRepo }
