package learning

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// SQLiteStore persists corrections across restarts.
type SQLiteStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewSQLiteStore opens (creating if needed) the corrections database.
func NewSQLiteStore(dbPath string, logger zerolog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open learning database: %w", err)
	}

	// WAL keeps concurrent resolver lookups from blocking on writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger.With().Str("component", "learning").Logger(),
	}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS corrections (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		input TEXT NOT NULL,
		chosen_path TEXT NOT NULL,
		count INTEGER NOT NULL DEFAULT 1,
		updated_at TIMESTAMP NOT NULL,
		UNIQUE(user_id, input, chosen_path)
	);
	CREATE INDEX IF NOT EXISTS idx_corrections_lookup
		ON corrections(user_id, input);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("init learning schema: %w", err)
	}
	return nil
}

// Record implements Store.
func (s *SQLiteStore) Record(userID, input, chosenPath string) error {
	input = normalizeInput(input)
	if input == "" || chosenPath == "" {
		return nil
	}

	_, err := s.db.Exec(`
		INSERT INTO corrections (id, user_id, input, chosen_path, count, updated_at)
		VALUES (?, ?, ?, ?, 1, ?)
		ON CONFLICT(user_id, input, chosen_path)
		DO UPDATE SET count = count + 1, updated_at = excluded.updated_at`,
		uuid.NewString(), userID, input, chosenPath, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("record correction: %w", err)
	}
	return nil
}

// Lookup implements Store.
func (s *SQLiteStore) Lookup(userID, input string) (Suggestion, bool) {
	rows, err := s.db.Query(
		`SELECT chosen_path, count FROM corrections WHERE user_id = ? AND input = ?`,
		userID, normalizeInput(input),
	)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Learning lookup failed")
		return Suggestion{}, false
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var path string
		var count int
		if err := rows.Scan(&path, &count); err != nil {
			s.logger.Warn().Err(err).Msg("Learning row scan failed")
			continue
		}
		counts[path] = count
	}
	if err := rows.Err(); err != nil {
		s.logger.Warn().Err(err).Msg("Learning row iteration failed")
	}

	return bestOf(counts)
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
