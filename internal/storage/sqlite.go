package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database holding score history and, for the SSH
// server, every player's save slots.
type Store struct {
	db *sql.DB
}

// ScoreEntry represents a single finished game.
type ScoreEntry struct {
	ID        int64
	Owner     string
	Score     int
	MaxTile   int
	Won       bool
	CreatedAt time.Time
}

// ScoreStats contains aggregated statistics for one player or everyone.
type ScoreStats struct {
	Owner      string
	GamesCount int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	BestTile   int
	Wins       int
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := expandHome(dbPath)
	if err != nil {
		return nil, err
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// SQLite allows a single writer; SSH sessions share this pool.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			owner TEXT NOT NULL,
			score INTEGER NOT NULL,
			max_tile INTEGER NOT NULL DEFAULT 0,
			won INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_owner ON scores(owner);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(score DESC);

		CREATE TABLE IF NOT EXISTS slots (
			owner TEXT NOT NULL,
			name TEXT NOT NULL,
			data BLOB NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (owner, name)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveScore records a finished game for owner.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(owner string, score, maxTile int, won bool) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (owner, score, max_tile, won) VALUES (?, ?, ?, ?)",
		owner, score, maxTile, won,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopScores retrieves the top N scores for owner, or for everyone when
// owner is empty. Results are ordered by score descending.
func (s *Store) TopScores(owner string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, owner, score, max_tile, won, created_at
		 FROM scores
		 WHERE ? = '' OR owner = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		owner, owner, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Owner, &e.Score, &e.MaxTile, &e.Won, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTimestamp(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the highest score for owner (everyone when empty).
// Returns 0 if no scores exist.
func (s *Store) HighScore(owner string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE ? = '' OR owner = ?",
		owner, owner,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearScores deletes the score history of owner, or all history when
// owner is empty.
func (s *Store) ClearScores(owner string) error {
	_, err := s.db.Exec("DELETE FROM scores WHERE ? = '' OR owner = ?", owner, owner)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// Stats retrieves aggregated statistics for owner (everyone when empty).
func (s *Store) Stats(owner string) (*ScoreStats, error) {
	stats := &ScoreStats{Owner: owner}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(SUM(score), 0),
		        COALESCE(MAX(max_tile), 0), COALESCE(SUM(won), 0), MAX(created_at)
		 FROM scores WHERE ? = '' OR owner = ?`,
		owner, owner,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.TotalScore,
		&stats.BestTile, &stats.Wins, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	stats.LastPlayed = parseTimestamp(lastPlayed)

	return stats, nil
}

// Slots returns the save slots belonging to owner.
func (s *Store) Slots(owner string) SlotBackend {
	return &sqliteSlots{db: s.db, owner: owner}
}

type sqliteSlots struct {
	db    *sql.DB
	owner string
}

func (sl *sqliteSlots) ReadSlot(name string) ([]byte, error) {
	var data []byte
	err := sl.db.QueryRow(
		"SELECT data FROM slots WHERE owner = ? AND name = ?",
		sl.owner, name,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot read slot %s: %w", name, err)
	}
	return data, nil
}

func (sl *sqliteSlots) WriteSlot(name string, data []byte) error {
	_, err := sl.db.Exec(
		`INSERT INTO slots (owner, name, data) VALUES (?, ?, ?)
		 ON CONFLICT(owner, name) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		sl.owner, name, data,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write slot %s: %w", name, err)
	}
	return nil
}

func (sl *sqliteSlots) DeleteSlot(name string) error {
	result, err := sl.db.Exec(
		"DELETE FROM slots WHERE owner = ? AND name = ?",
		sl.owner, name,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot delete slot %s: %w", name, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot delete slot %s: %w", name, err)
	}
	if n == 0 {
		return ErrSlotNotFound
	}
	return nil
}

// parseTimestamp handles both time.Time and string datetimes from the driver.
func parseTimestamp(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
