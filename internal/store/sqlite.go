package store

import (
	"database/sql"
	"encoding/json"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using sqlite (pure Go driver
// modernc.org/sqlite). Settings live in a single keyed row.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path and applies the schema.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		log.Println("warning: could not set WAL mode:", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS gallery_settings (
        id INTEGER PRIMARY KEY CHECK (id = 1),
        asset_ids TEXT NOT NULL DEFAULT '[]',
        duration_seconds REAL NOT NULL DEFAULT 0
    );`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load() (Settings, error) {
	var (
		idsJSON string
		seconds float64
	)

	err := s.db.QueryRow(`SELECT asset_ids, duration_seconds FROM gallery_settings WHERE id = 1`).
		Scan(&idsJSON, &seconds)
	if err == sql.ErrNoRows {
		return Settings{}, ErrNotFound
	}
	if err != nil {
		return Settings{}, err
	}

	var ids []string
	if err := json.Unmarshal([]byte(idsJSON), &ids); err != nil {
		return Settings{}, err
	}

	return Settings{
		AssetIDs:      ids,
		SlideDuration: time.Duration(seconds * float64(time.Second)),
	}, nil
}

func (s *SQLiteStore) SaveAssetIDs(ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`INSERT INTO gallery_settings(id, asset_ids) VALUES(1, ?)
        ON CONFLICT(id) DO UPDATE SET asset_ids = excluded.asset_ids`, string(data))
	return err
}

func (s *SQLiteStore) SaveDuration(d time.Duration) error {
	_, err := s.db.Exec(`INSERT INTO gallery_settings(id, duration_seconds) VALUES(1, ?)
        ON CONFLICT(id) DO UPDATE SET duration_seconds = excluded.duration_seconds`, d.Seconds())
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
