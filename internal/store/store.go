package store

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Store persists last-known player positions so a returning player reappears
// where they left, subject to the controller's own ground resolution.
type Store struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database at path.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL for concurrent reads while the frame loop writes
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS players (
			name       TEXT PRIMARY KEY,
			x          REAL NOT NULL,
			y          REAL NOT NULL,
			z          REAL NOT NULL,
			updated_at INTEGER NOT NULL
		)`)
	return err
}

// SavePosition upserts a player's last-known position.
func (s *Store) SavePosition(name string, pos rl.Vector3) error {
	_, err := s.conn.Exec(`
		INSERT INTO players (name, x, y, z, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			x = excluded.x, y = excluded.y, z = excluded.z,
			updated_at = excluded.updated_at`,
		name, pos.X, pos.Y, pos.Z, time.Now().Unix())
	return err
}

// LoadPosition returns a player's saved position, or ok=false if unknown.
func (s *Store) LoadPosition(name string) (rl.Vector3, bool, error) {
	var x, y, z float64
	err := s.conn.QueryRow(`SELECT x, y, z FROM players WHERE name = ?`, name).Scan(&x, &y, &z)
	if err == sql.ErrNoRows {
		return rl.Vector3{}, false, nil
	}
	if err != nil {
		return rl.Vector3{}, false, err
	}
	return rl.Vector3{X: float32(x), Y: float32(y), Z: float32(z)}, true, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}
