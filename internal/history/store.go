package history

// #region imports
import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/JoelJaison394/Minecraft-Agent/internal/action"
)

// #endregion

// #region schema

const actionHistorySchema = `
CREATE TABLE IF NOT EXISTS action_history (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    seq          INTEGER NOT NULL,
    cycle_id     TEXT NOT NULL,
    kind         TEXT NOT NULL,
    signature    TEXT NOT NULL,
    params_json  TEXT NOT NULL,
    result       TEXT NOT NULL,
    error        TEXT NOT NULL DEFAULT '',
    duration_ms  INTEGER NOT NULL,
    created_at   INTEGER NOT NULL
);
`

const actionHistoryIndex = `
CREATE INDEX IF NOT EXISTS idx_action_history_kind
ON action_history(kind, result, created_at);
`

// #endregion

// #region store

// Store persists history entries in SQLite for queries that outlive the
// in-memory cap (failure-window counts, post-mortem inspection).
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the history database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	return NewStore(db)
}

// NewStore runs migrations against an existing database handle.
func NewStore(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(actionHistorySchema); err != nil {
		return nil, fmt.Errorf("migrate history: %w", err)
	}
	if _, err := db.Exec(actionHistoryIndex); err != nil {
		return nil, fmt.Errorf("migrate history index: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// #endregion

// #region insert

// Insert persists one terminal entry.
func (s *Store) Insert(e Entry) error {
	paramsJSON, err := json.Marshal(e.Action.Params)
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO action_history
		(seq, cycle_id, kind, signature, params_json, result, error, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Seq,
		e.CycleID,
		string(e.Action.Kind),
		e.Action.Signature(),
		string(paramsJSON),
		string(e.Result),
		e.Error,
		e.Duration.Milliseconds(),
		e.At.UnixMilli(), // epoch millis compare correctly regardless of zone or precision
	)
	return err
}

// #endregion

// #region queries

// FailureCount returns how many actions of the given kind terminated in a
// non-completed result since the cutoff. The override layer uses this to spot
// failure loops.
func (s *Store) FailureCount(kind action.Kind, since time.Time) (int, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM action_history
		WHERE kind = ? AND result IN (?, ?) AND created_at >= ?`,
		string(kind), string(ResultFailed), string(ResultTimedOut),
		since.UnixMilli(),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failure count: %w", err)
	}
	return n, nil
}

// ResultCounts aggregates result kinds over the whole table, for status output.
func (s *Store) ResultCounts() (map[ResultKind]int, error) {
	rows, err := s.db.Query(`SELECT result, COUNT(*) FROM action_history GROUP BY result`)
	if err != nil {
		return nil, fmt.Errorf("result counts: %w", err)
	}
	defer rows.Close()

	out := make(map[ResultKind]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		out[ResultKind(kind)] = n
	}
	return out, rows.Err()
}

// #endregion
