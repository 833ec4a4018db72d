// Package history records every executed action with its terminal result, in
// a bounded in-memory log mirrored to SQLite for queries that outlive the cap.
package history

// #region imports
import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/JoelJaison394/Minecraft-Agent/internal/action"
)

// #endregion

// #region result

// ResultKind is the terminal state of an executed action.
type ResultKind string

const (
	ResultCompleted ResultKind = "completed"
	ResultFailed    ResultKind = "failed"
	ResultTimedOut  ResultKind = "timed_out"
	ResultNoOp      ResultKind = "noop" // soft failure: nothing to do
)

// Entry is one immutable history record.
type Entry struct {
	Seq      int           `json:"seq"`
	CycleID  string        `json:"cycle_id"`
	Action   action.Action `json:"action"`
	Result   ResultKind    `json:"result"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
	At       time.Time     `json:"at"`
}

// #endregion

// #region log

// Log is the bounded execution history. Oldest entries are evicted first once
// the cap is reached. When a Store is attached, every entry is also persisted.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	nextSeq int
	cap     int
	store   *Store
	logger  *zap.Logger
}

// NewLog creates a history log with the given cap. store may be nil.
func NewLog(cap int, store *Store, logger *zap.Logger) *Log {
	return &Log{
		entries: make([]Entry, 0, cap),
		nextSeq: 1,
		cap:     cap,
		store:   store,
		logger:  logger,
	}
}

// Append records a terminal outcome, assigning the sequence number. Persist
// failures are logged and do not affect the in-memory record.
func (l *Log) Append(e Entry) Entry {
	l.mu.Lock()
	e.Seq = l.nextSeq
	l.nextSeq++
	if len(l.entries) >= l.cap {
		l.entries = l.entries[1:]
	}
	l.entries = append(l.entries, e)
	store := l.store
	l.mu.Unlock()

	if store != nil {
		if err := store.Insert(e); err != nil {
			l.logger.Warn("history persist failed", zap.Int("seq", e.Seq), zap.Error(err))
		}
	}
	return e
}

// Recent returns up to n entries, newest last.
func (l *Log) Recent(n int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]Entry, n)
	copy(out, l.entries[len(l.entries)-n:])
	return out
}

// Len returns the current number of retained entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// #endregion
