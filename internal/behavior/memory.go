// Package behavior tracks recent action signatures to detect decision-loop
// failure (the agent repeating itself) and proposes override actions that
// break the loop without consulting the external advisor.
package behavior

// #region imports
import (
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/JoelJaison394/Minecraft-Agent/internal/action"
	"github.com/JoelJaison394/Minecraft-Agent/internal/config"
)

// #endregion

// #region failure-counter

// FailureCounter reports how many actions of a kind failed since a cutoff.
// Satisfied by history.Store; nil disables the failure-loop override branch.
type FailureCounter interface {
	FailureCount(kind action.Kind, since time.Time) (int, error)
}

// #endregion

// #region memory-struct

type signatureRecord struct {
	sig string
	at  time.Time
}

// Memory is the behavioral memory: a bounded ring of recent action
// signatures, the consecutive-repeat count of the current signature, and the
// stuck flag. Exactly one signature has a non-zero count at any time.
type Memory struct {
	mu           sync.Mutex
	cfg          config.BehaviorConfig
	ring         []signatureRecord // bounded at cfg.WindowSize, oldest first
	current      string
	count        int
	stuck        bool
	lastOverride time.Time
	failures     FailureCounter
	rng          *rand.Rand
	logger       *zap.Logger
}

// New creates a behavioral memory. failures may be nil.
func New(cfg config.BehaviorConfig, failures FailureCounter, logger *zap.Logger) *Memory {
	return NewWithRand(cfg, failures, rand.New(rand.NewSource(time.Now().UnixNano())), logger)
}

// NewWithRand injects the randomness source. Used for deterministic tests.
func NewWithRand(cfg config.BehaviorConfig, failures FailureCounter, rng *rand.Rand, logger *zap.Logger) *Memory {
	return &Memory{
		cfg:      cfg,
		ring:     make([]signatureRecord, 0, cfg.WindowSize),
		failures: failures,
		rng:      rng,
		logger:   logger,
	}
}

// #endregion

// #region record

// Record canonicalizes the action and appends its signature. A repeat of the
// current signature increments its count; anything else resets the map so the
// new signature is the only non-zero entry.
func (m *Memory) Record(a action.Action) {
	sig := a.Signature()

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.ring) >= m.cfg.WindowSize {
		m.ring = m.ring[1:]
	}
	m.ring = append(m.ring, signatureRecord{sig: sig, at: time.Now()})

	if sig == m.current {
		m.count++
	} else {
		m.current = sig
		m.count = 1
	}
	m.stuck = m.count >= m.cfg.StuckThreshold
}

// #endregion

// #region is-stuck

// IsStuck reports whether the most recent threshold-many signatures are
// identical.
func (m *Memory) IsStuck() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stuck
}

// #endregion

// #region status

// Status is the inspection view of the behavioral memory.
type Status struct {
	CurrentSignature string    `json:"current_signature"`
	ConsecutiveCount int       `json:"consecutive_count"`
	Stuck            bool      `json:"stuck"`
	LastOverride     time.Time `json:"last_override,omitempty"`
	WindowFill       int       `json:"window_fill"`
}

// Status returns a snapshot of the memory state.
func (m *Memory) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Status{
		CurrentSignature: m.current,
		ConsecutiveCount: m.count,
		Stuck:            m.stuck,
		LastOverride:     m.lastOverride,
		WindowFill:       len(m.ring),
	}
}

// #endregion
