// Package executor runs exactly one action at a time against the actuator,
// enforcing the horizon timeout and recording every terminal outcome.
package executor

// #region imports
import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/JoelJaison394/Minecraft-Agent/internal/action"
	"github.com/JoelJaison394/Minecraft-Agent/internal/actuator"
	"github.com/JoelJaison394/Minecraft-Agent/internal/config"
	"github.com/JoelJaison394/Minecraft-Agent/internal/history"
	"github.com/JoelJaison394/Minecraft-Agent/internal/world"
)

// #endregion

// #region exec-state

// ErrBusy is returned when an action is already in flight.
var ErrBusy = errors.New("executor: action already in flight")

// ExecState is the process-wide single-owner gate: at most one action may be
// in flight, whether it came from the decision cycle, a goal, or the
// inspection surface.
type ExecState struct {
	mu      sync.Mutex
	current *action.Action
	started time.Time
}

// NewExecState returns an empty execution state.
func NewExecState() *ExecState { return &ExecState{} }

// TryAcquire marks the state occupied. Returns false if already occupied.
func (s *ExecState) TryAcquire(a *action.Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		return false
	}
	s.current = a
	s.started = time.Now()
	return true
}

// Release clears the state unconditionally.
func (s *ExecState) Release() {
	s.mu.Lock()
	s.current = nil
	s.started = time.Time{}
	s.mu.Unlock()
}

// InFlight returns the current action and its start time, if any.
func (s *ExecState) InFlight() (action.Action, time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return action.Action{}, time.Time{}, false
	}
	return *s.current, s.started, true
}

// Busy reports whether an action is in flight.
func (s *ExecState) Busy() bool {
	_, _, busy := s.InFlight()
	return busy
}

// #endregion

// #region outcome

// Outcome is the terminal result of one Execute call.
type Outcome struct {
	Result history.ResultKind
	Reason string
}

// errNoOp is the soft-failure sentinel: the action had nothing to do
// (no edible item, no attack target). Reported as a no-op, not an error.
var errNoOp = errors.New("nothing to do")

// #endregion

// #region executor

// handlerFunc executes one action kind. A nil return means completed;
// errNoOp means soft no-op; context.DeadlineExceeded means the horizon
// expired; anything else is a failure reason.
type handlerFunc func(ctx context.Context, a action.Action) error

// Executor dispatches actions to per-kind handlers behind the ExecState gate.
type Executor struct {
	cfg      config.ExecutorConfig
	act      actuator.Actuator
	sensor   world.Sensor
	state    *ExecState
	hist     *history.Log
	logger   *zap.Logger
	handlers map[action.Kind]handlerFunc
}

// New wires an executor. state is shared with the goal scheduler so both
// serialize through the same single-owner gate.
func New(cfg config.ExecutorConfig, act actuator.Actuator, sensor world.Sensor,
	state *ExecState, hist *history.Log, logger *zap.Logger) *Executor {

	e := &Executor{
		cfg:    cfg,
		act:    act,
		sensor: sensor,
		state:  state,
		hist:   hist,
		logger: logger,
	}
	e.handlers = map[action.Kind]handlerFunc{
		action.KindMove:       e.handleMove,
		action.KindNavigate:   e.handleNavigate,
		action.KindRelocate:   e.handleNavigate, // same mechanics, distinct signature
		action.KindMine:       e.handleMine,
		action.KindPlace:      e.handlePlace,
		action.KindEat:        e.handleEat,
		action.KindAttack:     e.handleAttack,
		action.KindCraft:      e.handleCraft,
		action.KindSelectSlot: e.handleSelectSlot,
	}
	return e
}

// State exposes the shared execution state gate.
func (e *Executor) State() *ExecState { return e.state }

// #endregion

// #region execute

// Execute runs the action to a terminal outcome. The horizon is clamped
// defensively; the execution state is cleared and a history entry appended on
// every path once the action has started. A second in-flight action is
// refused before any state is touched and leaves no history entry.
func (e *Executor) Execute(ctx context.Context, cycleID string, a action.Action) Outcome {
	a = a.ClampHorizon(e.cfg.HorizonMin(), e.cfg.HorizonMax())

	handler, ok := e.handlers[a.Kind]
	if !ok {
		return Outcome{Result: history.ResultFailed, Reason: "no handler for kind " + string(a.Kind)}
	}

	if !e.state.TryAcquire(&a) {
		e.logger.Warn("execute refused, action in flight", zap.String("kind", string(a.Kind)))
		return Outcome{Result: history.ResultFailed, Reason: ErrBusy.Error()}
	}

	start := time.Now()
	hctx, cancel := context.WithTimeout(ctx, a.Horizon)

	err := handler(hctx, a)
	cancel()
	e.state.Release()

	out := outcomeFromErr(err)
	e.hist.Append(history.Entry{
		CycleID:  cycleID,
		Action:   a,
		Result:   out.Result,
		Error:    out.Reason,
		Duration: time.Since(start),
		At:       start,
	})

	e.logger.Info("action finished",
		zap.String("kind", string(a.Kind)),
		zap.String("result", string(out.Result)),
		zap.String("reason", out.Reason),
		zap.Duration("took", time.Since(start)))
	return out
}

func outcomeFromErr(err error) Outcome {
	switch {
	case err == nil:
		return Outcome{Result: history.ResultCompleted}
	case errors.Is(err, errNoOp):
		return Outcome{Result: history.ResultNoOp, Reason: err.Error()}
	case errors.Is(err, context.DeadlineExceeded):
		return Outcome{Result: history.ResultTimedOut, Reason: "horizon expired"}
	default:
		return Outcome{Result: history.ResultFailed, Reason: err.Error()}
	}
}

// #endregion
