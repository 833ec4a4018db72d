// Package engine runs the decision cycle: snapshot, stuck check, override or
// policy consultation, then serialized execution. It also drives the goal
// scheduler's tick and serves as its dispatch gate.
package engine

// #region imports
import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JoelJaison394/Minecraft-Agent/internal/action"
	"github.com/JoelJaison394/Minecraft-Agent/internal/behavior"
	"github.com/JoelJaison394/Minecraft-Agent/internal/config"
	"github.com/JoelJaison394/Minecraft-Agent/internal/executor"
	"github.com/JoelJaison394/Minecraft-Agent/internal/goals"
	"github.com/JoelJaison394/Minecraft-Agent/internal/history"
	"github.com/JoelJaison394/Minecraft-Agent/internal/policy"
	"github.com/JoelJaison394/Minecraft-Agent/internal/world"
)

// #endregion

// #region engine

// recentContextActions bounds how many history signatures are sent to the
// policy source per consultation.
const recentContextActions = 6

// Engine owns the decision cycle loop. One action source wins per cycle:
// the behavioral override when the memory reports stuck, the external policy
// otherwise. The policy is not consulted in a cycle the override claims.
type Engine struct {
	cfg    config.Config
	sensor world.Sensor
	exec   *executor.Executor
	state  *executor.ExecState
	memory *behavior.Memory
	policy policy.Source
	sched  *goals.Scheduler
	hist   *history.Log
	logger *zap.Logger

	mu          sync.Mutex
	running     bool
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	cycles      int
	skipped     int
	lastCycleID string
	lastSource  string
	lastOutcome executor.Outcome
}

// New wires an engine. The scheduler is attached separately because it needs
// the engine as its dispatcher.
func New(cfg config.Config, sensor world.Sensor, exec *executor.Executor,
	memory *behavior.Memory, source policy.Source, hist *history.Log,
	logger *zap.Logger) *Engine {

	return &Engine{
		cfg:    cfg,
		sensor: sensor,
		exec:   exec,
		state:  exec.State(),
		memory: memory,
		policy: source,
		hist:   hist,
		logger: logger,
	}
}

// AttachScheduler hands the engine the goal scheduler it should tick.
func (e *Engine) AttachScheduler(s *goals.Scheduler) { e.sched = s }

// State exposes the shared single-owner execution gate.
func (e *Engine) State() *executor.ExecState { return e.state }

// #endregion

// #region cycle

// RunCycle runs one decision cycle to its terminal outcome. With synchronous
// execution enabled, a cycle that finds an action still in flight skips
// entirely rather than queueing behind it.
func (e *Engine) RunCycle(ctx context.Context) {
	cycleID := uuid.NewString()

	if e.cfg.Engine.SyncExecution && e.state.Busy() {
		e.mu.Lock()
		e.skipped++
		e.mu.Unlock()
		e.logger.Debug("cycle skipped, action in flight", zap.String("cycle", cycleID))
		return
	}

	snap := e.sensor.Snapshot()

	a, source, ok := e.chooseAction(ctx, snap)
	if !ok {
		return
	}

	if err := a.Validate(); err != nil {
		e.logger.Warn("discarding invalid action",
			zap.String("cycle", cycleID),
			zap.String("source", source),
			zap.Error(err))
		return
	}

	e.memory.Record(a)
	out := e.exec.Execute(ctx, cycleID, a)

	e.mu.Lock()
	e.cycles++
	e.lastCycleID = cycleID
	e.lastSource = source
	e.lastOutcome = out
	e.mu.Unlock()

	e.logger.Info("cycle finished",
		zap.String("cycle", cycleID),
		zap.String("source", source),
		zap.String("kind", string(a.Kind)),
		zap.String("result", string(out.Result)))
}

// chooseAction picks this cycle's action. The override, when the memory is
// stuck and produces one, wins outright for the cycle.
func (e *Engine) chooseAction(ctx context.Context, snap world.Snapshot) (action.Action, string, bool) {
	if e.memory.IsStuck() {
		if ov, ok := e.memory.SuggestOverride(snap); ok {
			e.logger.Info("behavioral override engaged",
				zap.String("kind", string(ov.Kind)),
				zap.String("reason", ov.Reason))
			return ov, "override", true
		}
	}

	a, err := e.policy.Propose(ctx, e.policyContext(snap))
	if err != nil {
		e.logger.Warn("policy consultation failed", zap.Error(err))
		return action.Action{}, "", false
	}
	return a, "policy", true
}

// policyContext builds the situation report for the advisor.
func (e *Engine) policyContext(snap world.Snapshot) policy.Context {
	pc := policy.Context{Snapshot: snap}
	if e.sched != nil {
		pc.ActiveGoals = e.sched.ActiveNames()
	}
	for _, entry := range e.hist.Recent(recentContextActions) {
		pc.LastActions = append(pc.LastActions, entry.Action.Signature())
	}
	if latest := e.hist.Recent(1); len(latest) == 1 {
		pc.LastResult = string(latest[0].Result)
		if latest[0].Error != "" {
			pc.LastResult += ": " + latest[0].Error
		}
	}
	return pc
}

// #endregion

// #region dispatcher

// Busy reports whether an action is in flight. Part of the goal dispatcher
// contract.
func (e *Engine) Busy() bool { return e.state.Busy() }

// Dispatch runs a goal-desired action through the shared executor without
// blocking the scheduler tick. The source string doubles as the history
// cycle identifier for goal-originated actions.
func (e *Engine) Dispatch(source string, a action.Action) {
	if err := a.Validate(); err != nil {
		e.logger.Warn("discarding invalid action",
			zap.String("source", source), zap.Error(err))
		return
	}
	go func() {
		out := e.exec.Execute(context.Background(), source, a)
		if out.Reason == executor.ErrBusy.Error() {
			// Lost the gate race; nothing ran, so nothing is remembered.
			return
		}
		e.memory.Record(a)
	}()
}

// ExecuteManual runs an externally submitted action synchronously through
// the shared gate, with the same validation as any other source. Returns
// executor.ErrBusy instead of an outcome when an action is in flight.
func (e *Engine) ExecuteManual(ctx context.Context, a action.Action) (executor.Outcome, error) {
	if err := a.Validate(); err != nil {
		return executor.Outcome{}, err
	}
	if e.state.Busy() {
		return executor.Outcome{}, executor.ErrBusy
	}
	e.memory.Record(a)
	out := e.exec.Execute(ctx, "manual", a)
	if out.Reason == executor.ErrBusy.Error() {
		return executor.Outcome{}, executor.ErrBusy
	}
	return out, nil
}

// #endregion

// #region lifecycle

// Start launches the cycle loop and, when a scheduler is attached, the goal
// tick loop. A second Start while running is a no-op.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.running = true

	e.wg.Add(1)
	go e.cycleLoop(ctx)
	if e.sched != nil {
		e.wg.Add(1)
		go e.schedulerLoop(ctx)
	}
	e.logger.Info("engine started",
		zap.Duration("cycle_interval", e.cfg.Engine.CycleInterval()),
		zap.Bool("sync_execution", e.cfg.Engine.SyncExecution))
}

// Stop halts both loops and waits for them to exit. An in-flight action runs
// to its horizon; it is not interrupted.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	cancel := e.cancel
	e.mu.Unlock()

	cancel()
	e.wg.Wait()
	e.logger.Info("engine stopped")
}

// Running reports whether the cycle loop is active.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

func (e *Engine) cycleLoop(ctx context.Context) {
	defer e.wg.Done()
	ticker := time.NewTicker(e.cfg.Engine.CycleInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.RunCycle(ctx)
		}
	}
}

func (e *Engine) schedulerLoop(ctx context.Context) {
	defer e.wg.Done()
	ticker := time.NewTicker(e.cfg.Scheduler.TickInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			e.sched.Tick(now)
		}
	}
}

// #endregion

// #region status

// Status is the inspection view of the engine.
type Status struct {
	Running     bool               `json:"running"`
	Cycles      int                `json:"cycles"`
	Skipped     int                `json:"skipped_cycles"`
	LastCycleID string             `json:"last_cycle_id,omitempty"`
	LastSource  string             `json:"last_source,omitempty"`
	LastResult  string             `json:"last_result,omitempty"`
	LastReason  string             `json:"last_reason,omitempty"`
	InFlight    *InFlightAction    `json:"in_flight,omitempty"`
	Memory      behavior.Status    `json:"memory"`
	Goals       []goals.GoalStatus `json:"goals,omitempty"`
	HistoryLen  int                `json:"history_len"`
}

// InFlightAction describes the currently executing action, if any.
type InFlightAction struct {
	Kind    string    `json:"kind"`
	Started time.Time `json:"started"`
}

// Status assembles the current engine state for inspection.
func (e *Engine) Status() Status {
	e.mu.Lock()
	st := Status{
		Running:     e.running,
		Cycles:      e.cycles,
		Skipped:     e.skipped,
		LastCycleID: e.lastCycleID,
		LastSource:  e.lastSource,
		LastResult:  string(e.lastOutcome.Result),
		LastReason:  e.lastOutcome.Reason,
	}
	e.mu.Unlock()

	if a, started, busy := e.state.InFlight(); busy {
		st.InFlight = &InFlightAction{Kind: string(a.Kind), Started: started}
	}
	st.Memory = e.memory.Status()
	if e.sched != nil {
		st.Goals = e.sched.Status()
	}
	st.HistoryLen = e.hist.Len()
	return st
}

// #endregion
