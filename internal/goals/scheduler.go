package goals

// #region imports
import (
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/JoelJaison394/Minecraft-Agent/internal/action"
	"github.com/JoelJaison394/Minecraft-Agent/internal/config"
	"github.com/JoelJaison394/Minecraft-Agent/internal/world"
)

// #endregion

// #region scheduler-struct

// Scheduler owns the goal registry and the bounded active set. It runs on its
// own tick, independent of the decision cycle, and serializes actuation
// through the shared dispatcher gate.
type Scheduler struct {
	mu         sync.Mutex
	cfg        config.SchedulerConfig
	sensor     world.Sensor
	dispatcher Dispatcher
	rules      []Rule
	registry   []Goal // registration order; tie-break for equal priority
	active     []Goal
	lastTick   time.Time
	lastSnap   world.Snapshot
	logger     *zap.Logger
}

// NewScheduler wires a scheduler. dispatcher may be nil (goals then tick
// without actuating, used in tests).
func NewScheduler(cfg config.SchedulerConfig, sensor world.Sensor, dispatcher Dispatcher,
	rules []Rule, logger *zap.Logger) *Scheduler {

	return &Scheduler{
		cfg:        cfg,
		sensor:     sensor,
		dispatcher: dispatcher,
		rules:      rules,
		logger:     logger,
	}
}

// Register adds a goal to the registry. Idempotent by name: re-registering
// an existing name is a no-op.
func (s *Scheduler) Register(g Goal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.registry {
		if existing.Name() == g.Name() {
			return
		}
	}
	s.registry = append(s.registry, g)
}

// #endregion

// #region tick

// Tick runs one scheduling pass: continuation checks and the hard
// persistence timeout, then activation by descending dynamic priority, then
// per-goal ticks. A no-op when called before the tick interval has elapsed.
func (s *Scheduler) Tick(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.lastTick.IsZero() && now.Sub(s.lastTick) < s.cfg.TickInterval() {
		return
	}
	s.lastTick = now

	snap := s.sensor.Snapshot()
	s.lastSnap = snap

	stopped := s.continuationPass(now, snap)
	s.activationPass(now, snap, stopped)
	s.tickPass(now, snap)
}

// continuationPass stops goals that timed out or no longer want to run. The
// timeout is a hard external cutoff: it fires even when the goal's own
// continuation check still passes. Returns the names of goals stopped here:
// they sit out this pass's activation, otherwise an always-eligible goal
// would restart in the same tick and the cutoff would never be observable.
func (s *Scheduler) continuationPass(now time.Time, snap world.Snapshot) map[string]bool {
	stopped := make(map[string]bool)
	keep := s.active[:0]
	for _, g := range s.active {
		switch {
		case now.Sub(g.StartedAt()) > s.cfg.GoalTimeout():
			s.logger.Info("goal hit persistence timeout", zap.String("goal", g.Name()))
			g.Stop(now)
			stopped[g.Name()] = true
		case !s.safeShouldContinue(g, snap):
			s.logger.Info("goal continuation check failed", zap.String("goal", g.Name()))
			g.Stop(now)
			stopped[g.Name()] = true
		default:
			keep = append(keep, g)
		}
	}
	s.active = keep
	return stopped
}

// activationPass fills the active set up to the maximum with the
// highest-priority eligible goals. Already-active goals are never preempted;
// priority changes only affect future activation choices.
func (s *Scheduler) activationPass(now time.Time, snap world.Snapshot, stopped map[string]bool) {
	if len(s.active) >= s.cfg.MaxActiveGoals {
		return
	}

	var candidates []Goal
	for _, g := range s.registry {
		if !g.Active() && !stopped[g.Name()] && s.safeCanActivate(g, snap) {
			candidates = append(candidates, g)
		}
	}
	// Stable sort: equal dynamic priority falls back to registration order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return DynamicPriority(candidates[i], s.rules, snap) > DynamicPriority(candidates[j], s.rules, snap)
	})

	for _, g := range candidates {
		if len(s.active) >= s.cfg.MaxActiveGoals {
			break
		}
		g.Start(now)
		s.active = append(s.active, g)
		s.logger.Info("goal activated",
			zap.String("goal", g.Name()),
			zap.Int("priority", DynamicPriority(g, s.rules, snap)))
	}
}

// tickPass ticks every active goal. Goal-internal failures stop that goal
// and never abort the pass. At most one desired action is dispatched per
// pass, and only when nothing is already in flight.
func (s *Scheduler) tickPass(now time.Time, snap world.Snapshot) {
	dispatched := false
	keep := s.active[:0]
	for _, g := range s.active {
		if toucher, hasTouch := g.(interface{ Touch(time.Time) }); hasTouch {
			toucher.Touch(now)
		}
		a, ok, err := s.safeTick(g, snap)
		if err != nil {
			s.logger.Warn("goal tick failed, stopping goal",
				zap.String("goal", g.Name()), zap.Error(err))
			g.Stop(now)
			continue
		}
		keep = append(keep, g)

		if ok && !dispatched && s.dispatcher != nil && !s.dispatcher.Busy() {
			s.dispatcher.Dispatch("goal:"+g.Name(), a)
			dispatched = true
		}
	}
	s.active = keep
}

// #endregion

// #region safe-wrappers

// Goal callbacks are contained: a panic inside one reads as an error for
// that goal only.

func (s *Scheduler) safeCanActivate(g Goal, snap world.Snapshot) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("goal activation check panicked",
				zap.String("goal", g.Name()), zap.Any("panic", r))
			ok = false
		}
	}()
	return g.CanActivate(snap)
}

func (s *Scheduler) safeShouldContinue(g Goal, snap world.Snapshot) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("goal continuation check panicked",
				zap.String("goal", g.Name()), zap.Any("panic", r))
			ok = false
		}
	}()
	return g.ShouldContinue(snap)
}

func (s *Scheduler) safeTick(g Goal, snap world.Snapshot) (a action.Action, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			a, ok = action.Action{}, false
			err = fmt.Errorf("goal tick panicked: %v", r)
		}
	}()
	return g.Tick(snap)
}

// #endregion

// #region status

// GoalStatus is the inspection view of one registered goal.
type GoalStatus struct {
	Name         string    `json:"name"`
	BasePriority int       `json:"base_priority"`
	Priority     int       `json:"priority"` // dynamic, against the latest snapshot
	Active       bool      `json:"active"`
	StartedAt    time.Time `json:"started_at,omitempty"`
}

// Status reports every registered goal with its current dynamic priority.
func (s *Scheduler) Status() []GoalStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]GoalStatus, 0, len(s.registry))
	for _, g := range s.registry {
		out = append(out, GoalStatus{
			Name:         g.Name(),
			BasePriority: g.BasePriority(),
			Priority:     DynamicPriority(g, s.rules, s.lastSnap),
			Active:       g.Active(),
			StartedAt:    g.StartedAt(),
		})
	}
	return out
}

// ActiveNames returns the names of currently active goals.
func (s *Scheduler) ActiveNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.active))
	for _, g := range s.active {
		out = append(out, g.Name())
	}
	return out
}

// LatestSnapshot returns the snapshot from the most recent tick.
func (s *Scheduler) LatestSnapshot() world.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSnap
}

// #endregion
