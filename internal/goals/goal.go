// Package goals implements the priority-scheduled behavioral objectives that
// run alongside the decision cycle: a registry of goal state machines, an
// activation/continuation scheduler, and expression-driven dynamic priority.
package goals

// #region imports
import (
	"time"

	"github.com/JoelJaison394/Minecraft-Agent/internal/action"
	"github.com/JoelJaison394/Minecraft-Agent/internal/world"
)

// #endregion

// #region goal-interface

// Goal is one behavioral objective. Instances are registered once at startup
// and reused across activations; Start and Stop flip the activation state.
// Tick may desire at most one action per call.
type Goal interface {
	Name() string
	BasePriority() int

	// CanActivate reports whether the goal wants to run given the snapshot.
	CanActivate(snap world.Snapshot) bool
	// ShouldContinue reports whether an active goal should stay active.
	ShouldContinue(snap world.Snapshot) bool

	Start(now time.Time)
	Stop(now time.Time)
	Active() bool
	StartedAt() time.Time

	// Tick advances the goal. ok reports whether the returned action is
	// desired this tick; a non-nil error stops the goal.
	Tick(snap world.Snapshot) (a action.Action, ok bool, err error)
}

// Dispatcher starts goal-desired actions. Implementations serialize through
// the engine's single execution-state gate; Busy reports whether an action
// is already in flight.
type Dispatcher interface {
	Busy() bool
	Dispatch(source string, a action.Action)
}

// #endregion

// #region base-goal

// BaseGoal carries the state every goal shares: identity, base priority, and
// the activation timestamps. The start timestamp is set iff the goal is
// active.
type BaseGoal struct {
	name         string
	basePriority int
	active       bool
	startedAt    time.Time
	lastTick     time.Time
}

// NewBaseGoal names a goal and fixes its base priority.
func NewBaseGoal(name string, basePriority int) BaseGoal {
	return BaseGoal{name: name, basePriority: basePriority}
}

func (b *BaseGoal) Name() string         { return b.name }
func (b *BaseGoal) BasePriority() int    { return b.basePriority }
func (b *BaseGoal) Active() bool         { return b.active }
func (b *BaseGoal) StartedAt() time.Time { return b.startedAt }
func (b *BaseGoal) LastTick() time.Time  { return b.lastTick }

// Start activates the goal.
func (b *BaseGoal) Start(now time.Time) {
	b.active = true
	b.startedAt = now
}

// Stop deactivates the goal and clears the start timestamp.
func (b *BaseGoal) Stop(now time.Time) {
	b.active = false
	b.startedAt = time.Time{}
}

// Touch records a tick timestamp.
func (b *BaseGoal) Touch(now time.Time) { b.lastTick = now }

// #endregion
