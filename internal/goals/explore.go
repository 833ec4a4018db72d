package goals

// #region imports
import (
	"math"
	"math/rand"

	"github.com/JoelJaison394/Minecraft-Agent/internal/action"
	"github.com/JoelJaison394/Minecraft-Agent/internal/world"
)

// #endregion

// #region explore-goal

// ExploreGoal wanders when nothing better claims the agent: every few ticks
// it picks a random bearing and relocates a short distance.
type ExploreGoal struct {
	BaseGoal
	wanderDistance float64
	everyTicks     int
	ticks          int
	rng            *rand.Rand
}

// NewExploreGoal builds the idle-wander goal.
func NewExploreGoal(wanderDistance float64, rng *rand.Rand) *ExploreGoal {
	return &ExploreGoal{
		BaseGoal:       NewBaseGoal("explore", 0),
		wanderDistance: wanderDistance,
		everyTicks:     8,
		rng:            rng,
	}
}

// CanActivate always passes; explore fills otherwise-idle capacity.
func (g *ExploreGoal) CanActivate(world.Snapshot) bool { return true }

// ShouldContinue always passes; the persistence timeout bounds each run.
func (g *ExploreGoal) ShouldContinue(world.Snapshot) bool { return true }

func (g *ExploreGoal) Tick(snap world.Snapshot) (action.Action, bool, error) {
	g.ticks++
	if g.ticks%g.everyTicks != 0 {
		return action.Action{}, false, nil
	}
	bearing := g.rng.Float64() * 2 * math.Pi
	target := world.Vec3{
		X: snap.Position.X + math.Cos(bearing)*g.wanderDistance,
		Y: snap.Position.Y,
		Z: snap.Position.Z + math.Sin(bearing)*g.wanderDistance,
	}
	return action.Action{
		Kind:    action.KindRelocate,
		Params:  action.Params{Target: &target},
		Horizon: action.TravelHorizon(g.wanderDistance),
		Reason:  "wander",
	}, true, nil
}

// #endregion
