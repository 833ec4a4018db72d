package goals

// #region imports
import (
	"math"

	"github.com/JoelJaison394/Minecraft-Agent/internal/action"
	"github.com/JoelJaison394/Minecraft-Agent/internal/world"
)

// #endregion

// #region survive-goal

// SurviveGoal keeps the agent alive: it eats when hunger drops and breaks
// away from hostiles when health is critical.
type SurviveGoal struct {
	BaseGoal
	eatBelow     float64 // food level that triggers eating
	fleeBelow    float64 // health level that triggers fleeing
	fleeDistance float64
}

// NewSurviveGoal builds the survival goal with its default thresholds.
func NewSurviveGoal() *SurviveGoal {
	return &SurviveGoal{
		BaseGoal:     NewBaseGoal("survive", 3),
		eatBelow:     14,
		fleeBelow:    8,
		fleeDistance: 20,
	}
}

func (g *SurviveGoal) CanActivate(snap world.Snapshot) bool {
	_, hasFood := snap.FirstEdible()
	hungry := snap.Vitals.Food < g.eatBelow && hasFood
	endangered := snap.Vitals.Health < g.fleeBelow && snap.HostileCount() > 0
	return hungry || endangered
}

func (g *SurviveGoal) ShouldContinue(snap world.Snapshot) bool {
	// Hysteresis: keep going a little past the activation thresholds so the
	// goal doesn't flap at the boundary.
	_, hasFood := snap.FirstEdible()
	if snap.Vitals.Food < g.eatBelow+4 && hasFood {
		return true
	}
	return snap.Vitals.Health < g.fleeBelow+4 && snap.HostileCount() > 0
}

func (g *SurviveGoal) Tick(snap world.Snapshot) (action.Action, bool, error) {
	if snap.Vitals.Health < g.fleeBelow {
		if hostile, ok := snap.NearestHostile(); ok {
			target := fleeTarget(snap.Position, hostile.Position, g.fleeDistance)
			return action.Action{
				Kind:    action.KindRelocate,
				Params:  action.Params{Target: &target},
				Horizon: action.TravelHorizon(g.fleeDistance),
				Reason:  "flee: health critical",
			}, true, nil
		}
	}
	if _, ok := snap.FirstEdible(); ok && snap.Vitals.Food < g.eatBelow {
		return action.Action{Kind: action.KindEat, Reason: "hunger low"}, true, nil
	}
	return action.Action{}, false, nil
}

// fleeTarget projects a point distance blocks away from threat, through pos.
func fleeTarget(pos, threat world.Vec3, distance float64) world.Vec3 {
	dx, dz := pos.X-threat.X, pos.Z-threat.Z
	norm := math.Hypot(dx, dz)
	if norm < 1e-6 {
		dx, dz, norm = 1, 0, 1
	}
	return world.Vec3{
		X: pos.X + dx/norm*distance,
		Y: pos.Y,
		Z: pos.Z + dz/norm*distance,
	}
}

// #endregion
