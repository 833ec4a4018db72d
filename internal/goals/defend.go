package goals

// #region imports
import (
	"github.com/JoelJaison394/Minecraft-Agent/internal/action"
	"github.com/JoelJaison394/Minecraft-Agent/internal/world"
)

// #endregion

// #region defend-goal

// DefendGoal engages hostiles that close in: attack when in reach, close the
// gap otherwise.
type DefendGoal struct {
	BaseGoal
	engageRadius float64 // hostile inside this → activate
	attackRange  float64 // hostile inside this → swing
	breakRadius  float64 // hostile beyond this → disengage
}

// NewDefendGoal builds the defense goal with its default ranges.
func NewDefendGoal() *DefendGoal {
	return &DefendGoal{
		BaseGoal:     NewBaseGoal("defend", 2),
		engageRadius: 8,
		attackRange:  4,
		breakRadius:  12,
	}
}

func (g *DefendGoal) CanActivate(snap world.Snapshot) bool {
	h, ok := snap.NearestHostile()
	return ok && h.Distance <= g.engageRadius
}

func (g *DefendGoal) ShouldContinue(snap world.Snapshot) bool {
	h, ok := snap.NearestHostile()
	return ok && h.Distance <= g.breakRadius
}

func (g *DefendGoal) Tick(snap world.Snapshot) (action.Action, bool, error) {
	h, ok := snap.NearestHostile()
	if !ok {
		return action.Action{}, false, nil
	}
	if h.Distance <= g.attackRange {
		return action.Action{
			Kind:   action.KindAttack,
			Params: action.Params{Entity: "hostile"},
			Reason: "hostile in reach",
		}, true, nil
	}
	target := h.Position
	return action.Action{
		Kind:    action.KindNavigate,
		Params:  action.Params{Target: &target},
		Horizon: action.TravelHorizon(h.Distance),
		Reason:  "close distance to hostile",
	}, true, nil
}

// #endregion
