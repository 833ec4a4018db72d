package goals

// #region imports
import (
	"time"

	"github.com/JoelJaison394/Minecraft-Agent/internal/action"
	"github.com/JoelJaison394/Minecraft-Agent/internal/world"
)

// #endregion

// #region mine-goal

// MineGoal works an ore vein block by block. Goal-local metadata: the
// discovered vein, its block type, and the working index.
type MineGoal struct {
	BaseGoal
	searchRadius float64
	workReach    float64 // mine when this close, navigate otherwise
	maxVein      int

	vein     []world.BlockPos
	veinName string
	idx      int
}

// NewMineGoal builds the mining goal. maxVein bounds vein discovery.
func NewMineGoal(searchRadius float64, maxVein int) *MineGoal {
	return &MineGoal{
		BaseGoal:     NewBaseGoal("mine", 1),
		searchRadius: searchRadius,
		workReach:    4,
		maxVein:      maxVein,
	}
}

// Stop drops the vein metadata along with the activation state, so a later
// activation discovers a fresh vein instead of resuming a stale one.
func (g *MineGoal) Stop(now time.Time) {
	g.BaseGoal.Stop(now)
	g.vein = nil
	g.veinName = ""
	g.idx = 0
}

func (g *MineGoal) CanActivate(snap world.Snapshot) bool {
	_, ok := snap.NearestResource(g.searchRadius, world.IsOre)
	return ok
}

func (g *MineGoal) ShouldContinue(snap world.Snapshot) bool {
	if g.idx < len(g.vein) {
		return true // mid-vein
	}
	_, ok := snap.NearestResource(g.searchRadius, world.IsOre)
	return ok
}

func (g *MineGoal) Tick(snap world.Snapshot) (action.Action, bool, error) {
	lookup := snapshotLookup(snap)

	if g.idx >= len(g.vein) {
		ore, ok := snap.NearestResource(g.searchRadius, world.IsOre)
		if !ok {
			return action.Action{}, false, nil
		}
		g.vein = world.Vein(ore.Position, lookup, g.maxVein)
		g.veinName = ore.Name
		g.idx = 0
		if len(g.vein) == 0 {
			return action.Action{}, false, nil
		}
	}

	block := g.vein[g.idx]
	if lookup(block) != g.veinName {
		// Already broken (by us or otherwise); advance and wait for the
		// next tick rather than issuing a second effect now.
		g.idx++
		return action.Action{}, false, nil
	}

	if dist := snap.Position.DistanceTo(block.Center()); dist > g.workReach {
		target := block.Center()
		return action.Action{
			Kind:    action.KindNavigate,
			Params:  action.Params{Target: &target},
			Horizon: action.TravelHorizon(dist),
			Reason:  "approach vein block",
		}, true, nil
	}

	b := block
	return action.Action{
		Kind:   action.KindMine,
		Params: action.Params{Block: &b},
		Reason: "work vein",
	}, true, nil
}

// snapshotLookup adapts the snapshot's sensed resources into a block lookup
// for vein discovery. Blocks outside sensing range read as air.
func snapshotLookup(snap world.Snapshot) world.BlockLookup {
	byPos := make(map[world.BlockPos]string, len(snap.Resources))
	for _, r := range snap.Resources {
		byPos[r.Position] = r.Name
	}
	return func(p world.BlockPos) string { return byPos[p] }
}

// #endregion
