package goals

// #region imports
import (
	"math/rand"
	"testing"
	"time"

	"github.com/JoelJaison394/Minecraft-Agent/internal/action"
	"github.com/JoelJaison394/Minecraft-Agent/internal/world"
)

// #endregion

// #region snapshot-builders

func hungrySnapshot() world.Snapshot {
	return world.Snapshot{
		Vitals:    world.Vitals{Health: 20, Food: 6},
		Inventory: []world.ItemStack{{Slot: 3, Name: "bread", Count: 4}},
	}
}

func threatenedSnapshot(distance float64) world.Snapshot {
	return world.Snapshot{
		Position: world.Vec3{X: 10, Y: 64, Z: 10},
		Vitals:   world.Vitals{Health: 5, Food: 20},
		Entities: []world.Entity{
			{ID: 1, Name: "zombie", Kind: "hostile",
				Position: world.Vec3{X: 10 + distance, Y: 64, Z: 10}, Distance: distance},
		},
	}
}

func oreSnapshot(pos world.BlockPos, distance float64) world.Snapshot {
	return world.Snapshot{
		Position: world.Vec3{X: 0, Y: 64, Z: 0},
		Vitals:   world.Vitals{Health: 20, Food: 20},
		Resources: []world.ResourceBlock{
			{Name: "iron_ore", Position: pos, Distance: distance},
		},
	}
}

// #endregion

// #region survive-tests

func TestSurviveEatsWhenHungry(t *testing.T) {
	g := NewSurviveGoal()
	snap := hungrySnapshot()
	if !g.CanActivate(snap) {
		t.Fatal("hungry with food in inventory must activate")
	}
	a, ok, err := g.Tick(snap)
	if err != nil || !ok {
		t.Fatalf("Tick: ok=%v err=%v", ok, err)
	}
	if a.Kind != action.KindEat {
		t.Errorf("kind = %s, want eat", a.Kind)
	}
}

func TestSurviveWontActivateWithoutFood(t *testing.T) {
	g := NewSurviveGoal()
	snap := hungrySnapshot()
	snap.Inventory = nil
	if g.CanActivate(snap) {
		t.Error("no edible item, nothing to do")
	}
}

func TestSurviveFleesAwayFromHostileWhenCritical(t *testing.T) {
	g := NewSurviveGoal()
	snap := threatenedSnapshot(3)
	a, ok, err := g.Tick(snap)
	if err != nil || !ok {
		t.Fatalf("Tick: ok=%v err=%v", ok, err)
	}
	if a.Kind != action.KindRelocate {
		t.Fatalf("kind = %s, want relocate", a.Kind)
	}
	// Hostile sits at +X; the flee target must be on the -X side of the agent.
	if a.Params.Target == nil || a.Params.Target.X >= snap.Position.X {
		t.Errorf("flee target %+v not away from hostile", a.Params.Target)
	}
	if a.Horizon <= 0 {
		t.Errorf("flee carries no horizon: %v", a.Horizon)
	}
}

func TestSurviveHysteresisKeepsGoalPastThreshold(t *testing.T) {
	g := NewSurviveGoal()
	snap := hungrySnapshot()
	snap.Vitals.Food = 16 // above activation (14), inside hysteresis band (18)
	if g.CanActivate(snap) {
		t.Error("food above activation threshold must not activate")
	}
	if !g.ShouldContinue(snap) {
		t.Error("hysteresis band must keep an already-active goal running")
	}
}

// #endregion

// #region defend-tests

func TestDefendAttacksInReachNavigatesOtherwise(t *testing.T) {
	g := NewDefendGoal()

	near := threatenedSnapshot(2)
	a, ok, _ := g.Tick(near)
	if !ok || a.Kind != action.KindAttack {
		t.Errorf("close hostile: kind=%s ok=%v, want attack", a.Kind, ok)
	}

	far := threatenedSnapshot(7)
	a, ok, _ = g.Tick(far)
	if !ok || a.Kind != action.KindNavigate {
		t.Errorf("distant hostile: kind=%s ok=%v, want navigate", a.Kind, ok)
	}
	if a.Horizon <= 0 {
		t.Errorf("navigate carries no horizon: %v", a.Horizon)
	}
	if !g.CanActivate(far) {
		t.Error("hostile inside engage radius must activate")
	}
	if g.ShouldContinue(threatenedSnapshot(15)) {
		t.Error("hostile beyond break radius must disengage")
	}
}

// #endregion

// #region mine-tests

func TestMineNavigatesThenMines(t *testing.T) {
	g := NewMineGoal(32, 64)

	farOre := oreSnapshot(world.BlockPos{X: 12, Y: 64, Z: 0}, 12)
	a, ok, err := g.Tick(farOre)
	if err != nil || !ok {
		t.Fatalf("Tick: ok=%v err=%v", ok, err)
	}
	if a.Kind != action.KindNavigate {
		t.Errorf("out of reach: kind = %s, want navigate", a.Kind)
	}
	if a.Horizon <= 0 {
		t.Errorf("approach carries no horizon: %v", a.Horizon)
	}

	nearOre := oreSnapshot(world.BlockPos{X: 2, Y: 64, Z: 0}, 2)
	g2 := NewMineGoal(32, 64)
	a, ok, err = g2.Tick(nearOre)
	if err != nil || !ok {
		t.Fatalf("Tick: ok=%v err=%v", ok, err)
	}
	if a.Kind != action.KindMine {
		t.Fatalf("in reach: kind = %s, want mine", a.Kind)
	}
	if a.Params.Block == nil || *a.Params.Block != (world.BlockPos{X: 2, Y: 64, Z: 0}) {
		t.Errorf("mine block = %+v", a.Params.Block)
	}
}

func TestMineAdvancesPastBrokenBlock(t *testing.T) {
	g := NewMineGoal(32, 64)
	snap := oreSnapshot(world.BlockPos{X: 2, Y: 64, Z: 0}, 2)
	if _, ok, _ := g.Tick(snap); !ok {
		t.Fatal("first tick should desire a mine action")
	}

	// Block gone from the next snapshot: the goal advances without acting.
	empty := snap
	empty.Resources = nil
	if _, ok, _ := g.Tick(empty); ok {
		t.Error("broken block must not produce an action this tick")
	}
	if g.ShouldContinue(empty) {
		t.Error("vein exhausted and no ore visible, goal should end")
	}
}

func TestMineStopDropsVeinMetadata(t *testing.T) {
	g := NewMineGoal(32, 64)
	first := oreSnapshot(world.BlockPos{X: 2, Y: 64, Z: 0}, 2)
	if a, ok, _ := g.Tick(first); !ok || a.Kind != action.KindMine {
		t.Fatal("first tick should mine the nearby ore")
	}

	g.Stop(time.Now())

	// The old vein is gone; a fresh activation must discover the new ore
	// instead of resuming a stale working index.
	second := oreSnapshot(world.BlockPos{X: -3, Y: 64, Z: 1}, 3.2)
	a, ok, err := g.Tick(second)
	if err != nil || !ok {
		t.Fatalf("Tick after Stop: ok=%v err=%v", ok, err)
	}
	if a.Params.Block == nil || *a.Params.Block != (world.BlockPos{X: -3, Y: 64, Z: 1}) {
		t.Errorf("block = %+v, want the newly sensed ore", a.Params.Block)
	}
}

// #endregion

// #region explore-tests

func TestExploreWandersOnSchedule(t *testing.T) {
	g := NewExploreGoal(16, rand.New(rand.NewSource(7)))
	snap := world.Snapshot{Position: world.Vec3{X: 0, Y: 64, Z: 0}}

	for i := 0; i < 7; i++ {
		if _, ok, _ := g.Tick(snap); ok {
			t.Fatalf("tick %d desired an action before the wander interval", i)
		}
	}
	a, ok, _ := g.Tick(snap)
	if !ok || a.Kind != action.KindRelocate {
		t.Fatalf("eighth tick: kind=%s ok=%v, want relocate", a.Kind, ok)
	}
	d := snap.Position.DistanceTo(*a.Params.Target)
	if d < 15.9 || d > 16.1 {
		t.Errorf("wander distance = %.2f, want 16", d)
	}
	if a.Horizon <= 0 {
		t.Errorf("wander carries no horizon: %v", a.Horizon)
	}
}

// #endregion
