package engine

// #region test-fakes
import (
	"context"
	"math/rand"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/JoelJaison394/Minecraft-Agent/internal/action"
	"github.com/JoelJaison394/Minecraft-Agent/internal/actuator"
	"github.com/JoelJaison394/Minecraft-Agent/internal/behavior"
	"github.com/JoelJaison394/Minecraft-Agent/internal/config"
	"github.com/JoelJaison394/Minecraft-Agent/internal/executor"
	"github.com/JoelJaison394/Minecraft-Agent/internal/history"
	"github.com/JoelJaison394/Minecraft-Agent/internal/policy"
	"github.com/JoelJaison394/Minecraft-Agent/internal/world"
)

// fakeActuator resolves every request immediately.
type fakeActuator struct{}

func (f *fakeActuator) SetControls(forward, sprint, jump bool) error     { return nil }
func (f *fakeActuator) ClearControls() error                             { return nil }
func (f *fakeActuator) NavigateTo(world.Vec3, float64) *actuator.Pending { return actuator.Resolved(nil) }
func (f *fakeActuator) CancelNavigate()                                  {}
func (f *fakeActuator) ExtractAt(world.BlockPos) *actuator.Pending       { return actuator.Resolved(nil) }
func (f *fakeActuator) CancelExtract()                                   {}
func (f *fakeActuator) PlaceAt(world.BlockPos, string) *actuator.Pending { return actuator.Resolved(nil) }
func (f *fakeActuator) AttackNearest(string) *actuator.Pending           { return actuator.Resolved(nil) }
func (f *fakeActuator) SelectSlot(int) *actuator.Pending                 { return actuator.Resolved(nil) }
func (f *fakeActuator) Consume() *actuator.Pending                       { return actuator.Resolved(nil) }
func (f *fakeActuator) Craft(string, int) *actuator.Pending              { return actuator.Resolved(nil) }

type sensorFunc func() world.Snapshot

func (f sensorFunc) Snapshot() world.Snapshot { return f() }

// stubSource returns a fixed proposal and counts consultations.
type stubSource struct {
	a     action.Action
	err   error
	calls int
}

func (s *stubSource) Propose(context.Context, policy.Context) (action.Action, error) {
	s.calls++
	return s.a, s.err
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Engine.SyncExecution = true
	cfg.Executor.HorizonMinMs = 50
	cfg.Executor.PollIntervalMs = 10
	cfg.Behavior.StuckThreshold = 3
	cfg.Behavior.WindowSize = 8
	return cfg
}

func pantrySnapshot() world.Snapshot {
	return world.Snapshot{
		Position:  world.Vec3{X: 0, Y: 64, Z: 0},
		Vitals:    world.Vitals{Health: 20, Food: 10},
		Inventory: []world.ItemStack{{Slot: 2, Name: "bread", Count: 3}},
	}
}

func newTestEngine(t *testing.T, src policy.Source) (*Engine, *history.Log) {
	t.Helper()
	cfg := testConfig()
	logger := zap.NewNop()
	sensor := sensorFunc(pantrySnapshot)
	hist := history.NewLog(cfg.History.Cap, nil, logger)
	exec := executor.New(cfg.Executor, &fakeActuator{}, sensor,
		executor.NewExecState(), hist, logger)
	mem := behavior.NewWithRand(cfg.Behavior, nil, rand.New(rand.NewSource(1)), logger)
	return New(cfg, sensor, exec, mem, src, hist, logger), hist
}

// #endregion

// #region cycle-tests

func TestCycleExecutesPolicyProposal(t *testing.T) {
	src := &stubSource{a: action.Action{Kind: action.KindEat, Reason: "hunger"}}
	eng, hist := newTestEngine(t, src)

	eng.RunCycle(context.Background())

	if src.calls != 1 {
		t.Fatalf("policy consulted %d times, want 1", src.calls)
	}
	recent := hist.Recent(1)
	if len(recent) != 1 {
		t.Fatal("no history entry recorded")
	}
	if recent[0].Result != history.ResultCompleted {
		t.Errorf("result = %s (%s), want completed", recent[0].Result, recent[0].Error)
	}
	if recent[0].CycleID == "" {
		t.Error("history entry missing cycle id")
	}

	st := eng.Status()
	if st.LastSource != "policy" || st.Cycles != 1 {
		t.Errorf("status = %+v", st)
	}
}

func TestCycleSkipsWhileActionInFlight(t *testing.T) {
	src := &stubSource{a: action.Action{Kind: action.KindEat}}
	eng, hist := newTestEngine(t, src)

	blocker := action.Action{Kind: action.KindMove}
	if !eng.state.TryAcquire(&blocker) {
		t.Fatal("could not occupy execution state")
	}
	defer eng.state.Release()

	eng.RunCycle(context.Background())

	if src.calls != 0 {
		t.Error("policy consulted during an occupied cycle")
	}
	if hist.Len() != 0 {
		t.Error("skipped cycle produced a history entry")
	}
	if st := eng.Status(); st.Skipped != 1 || st.Cycles != 0 {
		t.Errorf("status = %+v, want one skip and zero cycles", st)
	}
}

func TestInvalidProposalDiscardedBeforeExecution(t *testing.T) {
	// Navigate with no target: structurally invalid.
	src := &stubSource{a: action.Action{Kind: action.KindNavigate}}
	eng, hist := newTestEngine(t, src)

	eng.RunCycle(context.Background())

	if hist.Len() != 0 {
		t.Error("invalid proposal reached the executor")
	}
	if st := eng.Status(); st.Memory.WindowFill != 0 {
		t.Error("invalid proposal recorded in behavioral memory")
	}
}

func TestOverrideWinsCycleWithoutConsultingPolicy(t *testing.T) {
	src := &stubSource{a: action.Action{Kind: action.KindEat}}
	eng, hist := newTestEngine(t, src)

	// Drive the memory into the stuck state with identical signatures.
	repeat := action.Action{Kind: action.KindEat}
	for i := 0; i < 3; i++ {
		eng.memory.Record(repeat)
	}
	if !eng.memory.IsStuck() {
		t.Fatal("memory not stuck after repeated signatures")
	}

	eng.RunCycle(context.Background())

	if src.calls != 0 {
		t.Error("policy consulted in an override cycle")
	}
	st := eng.Status()
	if st.LastSource != "override" {
		t.Errorf("last source = %q, want override", st.LastSource)
	}
	recent := hist.Recent(1)
	if len(recent) != 1 || recent[0].Result != history.ResultCompleted {
		t.Fatalf("override execution missing or failed: %+v", recent)
	}
	// No ore in the snapshot, so the override relocates.
	if recent[0].Action.Kind != action.KindRelocate {
		t.Errorf("override kind = %s, want relocate", recent[0].Action.Kind)
	}
	if eng.memory.IsStuck() {
		t.Error("override left the memory stuck")
	}
}

func TestPolicyFailureEndsCycleQuietly(t *testing.T) {
	src := &stubSource{err: context.DeadlineExceeded}
	eng, hist := newTestEngine(t, src)

	eng.RunCycle(context.Background())

	if hist.Len() != 0 {
		t.Error("failed consultation produced a history entry")
	}
	if st := eng.Status(); st.Cycles != 0 {
		t.Errorf("cycles = %d, want 0", st.Cycles)
	}
}

// #endregion

// #region dispatch-tests

func TestDispatchRunsGoalActionThroughSharedGate(t *testing.T) {
	src := &stubSource{a: action.Action{Kind: action.KindEat}}
	eng, hist := newTestEngine(t, src)

	eng.Dispatch("goal:survive", action.Action{Kind: action.KindEat})

	deadline := time.Now().Add(2 * time.Second)
	for hist.Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	recent := hist.Recent(1)
	if len(recent) != 1 {
		t.Fatal("dispatched action never recorded")
	}
	if recent[0].CycleID != "goal:survive" {
		t.Errorf("cycle id = %q, want goal source", recent[0].CycleID)
	}
	if recent[0].Result != history.ResultCompleted {
		t.Errorf("result = %s (%s)", recent[0].Result, recent[0].Error)
	}
}

func TestDispatchBusyRefusalLeavesNoTrace(t *testing.T) {
	eng, hist := newTestEngine(t, &stubSource{})

	blocker := action.Action{Kind: action.KindMove}
	if !eng.state.TryAcquire(&blocker) {
		t.Fatal("could not occupy execution state")
	}

	eng.Dispatch("goal:explore", action.Action{Kind: action.KindEat})

	time.Sleep(100 * time.Millisecond)
	if hist.Len() != 0 {
		t.Error("refused dispatch produced a history entry")
	}
	if st := eng.Status(); st.Memory.WindowFill != 0 {
		t.Error("refused dispatch recorded in behavioral memory")
	}

	// The same dispatch goes through once the gate is free, and only then
	// does it count toward memory and history.
	eng.state.Release()
	eng.Dispatch("goal:explore", action.Action{Kind: action.KindEat})

	deadline := time.Now().Add(2 * time.Second)
	for eng.Status().Memory.WindowFill == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if hist.Len() != 1 {
		t.Fatalf("history len = %d, want 1", hist.Len())
	}
	if st := eng.Status(); st.Memory.WindowFill != 1 {
		t.Errorf("memory window fill = %d, want 1", st.Memory.WindowFill)
	}
}

func TestDispatchRejectsInvalidAction(t *testing.T) {
	eng, hist := newTestEngine(t, &stubSource{})

	eng.Dispatch("goal:mine", action.Action{Kind: action.KindMine}) // no block

	time.Sleep(50 * time.Millisecond)
	if hist.Len() != 0 {
		t.Error("invalid dispatch reached the executor")
	}
	if st := eng.Status(); st.Memory.WindowFill != 0 {
		t.Error("invalid dispatch recorded in behavioral memory")
	}
}

// #endregion

// #region lifecycle-tests

func TestStartStopIdempotent(t *testing.T) {
	eng, _ := newTestEngine(t, &stubSource{a: action.Action{Kind: action.KindEat}})

	eng.Start()
	eng.Start() // no-op
	if !eng.Running() {
		t.Fatal("engine not running after Start")
	}
	eng.Stop()
	eng.Stop() // no-op
	if eng.Running() {
		t.Error("engine still running after Stop")
	}
}

// #endregion
