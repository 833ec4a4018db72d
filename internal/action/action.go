// Package action defines the validated intents the engine executes: a fixed
// kind enumeration, per-kind parameter requirements, horizon clamping, and
// the canonical signatures the behavioral layer uses to detect repetition.
package action

// #region imports
import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/JoelJaison394/Minecraft-Agent/internal/world"
)

// #endregion

// #region kinds

// Kind enumerates the primitive actions the agent can take.
type Kind string

const (
	KindMove       Kind = "move"        // timed control pulse
	KindNavigate   Kind = "navigate"    // pathfind to a target position
	KindRelocate   Kind = "relocate"    // leave the area for a distant target
	KindMine       Kind = "mine"        // break a block
	KindPlace      Kind = "place"       // place an item against a block
	KindEat        Kind = "eat"         // consume an edible item
	KindAttack     Kind = "attack"      // swing at the nearest entity of a kind
	KindCraft      Kind = "craft"       // craft items
	KindSelectSlot Kind = "select_slot" // change held slot
)

// Kinds lists every valid kind; validation and dispatch iterate this.
var Kinds = []Kind{
	KindMove, KindNavigate, KindRelocate, KindMine, KindPlace,
	KindEat, KindAttack, KindCraft, KindSelectSlot,
}

func validKind(k Kind) bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// #endregion

// #region action

// Params is the per-kind parameter bag. Which fields are required depends on
// the kind; Validate enforces the mapping.
type Params struct {
	Sprint bool            `json:"sprint,omitempty"` // move
	Jump   bool            `json:"jump,omitempty"`   // move
	Target *world.Vec3     `json:"target,omitempty"` // navigate
	Block  *world.BlockPos `json:"block,omitempty"`  // mine, place
	Item   string          `json:"item,omitempty"`   // place, craft
	Count  int             `json:"count,omitempty"`  // craft
	Entity string          `json:"entity,omitempty"` // attack ("hostile", "passive")
	Slot   *int            `json:"slot,omitempty"`   // select_slot
}

// Action is an immutable intent: consumed exactly once by the executor.
type Action struct {
	Kind    Kind          `json:"kind"`
	Params  Params        `json:"params"`
	Horizon time.Duration `json:"-"`
	// Reason records why the action was chosen (policy rationale or override
	// branch). Informational only.
	Reason string `json:"reason,omitempty"`
}

// wireAction is the untrusted JSON shape produced by the policy source and
// the inspection surface.
type wireAction struct {
	Kind      string `json:"kind"`
	Params    Params `json:"params"`
	HorizonMs int    `json:"horizon_ms"`
	Reason    string `json:"reason"`
}

// #endregion

// #region validate

// Validate checks the per-kind parameter requirements. Actions from the
// override layer are built valid; everything else goes through here.
func (a Action) Validate() error {
	if !validKind(a.Kind) {
		return fmt.Errorf("action: unknown kind %q", a.Kind)
	}
	switch a.Kind {
	case KindNavigate, KindRelocate:
		if a.Params.Target == nil {
			return fmt.Errorf("action: %s requires params.target", a.Kind)
		}
	case KindMine:
		if a.Params.Block == nil {
			return fmt.Errorf("action: mine requires params.block")
		}
	case KindPlace:
		if a.Params.Block == nil || a.Params.Item == "" {
			return fmt.Errorf("action: place requires params.block and params.item")
		}
	case KindAttack:
		if a.Params.Entity != "" && a.Params.Entity != "hostile" && a.Params.Entity != "passive" {
			return fmt.Errorf("action: attack entity must be hostile or passive, got %q", a.Params.Entity)
		}
	case KindCraft:
		if a.Params.Item == "" {
			return fmt.Errorf("action: craft requires params.item")
		}
		if a.Params.Count < 1 {
			return fmt.Errorf("action: craft count must be positive, got %d", a.Params.Count)
		}
	case KindSelectSlot:
		if a.Params.Slot == nil {
			return fmt.Errorf("action: select_slot requires params.slot")
		}
		if *a.Params.Slot < 0 || *a.Params.Slot > 44 {
			return fmt.Errorf("action: slot %d out of range [0,44]", *a.Params.Slot)
		}
	}
	return nil
}

// travelSpeed approximates walking pace, used to size navigation horizons.
const travelSpeed = 4.3 // blocks per second

// TravelHorizon sizes a horizon for covering the given distance on foot,
// with headroom for pathing detours. Callers still get the configured
// [min, max] clamp at execution time.
func TravelHorizon(distance float64) time.Duration {
	const headroom = 3.0
	return time.Duration(distance / travelSpeed * headroom * float64(time.Second))
}

// ClampHorizon returns a copy with the horizon forced into [min, max].
// A zero horizon clamps to min.
func (a Action) ClampHorizon(min, max time.Duration) Action {
	if a.Horizon < min {
		a.Horizon = min
	}
	if a.Horizon > max {
		a.Horizon = max
	}
	return a
}

// Decode parses and validates an untrusted JSON action. Both the policy
// parser and the inspection surface funnel through this.
func Decode(data []byte) (Action, error) {
	var w wireAction
	if err := json.Unmarshal(data, &w); err != nil {
		return Action{}, fmt.Errorf("action: decode: %w", err)
	}
	a := Action{
		Kind:    Kind(w.Kind),
		Params:  w.Params,
		Horizon: time.Duration(w.HorizonMs) * time.Millisecond,
		Reason:  w.Reason,
	}
	if err := a.Validate(); err != nil {
		return Action{}, err
	}
	return a, nil
}

// #endregion

// #region signature

// signatureBucket coarsens continuous coordinates so near-identical targets
// repeat under the same signature.
const signatureBucket = 8

// Signature returns the canonical repetition key for the action: the kind
// plus normalized parameters. Positions are bucketed so navigating to two
// points a few blocks apart still reads as the same behavior.
func (a Action) Signature() string {
	switch a.Kind {
	case KindNavigate, KindRelocate:
		if a.Params.Target == nil {
			return string(a.Kind)
		}
		t := *a.Params.Target
		return fmt.Sprintf("%s@%d,%d,%d", a.Kind,
			bucket(t.X), bucket(t.Y), bucket(t.Z))
	case KindMine, KindPlace:
		if a.Params.Block == nil {
			return string(a.Kind)
		}
		b := *a.Params.Block
		return fmt.Sprintf("%s@%d,%d,%d", a.Kind,
			b.X/signatureBucket, b.Y/signatureBucket, b.Z/signatureBucket)
	case KindAttack:
		entity := a.Params.Entity
		if entity == "" {
			entity = "hostile"
		}
		return fmt.Sprintf("%s:%s", a.Kind, entity)
	case KindCraft:
		return fmt.Sprintf("%s:%s", a.Kind, a.Params.Item)
	default:
		return string(a.Kind)
	}
}

func bucket(v float64) int {
	return int(math.Floor(v / signatureBucket))
}

// #endregion
