// Package sim provides an in-process world for running the agent without a
// live game connection. It implements both the sensor and actuator surfaces
// against a small kinematic model: the agent walks at a fixed speed, blocks
// break after a short delay, and eating restores hunger.
package sim

// #region imports
import (
	"errors"
	"math"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/JoelJaison394/Minecraft-Agent/internal/actuator"
	"github.com/JoelJaison394/Minecraft-Agent/internal/world"
)

// #endregion

// #region world

const (
	walkSpeed    = 4.3 // blocks per second
	stepInterval = 50 * time.Millisecond
	breakDelay   = 400 * time.Millisecond
	senseRadius  = 48.0
	foodPerMeal  = 6.0
)

var errCancelled = errors.New("cancelled")

// World is the simulated environment. Safe for concurrent use; the sensor
// and actuator sides share one lock.
type World struct {
	mu        sync.Mutex
	pos       world.Vec3
	vitals    world.Vitals
	inventory []world.ItemStack
	entities  []world.Entity
	blocks    map[world.BlockPos]string
	biome     string
	night     bool
	heldSlot  int
	rng       *rand.Rand
	logger    *zap.Logger

	navStop chan struct{} // non-nil while a navigation goroutine runs
	extStop chan struct{}
}

// NewWorld builds the default scenario: the agent on a plain with bread in
// its pack, an iron vein to the east, a coal seam below it, and a zombie
// loitering out of engagement range.
func NewWorld(seed int64, logger *zap.Logger) *World {
	w := &World{
		pos:    world.Vec3{X: 0, Y: 64, Z: 0},
		vitals: world.Vitals{Health: 20, Food: 16, Saturation: 4},
		inventory: []world.ItemStack{
			{Slot: 0, Name: "wooden_pickaxe", Count: 1},
			{Slot: 1, Name: "bread", Count: 5},
		},
		entities: []world.Entity{
			{ID: 1, Name: "zombie", Kind: "hostile", Position: world.Vec3{X: 30, Y: 64, Z: -12}},
			{ID: 2, Name: "sheep", Kind: "passive", Position: world.Vec3{X: -14, Y: 64, Z: 9}},
		},
		blocks: map[world.BlockPos]string{},
		biome:  "plains",
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger,
	}

	// Iron vein: a 2x2x2 cluster 18 blocks east.
	for dx := 0; dx < 2; dx++ {
		for dy := 0; dy < 2; dy++ {
			for dz := 0; dz < 2; dz++ {
				w.blocks[world.BlockPos{X: 18 + dx, Y: 63 + dy, Z: dz}] = "iron_ore"
			}
		}
	}
	// Coal seam: a short run under the vein.
	for dz := 0; dz < 3; dz++ {
		w.blocks[world.BlockPos{X: 19, Y: 60, Z: dz}] = "coal_ore"
	}
	return w
}

// #endregion

// #region sensor

// Snapshot assembles the sensed view: everything inside the sense radius,
// with distances computed from the agent's current position.
func (w *World) Snapshot() world.Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := world.Snapshot{
		Taken:    time.Now(),
		Position: w.pos,
		Vitals:   w.vitals,
		Biome:    w.biome,
		Night:    w.night,
	}
	for _, it := range w.inventory {
		if it.Count > 0 {
			snap.Inventory = append(snap.Inventory, it)
		}
	}
	for _, e := range w.entities {
		e.Distance = w.pos.DistanceTo(e.Position)
		if e.Distance <= senseRadius {
			snap.Entities = append(snap.Entities, e)
		}
	}
	for pos, name := range w.blocks {
		d := w.pos.DistanceTo(pos.Center())
		if d <= senseRadius {
			snap.Resources = append(snap.Resources, world.ResourceBlock{
				Name: name, Position: pos, Distance: d,
			})
		}
	}
	return snap
}

// #endregion

// #region controls

// SetControls nudges the agent a short step in +X. The simulation has no
// heading, so raw control input reads as a generic forward shuffle; it
// exists so move pulses and anti-stall nudges have an observable effect.
func (w *World) SetControls(forward, sprint, jump bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if forward {
		step := 0.5
		if sprint {
			step = 0.8
		}
		w.pos.X += step
	}
	return nil
}

func (w *World) ClearControls() error { return nil }

// #endregion

// #region navigation

// NavigateTo walks the agent toward target in fixed-rate steps, resolving
// when inside radius. A previous navigation, if still running, is cancelled.
func (w *World) NavigateTo(target world.Vec3, radius float64) *actuator.Pending {
	p := actuator.NewPending()

	w.mu.Lock()
	if w.navStop != nil {
		close(w.navStop)
	}
	stop := make(chan struct{})
	w.navStop = stop
	w.mu.Unlock()

	go func() {
		ticker := time.NewTicker(stepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				p.Resolve(errCancelled)
				return
			case <-ticker.C:
				if w.stepToward(target, walkSpeed*stepInterval.Seconds(), radius) {
					p.Resolve(nil)
					return
				}
			}
		}
	}()
	return p
}

func (w *World) CancelNavigate() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.navStop != nil {
		close(w.navStop)
		w.navStop = nil
	}
}

// stepToward advances the agent one step, returning true on arrival.
func (w *World) stepToward(target world.Vec3, step, radius float64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	dx, dy, dz := target.X-w.pos.X, target.Y-w.pos.Y, target.Z-w.pos.Z
	d := math.Sqrt(dx*dx + dy*dy + dz*dz)
	if d <= radius {
		return true
	}
	if d < step {
		w.pos = target
		return true
	}
	w.pos.X += dx / d * step
	w.pos.Y += dy / d * step
	w.pos.Z += dz / d * step
	return false
}

// #endregion

// #region blocks

// ExtractAt breaks the block after the configured delay, adding the drop to
// the inventory. Resolves with an error if no block is there.
func (w *World) ExtractAt(pos world.BlockPos) *actuator.Pending {
	p := actuator.NewPending()

	w.mu.Lock()
	if w.extStop != nil {
		close(w.extStop)
	}
	stop := make(chan struct{})
	w.extStop = stop
	w.mu.Unlock()

	go func() {
		select {
		case <-stop:
			p.Resolve(errCancelled)
			return
		case <-time.After(breakDelay):
		}

		w.mu.Lock()
		defer w.mu.Unlock()
		name, ok := w.blocks[pos]
		if !ok {
			p.Resolve(errors.New("no block at target"))
			return
		}
		delete(w.blocks, pos)
		w.addItemLocked(dropFor(name), 1)
		p.Resolve(nil)
	}()
	return p
}

func (w *World) CancelExtract() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.extStop != nil {
		close(w.extStop)
		w.extStop = nil
	}
}

// PlaceAt consumes one item and sets the block.
func (w *World) PlaceAt(pos world.BlockPos, item string) *actuator.Pending {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.removeItemLocked(item, 1) {
		return actuator.Resolved(errors.New("item not in inventory: " + item))
	}
	w.blocks[pos] = item
	return actuator.Resolved(nil)
}

// dropFor maps a broken block to its drop.
func dropFor(block string) string {
	switch block {
	case "iron_ore":
		return "raw_iron"
	case "coal_ore":
		return "coal"
	case "copper_ore":
		return "raw_copper"
	case "gold_ore":
		return "raw_gold"
	default:
		return block
	}
}

// #endregion

// #region combat

// AttackNearest removes the closest entity of the given kind when it is in
// striking range. One swing is lethal in the simulation.
func (w *World) AttackNearest(kind string) *actuator.Pending {
	const strikeRange = 4.0

	w.mu.Lock()
	defer w.mu.Unlock()

	best, bestD := -1, math.Inf(1)
	for i, e := range w.entities {
		if e.Kind != kind {
			continue
		}
		if d := w.pos.DistanceTo(e.Position); d < bestD {
			best, bestD = i, d
		}
	}
	if best < 0 {
		return actuator.Resolved(errors.New("no " + kind + " sensed"))
	}
	if bestD > strikeRange {
		return actuator.Resolved(errors.New("target out of striking range"))
	}
	w.entities = append(w.entities[:best], w.entities[best+1:]...)
	return actuator.Resolved(nil)
}

// #endregion

// #region inventory

func (w *World) SelectSlot(slot int) *actuator.Pending {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.heldSlot = slot
	return actuator.Resolved(nil)
}

// Consume eats one of the held item, restoring hunger.
func (w *World) Consume() *actuator.Pending {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i, it := range w.inventory {
		if it.Slot != w.heldSlot || it.Count == 0 {
			continue
		}
		w.inventory[i].Count--
		w.vitals.Food = math.Min(20, w.vitals.Food+foodPerMeal)
		return actuator.Resolved(nil)
	}
	return actuator.Resolved(errors.New("held slot empty"))
}

func (w *World) Craft(item string, count int) *actuator.Pending {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.addItemLocked(item, count)
	return actuator.Resolved(nil)
}

func (w *World) addItemLocked(name string, count int) {
	for i, it := range w.inventory {
		if it.Name == name {
			w.inventory[i].Count += count
			return
		}
	}
	slot := 0
	for _, it := range w.inventory {
		if it.Slot >= slot {
			slot = it.Slot + 1
		}
	}
	w.inventory = append(w.inventory, world.ItemStack{Slot: slot, Name: name, Count: count})
}

func (w *World) removeItemLocked(name string, count int) bool {
	for i, it := range w.inventory {
		if it.Name == name && it.Count >= count {
			w.inventory[i].Count -= count
			return true
		}
	}
	return false
}

// #endregion
