// Package world defines the sensor snapshot shapes the engine consumes and
// the spatial helpers shared by goals and the executor.
package world

// #region imports
import (
	"math"
	"sort"
	"time"
)

// #endregion

// #region vectors

// Vec3 is a continuous world position.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// DistanceTo returns the euclidean distance to other.
func (v Vec3) DistanceTo(other Vec3) float64 {
	dx, dy, dz := v.X-other.X, v.Y-other.Y, v.Z-other.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// BlockPos is an integer block coordinate.
type BlockPos struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Center returns the center point of the block.
func (b BlockPos) Center() Vec3 {
	return Vec3{X: float64(b.X) + 0.5, Y: float64(b.Y) + 0.5, Z: float64(b.Z) + 0.5}
}

// Offset returns the block displaced by (dx, dy, dz).
func (b BlockPos) Offset(dx, dy, dz int) BlockPos {
	return BlockPos{X: b.X + dx, Y: b.Y + dy, Z: b.Z + dz}
}

// #endregion

// #region snapshot-members

// Vitals is the agent's health and hunger state.
type Vitals struct {
	Health     float64 `json:"health"`
	Food       float64 `json:"food"`
	Saturation float64 `json:"saturation"`
}

// Entity is a nearby mob or player.
type Entity struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Kind     string  `json:"kind"` // "hostile", "passive", "player"
	Position Vec3    `json:"position"`
	Distance float64 `json:"distance"`
}

// ResourceBlock is a harvestable block in sensing range.
type ResourceBlock struct {
	Name     string   `json:"name"`
	Position BlockPos `json:"position"`
	Distance float64  `json:"distance"`
}

// ItemStack summarizes one inventory slot.
type ItemStack struct {
	Slot  int    `json:"slot"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// #endregion

// #region snapshot

// Snapshot is a point-in-time view of the agent's surroundings. It is a pure
// value: goals and the behavioral layer may read it freely without coordination.
type Snapshot struct {
	Taken     time.Time       `json:"taken"`
	Position  Vec3            `json:"position"`
	Vitals    Vitals          `json:"vitals"`
	Inventory []ItemStack     `json:"inventory"`
	Entities  []Entity        `json:"entities"`
	Resources []ResourceBlock `json:"resources"`
	Biome     string          `json:"biome"`
	Night     bool            `json:"night"`
}

// Sensor produces snapshots on demand. Implementations must be side-effect-free.
type Sensor interface {
	Snapshot() Snapshot
}

// #endregion

// #region snapshot-queries

// NearestHostile returns the closest hostile entity, or false if none sensed.
func (s Snapshot) NearestHostile() (Entity, bool) {
	var best Entity
	found := false
	for _, e := range s.Entities {
		if e.Kind != "hostile" {
			continue
		}
		if !found || e.Distance < best.Distance {
			best = e
			found = true
		}
	}
	return best, found
}

// HostileCount returns the number of hostile entities in the snapshot.
func (s Snapshot) HostileCount() int {
	n := 0
	for _, e := range s.Entities {
		if e.Kind == "hostile" {
			n++
		}
	}
	return n
}

// NearestResource returns the closest resource block within radius whose name
// passes the filter (nil filter accepts everything).
func (s Snapshot) NearestResource(radius float64, filter func(string) bool) (ResourceBlock, bool) {
	var best ResourceBlock
	found := false
	for _, r := range s.Resources {
		if r.Distance > radius {
			continue
		}
		if filter != nil && !filter(r.Name) {
			continue
		}
		if !found || r.Distance < best.Distance {
			best = r
			found = true
		}
	}
	return best, found
}

// SortedResources returns the snapshot's resources ordered by distance.
func (s Snapshot) SortedResources() []ResourceBlock {
	out := make([]ResourceBlock, len(s.Resources))
	copy(out, s.Resources)
	sort.Slice(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out
}

// CountItem returns the total count of the named item across inventory slots.
func (s Snapshot) CountItem(name string) int {
	n := 0
	for _, it := range s.Inventory {
		if it.Name == name {
			n += it.Count
		}
	}
	return n
}

// FirstEdible returns the first edible inventory stack, or false if none.
func (s Snapshot) FirstEdible() (ItemStack, bool) {
	for _, it := range s.Inventory {
		if edible[it.Name] && it.Count > 0 {
			return it, true
		}
	}
	return ItemStack{}, false
}

var edible = map[string]bool{
	"apple":           true,
	"bread":           true,
	"carrot":          true,
	"potato":          true,
	"baked_potato":    true,
	"cooked_beef":     true,
	"cooked_porkchop": true,
	"cooked_chicken":  true,
	"cooked_mutton":   true,
	"cooked_cod":      true,
	"melon_slice":     true,
	"sweet_berries":   true,
}

// #endregion

// #region expr-env

// Env flattens the snapshot into the variable map priority-rule expressions
// evaluate against. Keys are stable; rules depend on them.
func (s Snapshot) Env() map[string]any {
	nearestHostile := math.Inf(1)
	if h, ok := s.NearestHostile(); ok {
		nearestHostile = h.Distance
	}
	oreVisible := false
	for _, r := range s.Resources {
		if isOre(r.Name) {
			oreVisible = true
			break
		}
	}
	_, hasFood := s.FirstEdible()
	return map[string]any{
		"health":          s.Vitals.Health,
		"food":            s.Vitals.Food,
		"saturation":      s.Vitals.Saturation,
		"hostiles":        s.HostileCount(),
		"nearest_hostile": nearestHostile,
		"resources":       len(s.Resources),
		"ore_visible":     oreVisible,
		"has_food":        hasFood,
		"night":           s.Night,
	}
}

func isOre(name string) bool {
	switch name {
	case "coal_ore", "iron_ore", "copper_ore", "gold_ore", "redstone_ore",
		"lapis_ore", "diamond_ore", "emerald_ore":
		return true
	}
	return false
}

// IsOre reports whether the block name is a mineable ore.
func IsOre(name string) bool { return isOre(name) }

// #endregion
