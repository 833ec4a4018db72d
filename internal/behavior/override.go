package behavior

// #region imports
import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/JoelJaison394/Minecraft-Agent/internal/action"
	"github.com/JoelJaison394/Minecraft-Agent/internal/world"
)

// #endregion

// #region suggest-override

// SuggestOverride proposes an action that breaks the current repetition loop.
// Returns false when the memory is not stuck. Branch order:
//
//  1. repeated mine failures inside the override window → long randomized
//     relocation, leaving the area entirely
//  2. a targetable ore within the configured radius → mine the nearest one
//  3. otherwise → randomized relocation at the default distance
//
// Every returned action resets the repeat counts and clears the stuck flag,
// so the override cannot become the next stuck pattern.
func (m *Memory) SuggestOverride(snap world.Snapshot) (action.Action, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.stuck {
		return action.Action{}, false
	}

	defer m.resetLocked()

	if m.failures != nil {
		since := time.Now().Add(-m.cfg.OverrideWindow())
		n, err := m.failures.FailureCount(action.KindMine, since)
		if err != nil {
			m.logger.Warn("failure count unavailable", zap.Error(err))
		} else if n >= m.cfg.FailedMineLimit {
			m.logger.Info("override: escaping failure loop",
				zap.Int("mine_failures", n))
			return m.relocateLocked(snap, m.cfg.EscapeDistance,
				fmt.Sprintf("escape after %d failed mining attempts", n)), true
		}
	}

	if ore, ok := snap.NearestResource(m.cfg.ResourceRadius, world.IsOre); ok {
		m.logger.Info("override: mining nearby resource",
			zap.String("block", ore.Name), zap.Float64("distance", ore.Distance))
		block := ore.Position
		return action.Action{
			Kind:   action.KindMine,
			Params: action.Params{Block: &block},
			Reason: fmt.Sprintf("override: break loop on nearby %s", ore.Name),
		}, true
	}

	m.logger.Info("override: relocating", zap.Float64("distance", m.cfg.RelocateDistance))
	return m.relocateLocked(snap, m.cfg.RelocateDistance, "override: relocate to break loop"), true
}

// relocateLocked builds a navigate action toward a random bearing at the
// given distance from the agent's current position.
func (m *Memory) relocateLocked(snap world.Snapshot, distance float64, reason string) action.Action {
	bearing := m.rng.Float64() * 2 * math.Pi
	target := world.Vec3{
		X: snap.Position.X + math.Cos(bearing)*distance,
		Y: snap.Position.Y,
		Z: snap.Position.Z + math.Sin(bearing)*distance,
	}
	return action.Action{
		Kind:    action.KindRelocate,
		Params:  action.Params{Target: &target},
		Horizon: action.TravelHorizon(distance),
		Reason:  reason,
	}
}

// resetLocked zeroes the repeat state after an override fires.
func (m *Memory) resetLocked() {
	m.current = ""
	m.count = 0
	m.stuck = false
	m.lastOverride = time.Now()
}

// #endregion
