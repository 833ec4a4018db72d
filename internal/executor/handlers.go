package executor

// #region imports
import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JoelJaison394/Minecraft-Agent/internal/action"
)

// #endregion

// #region move

// controlReleaseMargin keeps the control pulse inside the horizon so a full
// pulse completes instead of timing out.
const controlReleaseMargin = 100 * time.Millisecond

func (e *Executor) handleMove(ctx context.Context, a action.Action) error {
	pulse := a.Horizon - controlReleaseMargin
	if pulse < controlReleaseMargin {
		pulse = controlReleaseMargin
	}

	if err := e.act.SetControls(true, a.Params.Sprint, a.Params.Jump); err != nil {
		return fmt.Errorf("set controls: %w", err)
	}
	defer e.act.ClearControls()

	select {
	case <-time.After(pulse):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// #endregion

// #region navigate

// handleNavigate drives the actuator's path goal and polls position. A
// sustained no-progress window is treated as a retryable stall: one
// jump-and-forward nudge is issued, and only a further stall window after
// that fails the action.
func (e *Executor) handleNavigate(ctx context.Context, a action.Action) error {
	target := *a.Params.Target
	pending := e.act.NavigateTo(target, e.cfg.ArriveRadius)

	ticker := time.NewTicker(e.cfg.PollInterval())
	defer ticker.Stop()

	best := e.sensor.Snapshot().Position.DistanceTo(target)
	lastProgress := time.Now()
	nudged := false

	for {
		select {
		case err := <-pending.Done():
			if err != nil {
				return fmt.Errorf("navigate: %w", err)
			}
			return nil

		case <-ctx.Done():
			e.act.CancelNavigate()
			return ctx.Err()

		case <-ticker.C:
			pos := e.sensor.Snapshot().Position
			d := pos.DistanceTo(target)
			if d <= e.cfg.ArriveRadius {
				e.act.CancelNavigate()
				return nil
			}
			if best-d >= e.cfg.StallEpsilon {
				best = d
				lastProgress = time.Now()
				nudged = false
				continue
			}

			idle := time.Since(lastProgress)
			switch {
			case !nudged && idle >= e.cfg.StallWindow():
				e.logger.Debug("navigation stalled, nudging")
				if err := e.nudge(ctx); err != nil {
					e.act.CancelNavigate()
					return err
				}
				nudged = true
				lastProgress = time.Now()
			case nudged && idle >= e.cfg.StallGrace():
				e.act.CancelNavigate()
				return errors.New("navigation stalled after corrective nudge")
			}
		}
	}
}

// nudge issues a short jump-and-forward pulse to unstick pathing.
func (e *Executor) nudge(ctx context.Context) error {
	if err := e.act.SetControls(true, false, true); err != nil {
		return fmt.Errorf("nudge: %w", err)
	}
	select {
	case <-time.After(300 * time.Millisecond):
	case <-ctx.Done():
		e.act.ClearControls()
		return ctx.Err()
	}
	return e.act.ClearControls()
}

// #endregion

// #region mine

func (e *Executor) handleMine(ctx context.Context, a action.Action) error {
	block := *a.Params.Block

	// Reach check before committing: fail fast with no actuator call.
	pos := e.sensor.Snapshot().Position
	if d := pos.DistanceTo(block.Center()); d > e.cfg.MaxReach {
		return fmt.Errorf("out of range: block %.1f blocks away, reach %.1f", d, e.cfg.MaxReach)
	}

	pending := e.act.ExtractAt(block)
	select {
	case err := <-pending.Done():
		if err != nil {
			return fmt.Errorf("mine: %w", err)
		}
		return nil
	case <-ctx.Done():
		e.act.CancelExtract()
		return ctx.Err()
	}
}

// #endregion

// #region place

func (e *Executor) handlePlace(ctx context.Context, a action.Action) error {
	if err := e.act.PlaceAt(*a.Params.Block, a.Params.Item).Wait(ctx); err != nil {
		return fmt.Errorf("place: %w", err)
	}
	return nil
}

// #endregion

// #region eat

func (e *Executor) handleEat(ctx context.Context, a action.Action) error {
	stack, ok := e.sensor.Snapshot().FirstEdible()
	if !ok {
		return fmt.Errorf("%w: no edible item in inventory", errNoOp)
	}
	if err := e.act.SelectSlot(stack.Slot).Wait(ctx); err != nil {
		return fmt.Errorf("eat: select slot: %w", err)
	}
	if err := e.act.Consume().Wait(ctx); err != nil {
		return fmt.Errorf("eat: consume: %w", err)
	}
	return nil
}

// #endregion

// #region attack

func (e *Executor) handleAttack(ctx context.Context, a action.Action) error {
	kind := a.Params.Entity
	if kind == "" {
		kind = "hostile"
	}

	found := false
	for _, ent := range e.sensor.Snapshot().Entities {
		if ent.Kind == kind {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: no %s in range", errNoOp, kind)
	}

	if err := e.act.AttackNearest(kind).Wait(ctx); err != nil {
		return fmt.Errorf("attack: %w", err)
	}
	return nil
}

// #endregion

// #region craft

func (e *Executor) handleCraft(ctx context.Context, a action.Action) error {
	if err := e.act.Craft(a.Params.Item, a.Params.Count).Wait(ctx); err != nil {
		return fmt.Errorf("craft %s: %w", a.Params.Item, err)
	}
	return nil
}

// #endregion

// #region select-slot

func (e *Executor) handleSelectSlot(ctx context.Context, a action.Action) error {
	if err := e.act.SelectSlot(*a.Params.Slot).Wait(ctx); err != nil {
		return fmt.Errorf("select slot: %w", err)
	}
	return nil
}

// #endregion
