// Package actuator defines the collaborator that performs real effects in the
// world and the per-request completion futures the engine waits on.
package actuator

// #region imports
import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/JoelJaison394/Minecraft-Agent/internal/world"
)

// #endregion

// #region pending

// Pending is the one-shot completion signal for a single actuator request.
// Each request gets its own handle, so a late completion for a stale request
// can never resolve a newer waiter.
type Pending struct {
	id   uuid.UUID
	once sync.Once
	done chan error
}

// NewPending allocates an unresolved pending handle.
func NewPending() *Pending {
	return &Pending{id: uuid.New(), done: make(chan error, 1)}
}

// Resolved returns a handle that is already resolved with err.
func Resolved(err error) *Pending {
	p := NewPending()
	p.Resolve(err)
	return p
}

// ID returns the request identity.
func (p *Pending) ID() uuid.UUID { return p.id }

// Resolve completes the request. Only the first call has effect.
func (p *Pending) Resolve(err error) {
	p.once.Do(func() {
		p.done <- err
		close(p.done)
	})
}

// Wait blocks until the request resolves or ctx expires. A nil return means
// the operation completed; ctx.Err() is returned verbatim on expiry.
func (p *Pending) Wait(ctx context.Context) error {
	select {
	case err := <-p.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done exposes the completion channel for select loops.
func (p *Pending) Done() <-chan error { return p.done }

// #endregion

// #region actuator-interface

// Actuator is the low-level effect surface. Control-input calls take effect
// immediately; everything else resolves asynchronously through a Pending.
// NavigateTo and ExtractAt are cancelled by the corresponding Cancel call,
// observed by the waiter as an early resolution.
type Actuator interface {
	// SetControls applies continuous locomotion inputs until cleared.
	SetControls(forward, sprint, jump bool) error
	ClearControls() error

	// NavigateTo walks toward target, resolving within radius of it.
	NavigateTo(target world.Vec3, radius float64) *Pending
	CancelNavigate()

	// ExtractAt breaks the block at pos.
	ExtractAt(pos world.BlockPos) *Pending
	CancelExtract()

	// PlaceAt places one item of the named type against pos.
	PlaceAt(pos world.BlockPos, item string) *Pending

	// AttackNearest swings at the closest entity of the given kind.
	AttackNearest(kind string) *Pending

	// SelectSlot makes the given inventory slot the held item.
	SelectSlot(slot int) *Pending

	// Consume uses the currently held item (eat, drink).
	Consume() *Pending

	// Craft crafts count items of the named type.
	Craft(item string, count int) *Pending
}

// #endregion
