// Package hooks is the extension surface for deployment-specific behavior.
// The relay core only depends on the interface being total: every method
// always returns, possibly as a no-op.
package hooks

import (
	"context"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/relay/store"
)

// Hooks is the capability table, one method per extension point.
type Hooks interface {
	// OnActionStored runs after a pending action was persisted and relayed.
	OnActionStored(ctx context.Context, rec *store.ActionRecord)
	// OnSocketJoin runs after a connection joined a room.
	OnSocketJoin(ctx context.Context, channel string, wkIdentity string, authenticated bool)
	// OnTokenRegistered runs after a push token was stored.
	OnTokenRegistered(ctx context.Context, rec *store.TokenRecord)
	// FilterActionForKey may replace or suppress an action before it is
	// replayed to a key-side join. Returning nil suppresses the replay.
	FilterActionForKey(ctx context.Context, rec *store.ActionRecord) *store.ActionRecord
}

// Noop is the default implementation.
type Noop struct{}

func NewNoop() *Noop {
	return &Noop{}
}

func (h *Noop) OnActionStored(ctx context.Context, rec *store.ActionRecord) {}

func (h *Noop) OnSocketJoin(ctx context.Context, channel string, wkIdentity string, authenticated bool) {
}

func (h *Noop) OnTokenRegistered(ctx context.Context, rec *store.TokenRecord) {}

func (h *Noop) FilterActionForKey(ctx context.Context, rec *store.ActionRecord) *store.ActionRecord {
	return rec
}
