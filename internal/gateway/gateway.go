// Package gateway wraps every state-changing network call in the
// snapshot / patch / settle protocol: cached views are patched synchronously
// before the request is dispatched, left in place and marked stale on
// success, and restored verbatim on failure.
package gateway

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aarothfresh/orderflow/internal/view"
)

type attemptState int

const (
	stateIdle attemptState = iota
	statePatched
	stateCommitted
	stateRolledBack
)

// Attempt is one in-flight optimistic mutation. Lifecycle:
// Begin (snapshot) -> Apply (local patch) -> Commit | Rollback.
type Attempt struct {
	ID    string
	store view.Store
	keys  []string
	snap  view.Snapshot
	state attemptState
}

// Begin snapshots the current value of every view the mutation will touch.
func Begin(store view.Store, keys ...string) *Attempt {
	return &Attempt{
		ID:    uuid.NewString(),
		store: store,
		keys:  keys,
		snap:  store.Snapshot(keys...),
		state: stateIdle,
	}
}

// Apply runs the local patch against the store. It returns before any network
// traffic happens, so readers never see a frame of stale data after the
// user's action.
func (a *Attempt) Apply(patch func(view.Store)) {
	if a.state != stateIdle {
		return
	}
	patch(a.store)
	a.state = statePatched
}

// Commit settles the attempt as successful: the patch stays in place and the
// touched keys are marked for background revalidation.
func (a *Attempt) Commit() {
	if a.state != statePatched {
		return
	}
	a.store.MarkStale(a.keys...)
	a.state = stateCommitted
}

// Rollback settles the attempt as failed: every snapshotted view is restored
// verbatim, all-or-nothing.
func (a *Attempt) Rollback() {
	if a.state != statePatched {
		return
	}
	a.store.Restore(a.snap)
	a.state = stateRolledBack
}

// Outcome is the settled result of one mutation.
type Outcome struct {
	// Committed is true when the network call succeeded and the optimistic
	// patch was kept.
	Committed bool
	// Err carries the rollback reason when Committed is false.
	Err error
	// AttemptID correlates log lines for this mutation.
	AttemptID string
}

// FailureListener observes rolled-back mutations, e.g. to surface a transient
// notification naming the failed action.
type FailureListener func(action string, err error)

// Gateway runs optimistic mutations against a view store.
//
// There is no per-entity locking: a second mutation against the same entity
// may start while an earlier one is still in flight. If both settle,
// last-write-wins on the cache, and an early failure's rollback can clobber a
// later success's patch. Accepted limitation, matching the dashboard.
type Gateway struct {
	store     view.Store
	logger    *zap.Logger
	onFailure FailureListener
}

// New creates a mutation gateway over the given store.
func New(store view.Store, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{store: store, logger: logger}
}

// SetFailureListener registers the observer invoked after each rollback.
func (g *Gateway) SetFailureListener(fn FailureListener) {
	g.onFailure = fn
}

// Store exposes the underlying view store for read paths.
func (g *Gateway) Store() view.Store {
	return g.store
}

// Do executes one mutation: snapshot and patch the named keys, then dispatch
// the network call. The patch always happens-before the dispatch. On error
// the snapshot is restored and the failure listener is notified; the error is
// not rethrown past the returned outcome.
func (g *Gateway) Do(ctx context.Context, action string, keys []string, patch func(view.Store), call func(context.Context) error) Outcome {
	attempt := Begin(g.store, keys...)
	attempt.Apply(patch)

	g.logger.Debug("Optimistic patch applied",
		zap.String("action", action),
		zap.String("attempt_id", attempt.ID),
		zap.Strings("keys", keys),
	)

	if err := call(ctx); err != nil {
		attempt.Rollback()
		g.logger.Warn("Mutation failed, patch rolled back",
			zap.String("action", action),
			zap.String("attempt_id", attempt.ID),
			zap.Error(err),
		)
		if g.onFailure != nil {
			g.onFailure(action, err)
		}
		return Outcome{Committed: false, Err: fmt.Errorf("%s failed: %w", action, err), AttemptID: attempt.ID}
	}

	attempt.Commit()
	g.logger.Debug("Mutation committed",
		zap.String("action", action),
		zap.String("attempt_id", attempt.ID),
	)
	return Outcome{Committed: true, AttemptID: attempt.ID}
}
