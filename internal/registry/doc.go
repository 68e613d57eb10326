// Package registry implements gitdock's repository manager: a bounded,
// indexed collection of repository contexts with exactly one active
// context whenever any are tracked.
//
// # Main Types
//
//   - Manager: owns all mutable state. Three lookup indices (id, resolved
//     local path, remote full name), the active pointer, the staleness
//     epoch, and per-context recency.
//   - Config: dependency injection for the factory, event bus, logger,
//     and capacity. Construct a fresh Manager per process; there is no
//     package-level singleton.
//   - ContextFactory: the interface Open uses to build local contexts.
//   - Summary: read-only projection of a context for presentation.
//
// # Context Lifecycle
//
// A context moves through: absent, tracked in the background, active.
// Open and AddRemote insert contexts and usually activate them; SetActive
// promotes a background context; Close removes a context permanently.
// Background contexts beyond the capacity bound are evicted least
// recently accessed first. The active context is never evicted.
//
// # Staleness Epoch
//
// The epoch advances exactly once per change of the active context.
// Long-running operations capture Epoch when they start and check
// IsEpochCurrent before committing side effects; a stale epoch means the
// active repository changed underneath them and the result must be
// discarded. This is cooperative: nothing is cancelled automatically.
//
// # Events
//
// Every mutation publishes events on the manager's bus after its lock is
// released, in a fixed order per mutation:
//
//	repository.evicted      (zero or more, before an insert at capacity)
//	repository.opened       (insert via Open or AddRemote)
//	repository.closed       (removal via Close)
//	registry.active_changed (only when the active context actually changed)
//	registry.changed        (always last, once state is fully consistent)
//
// OnActiveChange and OnChange wrap bus subscriptions for the two
// registry-level events; active-change handlers run before change
// handlers for the same mutation.
//
// # Thread Safety
//
// All Manager methods are safe for concurrent use. Concurrent Opens of
// the same normalized path are deduplicated in flight, and opens that
// resolve to an already-tracked root return the tracked context instead
// of registering a duplicate.
package registry
