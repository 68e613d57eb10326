package registry

import (
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gitdock/gitdock/internal/errors"
	"github.com/gitdock/gitdock/internal/event"
	"github.com/gitdock/gitdock/internal/logging"
	"github.com/gitdock/gitdock/internal/repoctx"
)

// DefaultMaxOpen bounds the number of simultaneously tracked contexts when
// Config.MaxOpen is not set.
const DefaultMaxOpen = 12

// ContextFactory builds local repository contexts for Open. Remote
// contexts are built by the caller and handed to AddRemote directly.
type ContextFactory interface {
	CreateLocal(path string) (*repoctx.Context, error)
}

// Config configures a Manager.
type Config struct {
	// MaxOpen caps the number of tracked contexts. Zero or negative
	// selects DefaultMaxOpen.
	MaxOpen int
	// Factory builds contexts for Open. Required unless the manager is
	// used exclusively through AddRemote.
	Factory ContextFactory
	// Bus receives lifecycle and registry events. Nil creates a bus
	// private to this manager.
	Bus *event.Bus
	// Logger records registry activity. Nil disables logging.
	Logger *logging.Logger
}

// Manager tracks open repository contexts: three lookup indices (by id,
// by resolved local path, by remote full name), one active context, a
// staleness epoch, and a bounded LRU of background contexts.
//
// All mutations funnel through the manager and hold its lock; events are
// published after the lock is released, so subscribers may call back into
// the manager. Events for a single mutation are published in order, but
// events from concurrent mutations may interleave.
type Manager struct {
	mu          sync.RWMutex
	contexts    map[string]*repoctx.Context
	pathIndex   map[string]string // resolved root -> context id
	remoteIndex map[string]string // remote full name -> context id (remote contexts only)
	activeID    string
	epoch       uint64

	// access orders contexts by recency. A monotonic counter rather than
	// wall time so that two touches in the same clock tick still order.
	access map[string]uint64
	seq    uint64

	// opening tracks in-flight Open calls by normalized path so that
	// concurrent opens of the same path build the context only once.
	opening map[string]chan struct{}

	maxOpen int
	factory ContextFactory
	bus     *event.Bus
	logger  *logging.Logger
}

// NewManager creates a Manager from cfg.
func NewManager(cfg Config) *Manager {
	maxOpen := cfg.MaxOpen
	if maxOpen <= 0 {
		maxOpen = DefaultMaxOpen
	}
	bus := cfg.Bus
	if bus == nil {
		bus = event.NewBus()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}

	return &Manager{
		contexts:    make(map[string]*repoctx.Context),
		pathIndex:   make(map[string]string),
		remoteIndex: make(map[string]string),
		access:      make(map[string]uint64),
		opening:     make(map[string]chan struct{}),
		maxOpen:     maxOpen,
		factory:     cfg.Factory,
		bus:         bus,
		logger:      logger.WithComponent("registry"),
	}
}

// -----------------------------------------------------------------------------
// Open / AddRemote
// -----------------------------------------------------------------------------

// Open registers the repository containing path and returns its context.
// Opening an already-tracked repository is idempotent by resolved root:
// it bumps the context's recency, optionally activates it, and returns
// the existing context. The first context opened into an empty registry
// always becomes active so a non-empty registry never lacks one.
//
// Concurrent opens of the same normalized path build the context once;
// later callers wait for the first and receive the same context. Fails
// only by propagating the factory's error, matching
// errors.ErrNotGitRepository for invalid paths.
func (m *Manager) Open(path string, makeActive bool) (*repoctx.Context, error) {
	if m.factory == nil {
		return nil, errors.NewValidationError("registry has no context factory")
	}
	norm, err := normalizePath(path)
	if err != nil {
		return nil, err
	}

	var pending chan struct{}
	for {
		m.mu.Lock()
		if id, ok := m.pathIndex[norm]; ok {
			ctx := m.contexts[id]
			events := append(m.touchLocked(ctx, makeActive), event.NewRegistryChangedEvent(event.OpOpen))
			m.mu.Unlock()
			m.publish(events)
			m.logger.Debug("reopened tracked repository", "repository_id", ctx.ID, "path", ctx.Path())
			return ctx, nil
		}
		inflight, ok := m.opening[norm]
		if !ok {
			pending = make(chan struct{})
			m.opening[norm] = pending
			m.mu.Unlock()
			break
		}
		m.mu.Unlock()
		// Another goroutine is building a context for this path. Wait for
		// it and retry the index lookup.
		<-inflight
	}

	ctx, err := m.factory.CreateLocal(path)
	if err != nil {
		m.finishOpening(norm, pending)
		return nil, err
	}
	if ctx == nil || ctx.Local == nil || ctx.Local.Path == "" {
		m.finishOpening(norm, pending)
		return nil, errors.NewValidationError("factory returned a context without a local path")
	}

	m.mu.Lock()
	// The factory may resolve path to a different canonical root than the
	// normalized input (a subdirectory open). Re-check the index under the
	// resolved root so one physical repository never registers twice.
	if id, ok := m.pathIndex[ctx.Local.Path]; ok {
		existing := m.contexts[id]
		events := append(m.touchLocked(existing, makeActive), event.NewRegistryChangedEvent(event.OpOpen))
		delete(m.opening, norm)
		m.mu.Unlock()
		close(pending)
		ctx.Local.Handle = nil // release the redundant handle
		m.publish(events)
		m.logger.Debug("path resolved to tracked repository", "repository_id", existing.ID, "path", existing.Path())
		return existing, nil
	}

	events := m.evictIfNeededLocked()
	m.contexts[ctx.ID] = ctx
	m.pathIndex[ctx.Local.Path] = ctx.ID
	events = append(events, event.NewRepositoryOpenedEvent(
		ctx.ID, ctx.Name, ctx.Path(), string(ctx.Kind), string(ctx.Metadata.Provider)))
	events = append(events, m.touchLocked(ctx, makeActive || m.activeID == "")...)
	events = append(events, event.NewRegistryChangedEvent(event.OpOpen))
	active := m.activeID == ctx.ID
	delete(m.opening, norm)
	m.mu.Unlock()
	close(pending)

	m.publish(events)
	m.logger.Info("opened repository",
		"repository_id", ctx.ID,
		"name", ctx.Name,
		"path", ctx.Path(),
		"provider", string(ctx.Metadata.Provider),
		"active", active)
	return ctx, nil
}

// AddRemote registers a remote-only context built by the factory. Two
// contexts with the same remote full name dedupe to the first: the second
// call bumps recency, optionally activates, and returns the stored
// context. The activation and eviction contract matches Open.
func (m *Manager) AddRemote(ctx *repoctx.Context, makeActive bool) (*repoctx.Context, error) {
	if ctx == nil || ctx.Kind != repoctx.KindRemote || ctx.FullName() == "" {
		return nil, errors.NewValidationError("addRemote requires a remote context with a full name")
	}

	m.mu.Lock()
	if id, ok := m.remoteIndex[ctx.Remote.FullName]; ok {
		existing := m.contexts[id]
		events := append(m.touchLocked(existing, makeActive), event.NewRegistryChangedEvent(event.OpAddRemote))
		m.mu.Unlock()
		m.publish(events)
		m.logger.Debug("remote repository already tracked", "repository_id", existing.ID, "remote", existing.FullName())
		return existing, nil
	}

	events := m.evictIfNeededLocked()
	m.contexts[ctx.ID] = ctx
	m.remoteIndex[ctx.Remote.FullName] = ctx.ID
	events = append(events, event.NewRepositoryOpenedEvent(
		ctx.ID, ctx.Name, "", string(ctx.Kind), string(ctx.Metadata.Provider)))
	events = append(events, m.touchLocked(ctx, makeActive || m.activeID == "")...)
	events = append(events, event.NewRegistryChangedEvent(event.OpAddRemote))
	active := m.activeID == ctx.ID
	m.mu.Unlock()

	m.publish(events)
	m.logger.Info("added remote repository",
		"repository_id", ctx.ID,
		"remote", ctx.FullName(),
		"provider", string(ctx.Metadata.Provider),
		"active", active)
	return ctx, nil
}

// -----------------------------------------------------------------------------
// Lookups
// -----------------------------------------------------------------------------

// Get returns the context with the given id, or nil.
func (m *Manager) Get(id string) *repoctx.Context {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.contexts[id]
}

// GetByPath returns the context whose resolved root matches path after
// normalization, or nil. Paths inside a repository only match when they
// equal the root; use Open to resolve subdirectories.
func (m *Manager) GetByPath(path string) *repoctx.Context {
	norm, err := normalizePath(path)
	if err != nil {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id, ok := m.pathIndex[norm]; ok {
		return m.contexts[id]
	}
	return nil
}

// GetByRemote returns the remote context with the given full name
// ("owner/repo"), or nil.
func (m *Manager) GetByRemote(fullName string) *repoctx.Context {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id, ok := m.remoteIndex[fullName]; ok {
		return m.contexts[id]
	}
	return nil
}

// Active returns the active context, or nil when the registry is empty.
func (m *Manager) Active() *repoctx.Context {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.activeID == "" {
		return nil
	}
	return m.contexts[m.activeID]
}

// RequireActive returns the active context or fails with
// errors.ErrNoActiveRepository. It is the only lookup that reports
// absence through an error.
func (m *Manager) RequireActive() (*repoctx.Context, error) {
	if ctx := m.Active(); ctx != nil {
		return ctx, nil
	}
	return nil, errors.NewRepositoryError("no repository is active", errors.ErrNoActiveRepository)
}

// -----------------------------------------------------------------------------
// Activation / Close
// -----------------------------------------------------------------------------

// SetActive makes the context with the given id active. It returns false
// when the id is unknown and true otherwise, including when the context
// was already active (a no-op that publishes nothing).
func (m *Manager) SetActive(id string) bool {
	m.mu.Lock()
	ctx, ok := m.contexts[id]
	if !ok {
		m.mu.Unlock()
		return false
	}
	if m.activeID == id {
		m.mu.Unlock()
		return true
	}

	events := append(m.touchLocked(ctx, true), event.NewRegistryChangedEvent(event.OpSetActive))
	epoch := m.epoch
	m.mu.Unlock()

	m.publish(events)
	m.logger.Info("switched active repository",
		"repository_id", ctx.ID,
		"name", ctx.Name,
		"epoch", epoch)
	return true
}

// Close removes the context with the given id from the registry and
// releases its git handle. It returns false when the id is unknown.
// Closing the active context promotes the most-recently-accessed
// remaining context, or clears the active slot when none remain; either
// way the epoch advances once.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	ctx, ok := m.contexts[id]
	if !ok {
		m.mu.Unlock()
		return false
	}

	wasActive := m.activeID == id
	m.removeLocked(ctx)
	events := []event.Event{event.NewRepositoryClosedEvent(ctx.ID, ctx.Name, ctx.Path())}
	if wasActive {
		m.epoch++
		if next := m.mostRecentLocked(); next != nil {
			m.activeID = next.ID
			events = append(events, event.NewActiveChangedEvent(next.ID, next.Name, next.Path(), true))
		} else {
			m.activeID = ""
			events = append(events, event.NewActiveChangedEvent("", "", "", false))
		}
	}
	events = append(events, event.NewRegistryChangedEvent(event.OpClose))
	remaining := len(m.contexts)
	m.mu.Unlock()

	m.publish(events)
	m.logger.Info("closed repository",
		"repository_id", ctx.ID,
		"name", ctx.Name,
		"was_active", wasActive,
		"remaining", remaining)
	return true
}

// CloseByPath closes the context whose resolved root matches path. It
// returns false when no tracked repository matches.
func (m *Manager) CloseByPath(path string) bool {
	norm, err := normalizePath(path)
	if err != nil {
		return false
	}
	m.mu.RLock()
	id, ok := m.pathIndex[norm]
	m.mu.RUnlock()
	if !ok {
		return false
	}
	return m.Close(id)
}

// -----------------------------------------------------------------------------
// Listing
// -----------------------------------------------------------------------------

// List returns all tracked contexts, most recently accessed first.
func (m *Manager) List() []*repoctx.Context {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*repoctx.Context, 0, len(m.contexts))
	for _, ctx := range m.contexts {
		out = append(out, ctx)
	}
	sort.Slice(out, func(i, j int) bool {
		return m.access[out[i].ID] > m.access[out[j].ID]
	})
	return out
}

// Summary is a read-only projection of one tracked context for
// presentation.
type Summary struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Path     string             `json:"path,omitempty"`
	Active   bool               `json:"active"`
	Provider repoctx.Provider   `json:"provider"`
	Kind     repoctx.Kind       `json:"kind"`
	Remote   *repoctx.RemoteRef `json:"remote,omitempty"`
}

// Summaries returns a presentation projection of every tracked context,
// most recently accessed first. At most one entry is active, and exactly
// one whenever the registry is non-empty.
func (m *Manager) Summaries() []Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Summary, 0, len(m.contexts))
	for _, ctx := range m.contexts {
		out = append(out, Summary{
			ID:       ctx.ID,
			Name:     ctx.Name,
			Path:     ctx.Path(),
			Active:   ctx.ID == m.activeID,
			Provider: ctx.Metadata.Provider,
			Kind:     ctx.Kind,
			Remote:   ctx.Remote,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return m.access[out[i].ID] > m.access[out[j].ID]
	})
	return out
}

// Len returns the number of tracked contexts.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.contexts)
}

// -----------------------------------------------------------------------------
// Staleness Epoch
// -----------------------------------------------------------------------------

// Epoch returns the current staleness epoch. The epoch advances exactly
// once per change of the active context. Callers starting long-running
// work against the active repository capture the epoch first and check
// IsEpochCurrent before committing results.
func (m *Manager) Epoch() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.epoch
}

// IsEpochCurrent reports whether the active context is unchanged since
// epoch was captured. A false result means results derived from the
// previously active repository are stale and must be discarded.
func (m *Manager) IsEpochCurrent(epoch uint64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.epoch == epoch
}

// -----------------------------------------------------------------------------
// Subscriptions
// -----------------------------------------------------------------------------

// OnChange registers fn to run after every registry mutation, once
// indices, the active pointer, and the epoch are all consistent. The
// returned function removes the subscription.
func (m *Manager) OnChange(fn func()) func() {
	id := m.bus.Subscribe("registry.changed", func(event.Event) {
		fn()
	})
	return func() { m.bus.Unsubscribe(id) }
}

// OnActiveChange registers fn to receive the active repository's local
// path after every active-context change. The path is empty when the
// active slot was cleared or the new active context is remote. Active
// change handlers always run before OnChange handlers for the same
// mutation. The returned function removes the subscription.
func (m *Manager) OnActiveChange(fn func(path string)) func() {
	id := m.bus.Subscribe("registry.active_changed", func(e event.Event) {
		if ac, ok := e.(event.ActiveChangedEvent); ok {
			fn(ac.Path)
		}
	})
	return func() { m.bus.Unsubscribe(id) }
}

// -----------------------------------------------------------------------------
// Internals
// -----------------------------------------------------------------------------

// normalizePath converts path to an absolute, symlink-resolved form. A
// path that does not exist keeps its absolute form; the factory decides
// whether it is openable.
func normalizePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.NewRepositoryError("failed to resolve path", err).WithPath(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return abs, nil
}

// touchLocked records an access on ctx and activates it when makeActive
// is set and it is not already active. It returns the events to publish
// once the lock is released.
func (m *Manager) touchLocked(ctx *repoctx.Context, makeActive bool) []event.Event {
	m.seq++
	m.access[ctx.ID] = m.seq
	ctx.LastAccessed = time.Now()

	if !makeActive || m.activeID == ctx.ID {
		return nil
	}
	m.activeID = ctx.ID
	m.epoch++
	return []event.Event{event.NewActiveChangedEvent(ctx.ID, ctx.Name, ctx.Path(), true)}
}

// evictIfNeededLocked frees slots until a new context fits. The active
// context is never a victim; when only it remains the registry grows past
// its bound rather than evicting it.
func (m *Manager) evictIfNeededLocked() []event.Event {
	var events []event.Event
	for len(m.contexts) >= m.maxOpen {
		victim := m.lruVictimLocked()
		if victim == nil {
			m.logger.Warn("registry at capacity with only the active repository, skipping eviction",
				"capacity", m.maxOpen)
			break
		}
		m.removeLocked(victim)
		events = append(events, event.NewRepositoryEvictedEvent(victim.ID, victim.Name, victim.Path()))
		m.logger.Info("evicted least recently used repository",
			"repository_id", victim.ID,
			"name", victim.Name,
			"capacity", m.maxOpen)
	}
	return events
}

// lruVictimLocked returns the least-recently-accessed non-active context,
// or nil when every remaining context is active.
func (m *Manager) lruVictimLocked() *repoctx.Context {
	var victim *repoctx.Context
	var oldest uint64
	for id, ctx := range m.contexts {
		if id == m.activeID {
			continue
		}
		if seq := m.access[id]; victim == nil || seq < oldest {
			victim, oldest = ctx, seq
		}
	}
	return victim
}

// mostRecentLocked returns the most-recently-accessed context, or nil
// when the registry is empty.
func (m *Manager) mostRecentLocked() *repoctx.Context {
	var best *repoctx.Context
	var bestSeq uint64
	for id, ctx := range m.contexts {
		if seq := m.access[id]; best == nil || seq > bestSeq {
			best, bestSeq = ctx, seq
		}
	}
	return best
}

// removeLocked deletes ctx from every index and releases its handle. The
// context stays removed in the same step its handle is nulled, so no
// lookup can observe a context without a live handle.
func (m *Manager) removeLocked(ctx *repoctx.Context) {
	delete(m.contexts, ctx.ID)
	delete(m.access, ctx.ID)
	if ctx.Local != nil {
		delete(m.pathIndex, ctx.Local.Path)
		ctx.Local.Handle = nil
	}
	if ctx.Kind == repoctx.KindRemote && ctx.Remote != nil {
		delete(m.remoteIndex, ctx.Remote.FullName)
	}
}

// finishOpening clears the in-flight marker for norm and wakes waiters.
func (m *Manager) finishOpening(norm string, pending chan struct{}) {
	m.mu.Lock()
	delete(m.opening, norm)
	m.mu.Unlock()
	close(pending)
}

// publish delivers events in order on the manager's bus. Callers must not
// hold the manager lock.
func (m *Manager) publish(events []event.Event) {
	for _, e := range events {
		m.bus.Publish(e)
	}
}
