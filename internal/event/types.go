package event

import "time"

// Event is the interface that all events must implement.
// It provides a common way to identify and timestamp events.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "repository.opened", "registry.changed")
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

// newBaseEvent creates a baseEvent with the current time.
func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Repository Lifecycle Events
// -----------------------------------------------------------------------------

// RepositoryOpenedEvent is emitted when a repository is registered,
// whether opened from a local path or added from remote metadata.
type RepositoryOpenedEvent struct {
	baseEvent
	RepositoryID string // Unique identifier for the repository context
	Name         string // Repository name (directory name or remote repo name)
	Path         string // Local worktree root (empty for remote repositories)
	Kind         string // "local" or "remote"; mirrors repoctx.Kind for decoupling
	Provider     string // Hosting provider ("github", "gitlab", ...) or "local"
}

// NewRepositoryOpenedEvent creates a RepositoryOpenedEvent.
func NewRepositoryOpenedEvent(repositoryID, name, path, kind, provider string) RepositoryOpenedEvent {
	return RepositoryOpenedEvent{
		baseEvent:    newBaseEvent("repository.opened"),
		RepositoryID: repositoryID,
		Name:         name,
		Path:         path,
		Kind:         kind,
		Provider:     provider,
	}
}

// RepositoryClosedEvent is emitted when a repository is closed explicitly.
type RepositoryClosedEvent struct {
	baseEvent
	RepositoryID string // Unique identifier for the repository context
	Name         string // Repository name
	Path         string // Local worktree root (empty for remote repositories)
}

// NewRepositoryClosedEvent creates a RepositoryClosedEvent.
func NewRepositoryClosedEvent(repositoryID, name, path string) RepositoryClosedEvent {
	return RepositoryClosedEvent{
		baseEvent:    newBaseEvent("repository.closed"),
		RepositoryID: repositoryID,
		Name:         name,
		Path:         path,
	}
}

// RepositoryEvictedEvent is emitted when the registry removes a background
// repository to stay within its capacity bound.
type RepositoryEvictedEvent struct {
	baseEvent
	RepositoryID string // Unique identifier for the repository context
	Name         string // Repository name
	Path         string // Local worktree root (empty for remote repositories)
}

// NewRepositoryEvictedEvent creates a RepositoryEvictedEvent.
func NewRepositoryEvictedEvent(repositoryID, name, path string) RepositoryEvictedEvent {
	return RepositoryEvictedEvent{
		baseEvent:    newBaseEvent("repository.evicted"),
		RepositoryID: repositoryID,
		Name:         name,
		Path:         path,
	}
}

// -----------------------------------------------------------------------------
// Registry State Events
// -----------------------------------------------------------------------------

// ActiveChangedEvent is emitted when the active repository changes.
// Subscribers that mirror the active path elsewhere key on this event.
type ActiveChangedEvent struct {
	baseEvent
	RepositoryID string // New active repository (empty when the slot was cleared)
	Name         string // Repository name (empty when the slot was cleared)
	Path         string // Local worktree root (empty for remote or cleared)
	Active       bool   // False when the last repository closed and nothing is active
}

// NewActiveChangedEvent creates an ActiveChangedEvent.
func NewActiveChangedEvent(repositoryID, name, path string, active bool) ActiveChangedEvent {
	return ActiveChangedEvent{
		baseEvent:    newBaseEvent("registry.active_changed"),
		RepositoryID: repositoryID,
		Name:         name,
		Path:         path,
		Active:       active,
	}
}

// Op identifies which registry operation produced a RegistryChangedEvent.
type Op string

const (
	OpOpen      Op = "open"
	OpAddRemote Op = "add_remote"
	OpSetActive Op = "set_active"
	OpClose     Op = "close"
)

// RegistryChangedEvent is emitted after every registry mutation, once all
// indices, the active pointer, and the epoch are consistent. It always
// follows the more specific lifecycle events for the same mutation.
type RegistryChangedEvent struct {
	baseEvent
	Op Op // Operation that mutated the registry
}

// NewRegistryChangedEvent creates a RegistryChangedEvent.
func NewRegistryChangedEvent(op Op) RegistryChangedEvent {
	return RegistryChangedEvent{
		baseEvent: newBaseEvent("registry.changed"),
		Op:        op,
	}
}
