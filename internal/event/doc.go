// Package event provides a pub-sub event bus for decoupled communication
// between the repository registry and its consumers.
//
// The registry publishes events as repositories are opened, closed, evicted,
// and activated. Consumers such as the CLI, state mirrors, or log observers
// subscribe to the events they care about without the registry knowing who
// they are.
//
// # Main Types
//
//   - [Event]: Interface that all events must implement, providing EventType() and Timestamp()
//   - [Bus]: Synchronous pub-sub event dispatcher with thread-safe operations
//   - [Handler]: Function type for event handlers (func(Event))
//
// # Event Categories
//
// Repository lifecycle:
//   - [RepositoryOpenedEvent]: Emitted when a repository is registered
//   - [RepositoryClosedEvent]: Emitted when a repository is closed explicitly
//   - [RepositoryEvictedEvent]: Emitted when a background repository is evicted
//
// Registry state:
//   - [ActiveChangedEvent]: Emitted when the active repository changes
//   - [RegistryChangedEvent]: Emitted after every registry mutation
//
// # Ordering
//
// Publishing is synchronous. For a single mutation the registry publishes
// specific lifecycle events first and [RegistryChangedEvent] last, so a
// subscriber to "registry.active_changed" always observes the new active
// repository before any "registry.changed" subscriber runs. Within one
// Publish call, handlers subscribed to the exact event type run before
// wildcard handlers, each group in registration order.
//
// # Thread Safety
//
// The [Bus] type is safe for concurrent use. Multiple goroutines can publish
// and subscribe concurrently. Handlers are called synchronously and protected
// against panics - a panicking handler will not prevent other handlers from
// being called.
//
// # Basic Usage
//
//	bus := event.NewBus()
//
//	// Subscribe to specific event types
//	bus.Subscribe("repository.opened", func(e event.Event) {
//	    opened := e.(event.RepositoryOpenedEvent)
//	    log.Printf("Opened %s at %s", opened.Name, opened.Path)
//	})
//
//	// Subscribe to all events (useful for logging)
//	bus.SubscribeAll(func(e event.Event) {
//	    log.Printf("Event: %s at %v", e.EventType(), e.Timestamp())
//	})
//
//	// Publish events
//	bus.Publish(event.NewRepositoryOpenedEvent("a1b2c3d4", "gitdock", "/work/gitdock", "local", "github"))
//
//	// Unsubscribe when done
//	id := bus.Subscribe("registry.changed", handler)
//	bus.Unsubscribe(id)
//
// # Event Type Naming Convention
//
// Event types follow the pattern "category.action":
//   - repository.opened, repository.closed, repository.evicted
//   - registry.active_changed, registry.changed
package event
