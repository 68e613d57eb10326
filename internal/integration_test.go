// Package internal contains integration tests that verify the refactored
// packages work together over real on-disk repositories: factory detection
// feeding the registry, epoch accounting, eviction, and event delivery.
package internal

import (
	"testing"

	"github.com/gitdock/gitdock/internal/event"
	"github.com/gitdock/gitdock/internal/registry"
	"github.com/gitdock/gitdock/internal/repoctx"
	"github.com/gitdock/gitdock/internal/testutil"
)

func newIntegrationManager(t *testing.T, maxOpen int) *registry.Manager {
	t.Helper()
	return registry.NewManager(registry.Config{
		MaxOpen: maxOpen,
		Factory: repoctx.NewFactory("origin", nil),
	})
}

// TestRegistryEndToEnd walks the full open/switch/close lifecycle over real
// repositories and checks the epoch at every step.
func TestRegistryEndToEnd(t *testing.T) {
	repoA := testutil.InitRepoWithCommit(t, "main")
	repoB := testutil.InitRepoWithCommit(t, "main")
	manager := newIntegrationManager(t, 12)

	ctxA, err := manager.Open(repoA, true)
	if err != nil {
		t.Fatalf("Open(a) failed: %v", err)
	}
	if got := manager.Active(); got == nil || got.ID != ctxA.ID {
		t.Fatalf("active after Open(a) = %v, want %s", got, ctxA.ID)
	}
	if manager.Epoch() != 1 {
		t.Fatalf("epoch after Open(a) = %d, want 1", manager.Epoch())
	}

	ctxB, err := manager.Open(repoB, true)
	if err != nil {
		t.Fatalf("Open(b) failed: %v", err)
	}
	if manager.Epoch() != 2 {
		t.Fatalf("epoch after Open(b) = %d, want 2", manager.Epoch())
	}

	if !manager.SetActive(ctxA.ID) {
		t.Fatal("SetActive(a) returned false")
	}
	if manager.Epoch() != 3 {
		t.Fatalf("epoch after SetActive(a) = %d, want 3", manager.Epoch())
	}

	// Closing a background context does not disturb the active context.
	if !manager.Close(ctxB.ID) {
		t.Fatal("Close(b) returned false")
	}
	if manager.Epoch() != 3 {
		t.Fatalf("epoch after Close(b) = %d, want 3 (unchanged)", manager.Epoch())
	}
	if got := manager.Active(); got == nil || got.ID != ctxA.ID {
		t.Fatalf("active after Close(b) changed, want %s", ctxA.ID)
	}

	if !manager.Close(ctxA.ID) {
		t.Fatal("Close(a) returned false")
	}
	if manager.Active() != nil {
		t.Fatal("active after closing the last context is not nil")
	}
	if manager.Epoch() != 4 {
		t.Fatalf("epoch after Close(a) = %d, want 4", manager.Epoch())
	}
	if _, err := manager.RequireActive(); err == nil {
		t.Fatal("RequireActive succeeded on an empty registry")
	}
}

// TestRegistryFactoryDetection checks that remote and branch detection made
// by the factory arrives intact in registry summaries.
func TestRegistryFactoryDetection(t *testing.T) {
	repo := testutil.InitRepoWithCommit(t, "main")
	testutil.AddRemote(t, repo, "origin", "git@github.com:octocat/hello-world.git")
	manager := newIntegrationManager(t, 12)

	ctx, err := manager.Open(repo, true)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if ctx.Metadata.Provider != repoctx.ProviderGitHub {
		t.Errorf("provider = %s, want github", ctx.Metadata.Provider)
	}
	if ctx.FullName() != "octocat/hello-world" {
		t.Errorf("full name = %q, want octocat/hello-world", ctx.FullName())
	}

	summaries := manager.Summaries()
	if len(summaries) != 1 {
		t.Fatalf("len(summaries) = %d, want 1", len(summaries))
	}
	s := summaries[0]
	if !s.Active || s.Provider != repoctx.ProviderGitHub || s.Remote == nil {
		t.Errorf("summary = %+v, want active github summary with remote", s)
	}
}

// TestRegistryEvictionBound opens one more repository than the capacity and
// checks the first-opened background repository is gone.
func TestRegistryEvictionBound(t *testing.T) {
	const capacity = 4
	manager := newIntegrationManager(t, capacity)

	ids := make([]string, 0, capacity+1)
	for i := 0; i <= capacity; i++ {
		repo := testutil.InitRepoWithCommit(t, "main")
		ctx, err := manager.Open(repo, true)
		if err != nil {
			t.Fatalf("Open #%d failed: %v", i, err)
		}
		ids = append(ids, ctx.ID)
	}

	if manager.Len() != capacity {
		t.Fatalf("Len() = %d, want %d", manager.Len(), capacity)
	}
	if manager.Get(ids[0]) != nil {
		t.Error("first-opened repository survived eviction")
	}
	if manager.Get(ids[capacity]) == nil {
		t.Error("last-opened repository missing")
	}
}

// TestRegistrySubscriberOrdering verifies that active-change subscribers
// observe a switch before change subscribers for the same mutation.
func TestRegistrySubscriberOrdering(t *testing.T) {
	repo := testutil.InitRepoWithCommit(t, "main")
	bus := event.NewBus()
	manager := registry.NewManager(registry.Config{
		MaxOpen: 12,
		Factory: repoctx.NewFactory("origin", nil),
		Bus:     bus,
	})

	var order []string
	unsubActive := manager.OnActiveChange(func(path string) {
		order = append(order, "active:"+path)
	})
	defer unsubActive()
	unsubChange := manager.OnChange(func() {
		order = append(order, "change")
	})
	defer unsubChange()

	ctx, err := manager.Open(repo, true)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if len(order) != 2 {
		t.Fatalf("order = %v, want 2 notifications", order)
	}
	if order[0] != "active:"+ctx.Path() {
		t.Errorf("first notification = %q, want active-change with path", order[0])
	}
	if order[1] != "change" {
		t.Errorf("second notification = %q, want change", order[1])
	}
}
