package event

import (
	"testing"
	"time"
)

func TestEventTypes(t *testing.T) {
	tests := []struct {
		name     string
		event    Event
		wantType string
	}{
		{
			name:     "repository opened",
			event:    NewRepositoryOpenedEvent("a1b2c3d4", "gitdock", "/work/gitdock", "local", "github"),
			wantType: "repository.opened",
		},
		{
			name:     "repository closed",
			event:    NewRepositoryClosedEvent("a1b2c3d4", "gitdock", "/work/gitdock"),
			wantType: "repository.closed",
		},
		{
			name:     "repository evicted",
			event:    NewRepositoryEvictedEvent("a1b2c3d4", "gitdock", "/work/gitdock"),
			wantType: "repository.evicted",
		},
		{
			name:     "active changed",
			event:    NewActiveChangedEvent("a1b2c3d4", "gitdock", "/work/gitdock", true),
			wantType: "registry.active_changed",
		},
		{
			name:     "registry changed",
			event:    NewRegistryChangedEvent(OpOpen),
			wantType: "registry.changed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.EventType(); got != tt.wantType {
				t.Errorf("EventType() = %q, want %q", got, tt.wantType)
			}
			if tt.event.Timestamp().IsZero() {
				t.Error("Timestamp() should not be zero")
			}
			if time.Since(tt.event.Timestamp()) > time.Minute {
				t.Error("Timestamp() should be recent")
			}
		})
	}
}

func TestActiveChangedEvent_Cleared(t *testing.T) {
	e := NewActiveChangedEvent("", "", "", false)

	if e.Active {
		t.Error("Active should be false for a cleared slot")
	}
	if e.RepositoryID != "" || e.Name != "" || e.Path != "" {
		t.Error("Cleared event should carry no repository identity")
	}
}

func TestRegistryChangedEvent_Ops(t *testing.T) {
	ops := []Op{OpOpen, OpAddRemote, OpSetActive, OpClose}
	seen := make(map[Op]bool)
	for _, op := range ops {
		e := NewRegistryChangedEvent(op)
		if e.Op != op {
			t.Errorf("Op = %q, want %q", e.Op, op)
		}
		if seen[op] {
			t.Errorf("Duplicate op constant: %q", op)
		}
		seen[op] = true
	}
}
