package repoctx

import (
	"testing"
	"time"
)

func TestProviderForHost(t *testing.T) {
	tests := []struct {
		host string
		want Provider
	}{
		{"github.com", ProviderGitHub},
		{"GITHUB.COM", ProviderGitHub},
		{"github.acme-enterprise.com", ProviderGitHub},
		{"gitlab.com", ProviderGitLab},
		{"gitlab.internal.io", ProviderGitLab},
		{"bitbucket.org", ProviderBitbucket},
		{"dev.azure.com", ProviderAzure},
		{"company.visualstudio.com", ProviderAzure},
		{"git.internal.corp", ProviderLocal},
		{"", ProviderLocal},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			if got := ProviderForHost(tt.host); got != tt.want {
				t.Errorf("Expected %s for host %q, got %s", tt.want, tt.host, got)
			}
		})
	}
}

func TestContext_Path(t *testing.T) {
	local := &Context{
		Kind:  KindLocal,
		Local: &Local{Path: "/work/gitdock"},
	}
	if got := local.Path(); got != "/work/gitdock" {
		t.Errorf("Expected /work/gitdock, got %q", got)
	}

	remote := &Context{Kind: KindRemote}
	if got := remote.Path(); got != "" {
		t.Errorf("Expected empty path for remote context, got %q", got)
	}
}

func TestContext_IsLocal(t *testing.T) {
	if !(&Context{Kind: KindLocal}).IsLocal() {
		t.Error("Expected local context to report IsLocal")
	}
	if (&Context{Kind: KindRemote}).IsLocal() {
		t.Error("Expected remote context to not report IsLocal")
	}
}

func TestContext_FullName(t *testing.T) {
	ctx := &Context{
		Remote: &RemoteRef{Owner: "gitdock", Repo: "gitdock", FullName: "gitdock/gitdock"},
	}
	if got := ctx.FullName(); got != "gitdock/gitdock" {
		t.Errorf("Expected gitdock/gitdock, got %q", got)
	}

	bare := &Context{}
	if got := bare.FullName(); got != "" {
		t.Errorf("Expected empty full name, got %q", got)
	}
}

func TestNewContextID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := newContextID()
		if len(id) != 8 {
			t.Fatalf("Expected 8-character id, got %q", id)
		}
		if seen[id] {
			t.Fatalf("Duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestMetadata_LastFetchedZeroForLocal(t *testing.T) {
	meta := Metadata{Name: "gitdock", DefaultBranch: "main", Provider: ProviderLocal}
	if !meta.LastFetched.IsZero() {
		t.Errorf("Expected zero LastFetched, got %v", meta.LastFetched)
	}
	if meta.LastFetched.After(time.Now()) {
		t.Error("Zero LastFetched should not be in the future")
	}
}
