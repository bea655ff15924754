package sync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/haasonsaas/letta-lite/internal/agentfile"
)

func testAgentFile() agentfile.AgentFileV1 {
	return agentfile.AgentFileV1{
		Version: agentfile.Version,
		Agents:  []agentfile.AgentExport{{ID: "agent-1", Name: "assistant"}},
		Metadata: agentfile.Metadata{
			LettaVersion: "0.1.0",
			ExportSource: agentfile.ExportSource,
		},
	}
}

func TestPush_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		if r.URL.Path != "/v1/agents/agent-1/import" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(Config{Endpoint: srv.URL, APIKey: "test-key"})
	if err := c.Push(context.Background(), testAgentFile()); err != nil {
		t.Fatalf("Push error: %v", err)
	}
}

func TestPush_NonTwoXXIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(Config{Endpoint: srv.URL, APIKey: "test-key"})
	if err := c.Push(context.Background(), testAgentFile()); err == nil {
		t.Fatal("expected error on 500 response")
	}
}

func TestPull_404ReturnsNilNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(Config{Endpoint: srv.URL, APIKey: "test-key"})
	af, err := c.Pull(context.Background(), "agent-1")
	if err != nil {
		t.Fatalf("Pull error: %v", err)
	}
	if af != nil {
		t.Errorf("Pull() = %+v, want nil", af)
	}
}

func TestPull_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/agents/agent-1/export" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"version":"0.1.0","agents":[{"id":"agent-1","name":"assistant"}],"blocks":[],"metadata":{"letta_version":"0.1.0","export_time":"2026-01-01T00:00:00Z","export_source":"letta-lite"}}`))
	}))
	defer srv.Close()

	c := New(Config{Endpoint: srv.URL, APIKey: "test-key"})
	af, err := c.Pull(context.Background(), "agent-1")
	if err != nil {
		t.Fatalf("Pull error: %v", err)
	}
	if af == nil || len(af.Agents) != 1 || af.Agents[0].ID != "agent-1" {
		t.Errorf("Pull() = %+v", af)
	}
}

func TestSync_ReturnsParsedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/agents/sync" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"cloud_version":3,"conflicts":[],"status":"ok"}`))
	}))
	defer srv.Close()

	c := New(Config{Endpoint: srv.URL, APIKey: "test-key"})
	resp, err := c.Sync(context.Background(), testAgentFile(), 2)
	if err != nil {
		t.Fatalf("Sync error: %v", err)
	}
	if resp.CloudVersion != 3 || resp.Status != "ok" {
		t.Errorf("Sync() = %+v", resp)
	}
}

func TestResolveConflict_LastWriteWins(t *testing.T) {
	c := New(Config{ConflictResolution: "last-write-wins"})
	got := c.ResolveConflict(ConflictInfo{LocalValue: "local", CloudValue: "cloud"})
	if got != "local" {
		t.Errorf("ResolveConflict() = %v, want local", got)
	}
}

func TestResolveConflict_CloudWins(t *testing.T) {
	c := New(Config{ConflictResolution: "cloud-wins"})
	got := c.ResolveConflict(ConflictInfo{LocalValue: "local", CloudValue: "cloud"})
	if got != "cloud" {
		t.Errorf("ResolveConflict() = %v, want cloud", got)
	}
}

func TestResolveConflict_MergeShallowMergesObjects(t *testing.T) {
	c := New(Config{ConflictResolution: "merge"})
	got := c.ResolveConflict(ConflictInfo{
		LocalValue: map[string]any{"a": 1.0},
		CloudValue: map[string]any{"b": 2.0},
	})
	merged, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("ResolveConflict() = %T, want map", got)
	}
	if merged["a"] != 1.0 || merged["b"] != 2.0 {
		t.Errorf("merged = %+v", merged)
	}
}

func TestResolveConflict_MergeFallsBackToLocalWhenNotObjects(t *testing.T) {
	c := New(Config{ConflictResolution: "merge"})
	got := c.ResolveConflict(ConflictInfo{LocalValue: "local", CloudValue: "cloud"})
	if got != "local" {
		t.Errorf("ResolveConflict() = %v, want local", got)
	}
}

func TestResolveConflict_UnknownPolicyFallsBackToLocal(t *testing.T) {
	c := New(Config{ConflictResolution: "whatever"})
	got := c.ResolveConflict(ConflictInfo{LocalValue: "local", CloudValue: "cloud"})
	if got != "local" {
		t.Errorf("ResolveConflict() = %v, want local", got)
	}
}
