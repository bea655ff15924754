package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildRootCmdIncludesSubcommands(t *testing.T) {
	cmd := buildRootCmd()
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}

	required := []string{"create", "step", "export", "import", "sync"}
	for _, name := range required {
		if !names[name] {
			t.Fatalf("expected subcommand %q to be registered", name)
		}
	}
}

func TestSyncHasPushAndPull(t *testing.T) {
	cmd := buildRootCmd()
	for _, sub := range cmd.Commands() {
		if sub.Name() != "sync" {
			continue
		}
		names := map[string]bool{}
		for _, child := range sub.Commands() {
			names[child.Name()] = true
		}
		if !names["push"] || !names["pull"] {
			t.Fatalf("expected sync push and pull subcommands, got %+v", names)
		}
		return
	}
	t.Fatal("sync command not found")
}

// TestCreateStepExportRoundTrip exercises create -> step -> export against
// a scratch SQLite file, the same flow a user would run by hand.
func TestCreateStepExportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "lettalite.db")
	configPath := filepath.Join(dir, "config.yaml")
	configYAML := fmt.Sprintf("storage:\n  path: %q\n  max_connections: 1\n", dbPath)
	if err := os.WriteFile(configPath, []byte(configYAML), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var createOut bytes.Buffer
	createCmd := buildRootCmd()
	createCmd.SetArgs([]string{"create", "--name", "tester", "--config", configPath})
	createCmd.SetOut(&createOut)
	if err := createCmd.Execute(); err != nil {
		t.Fatalf("create: %v", err)
	}

	fields := strings.Fields(createOut.String())
	if len(fields) < 3 {
		t.Fatalf("unexpected create output: %q", createOut.String())
	}
	agentID := fields[2]

	var stepOut bytes.Buffer
	stepCmd := buildRootCmd()
	stepCmd.SetArgs([]string{"step", "--config", configPath, "--agent", agentID, "hello there"})
	stepCmd.SetOut(&stepOut)
	if err := stepCmd.Execute(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if stepOut.String() == "" {
		t.Fatal("expected non-empty step reply")
	}

	var exportOut bytes.Buffer
	exportCmd := buildRootCmd()
	exportCmd.SetArgs([]string{"export", "--config", configPath, "--agent", agentID})
	exportCmd.SetOut(&exportOut)
	if err := exportCmd.Execute(); err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(exportOut.String(), agentID) {
		t.Fatalf("expected export to mention agent id %s", agentID)
	}
}
