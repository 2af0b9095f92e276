package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSeedCommand(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "seed.yaml")
	content := `
user:
  username: demo
  password: demo
employees:
  - name: Alice
events:
  - title: Kickoff
    start: 2025-04-06T14:00:00Z
    end: 2025-04-06T15:00:00Z
    assigned_to: Alice
`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write seed file: %v", err)
	}

	t.Setenv("JWT_SECRET", "jwt")
	t.Setenv("API_MASTER_SECRET", "feed")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATA_PATH", filepath.Join(dir, "calendar.db"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("GIN_MODE", "test")

	for run := 0; run < 2; run++ {
		var out bytes.Buffer
		cmd := newRootCmd()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"seed", file})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("seed run %d failed: %v", run, err)
		}
		if !strings.Contains(out.String(), "Seeded 1 employees and 1 events") {
			t.Errorf("Unexpected output: %q", out.String())
		}
	}
}

func TestSeedCommand_RequiresOwner(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "seed.yaml")
	if err := os.WriteFile(file, []byte("employees: []\n"), 0o644); err != nil {
		t.Fatalf("failed to write seed file: %v", err)
	}
	t.Setenv("JWT_SECRET", "jwt")
	t.Setenv("API_MASTER_SECRET", "feed")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATA_PATH", filepath.Join(dir, "calendar.db"))
	t.Setenv("LOG_LEVEL", "error")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"seed", file})
	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "--owner") {
		t.Errorf("Expected an owner error, got %v", err)
	}
}
