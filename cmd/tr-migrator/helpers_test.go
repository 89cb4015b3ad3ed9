package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

const sampleMap = `{
  "id": "0",
  "title": "AI Safety",
  "description": "Making <i>advanced</i> systems safe",
  "breakdowns": [
    {"title": "By method", "sub_nodes": [
      {"title": "Alignment", "links": [{"id": "010", "reason": "overlaps"}]},
      {"title": "Interpretability"}
    ]},
    {"title": "By actor", "sub_nodes": [
      {"title": "Governance", "links": [{"id": "009"}]}
    ]}
  ]
}`

// isolate points config lookup at an empty directory and clears settings
// from the environment so tests see built-in defaults.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("TR_MIGRATOR_CONFIG_HOME", t.TempDir())
	for _, key := range []string{
		"TR_MIGRATOR_BREAKDOWNS_IDENTIFIER",
		"TR_MIGRATOR_CONVERT_HTML",
		"TR_MIGRATOR_PRESERVE_ORDER",
		"TR_MIGRATOR_VALIDATE_SCHEMA",
	} {
		t.Setenv(key, "")
	}
}

// runCLI executes the root command with args and returns stdout, stderr and
// the returned error.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func decodeJSON(t *testing.T, s string) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		t.Fatalf("parsing JSON output: %v\noutput: %s", err, s)
	}
	return out
}
