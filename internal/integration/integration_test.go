//go:build integration

// Package integration provides end-to-end tests for the tr-migrator binary.
// These tests build the CLI and run full conversion workflows in a scratch
// workspace.
//
// Run with: go test -tags=integration ./internal/integration/...
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/zarSou9/tr-migrator/internal/tree"
)

const sampleMap = `{
  "id": "0",
  "title": "AI Safety",
  "description": "Making <i>advanced</i> systems safe",
  "breakdowns": [
    {"title": "By method", "explanation": "Grouped by technique", "sub_nodes": [
      {"title": "Alignment", "links": [{"id": "010", "reason": "overlaps"}]},
      {"title": "Interpretability"}
    ]},
    {"title": "By actor", "sub_nodes": [
      {"title": "Governance"}
    ]}
  ]
}`

// workspace is a scratch directory with a freshly built binary.
type workspace struct {
	t      *testing.T
	dir    string
	binary string
	env    []string
}

// newWorkspace builds the tr-migrator binary into a temp directory.
func newWorkspace(t *testing.T) *workspace {
	t.Helper()

	dir := t.TempDir()
	binary := filepath.Join(t.TempDir(), "tr-migrator")
	buildCmd := exec.Command("go", "build", "-o", binary, "./cmd/tr-migrator")
	buildCmd.Dir = findProjectRoot(t)
	buildCmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build tr-migrator: %v\n%s", err, output)
	}

	env := []string{"TR_MIGRATOR_CONFIG_HOME=" + t.TempDir()}
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, "TR_MIGRATOR_") {
			env = append(env, kv)
		}
	}
	return &workspace{t: t, dir: dir, binary: binary, env: env}
}

// findProjectRoot locates the project root by finding go.mod.
func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

func (w *workspace) path(name string) string {
	return filepath.Join(w.dir, filepath.FromSlash(name))
}

func (w *workspace) createFile(name, content string) {
	w.t.Helper()

	path := w.path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		w.t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		w.t.Fatalf("failed to write file %s: %v", name, err)
	}
}

func (w *workspace) command(args ...string) *exec.Cmd {
	cmd := exec.Command(w.binary, args...)
	cmd.Dir = w.dir
	cmd.Env = w.env
	return cmd
}

// run executes the binary and returns stdout, stderr and the exit code.
func (w *workspace) run(args ...string) (string, string, int) {
	w.t.Helper()

	cmd := w.command(args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return stdout.String(), stderr.String(), 0
	case errors.As(err, &exitErr):
		return stdout.String(), stderr.String(), exitErr.ExitCode()
	default:
		w.t.Fatalf("running tr-migrator %v: %v", args, err)
		return "", "", -1
	}
}

// runOK runs the binary and expects success.
func (w *workspace) runOK(args ...string) string {
	w.t.Helper()

	stdout, stderr, code := w.run(args...)
	if code != 0 {
		w.t.Fatalf("tr-migrator %v exited %d\nstdout: %s\nstderr: %s", args, code, stdout, stderr)
	}
	return stdout
}

// TestProductionRoundTrip converts a map into a map checkout, edits a node
// on disk and rebuilds the JSON into the source checkout.
func TestProductionRoundTrip(t *testing.T) {
	w := newWorkspace(t)
	w.createFile("map.json", sampleMap)
	w.createFile("map-repo/meta.json", `{"rootDir": "AI_Safety", "title": "Safety map", "description": "Research <b>map</b>"}`)

	toOut := w.runOK("--json", "to-dirs", "map.json", "--out", "map-repo")
	var toResult struct {
		RootDir    string `json:"root_dir"`
		Nodes      int    `json:"nodes"`
		Breakdowns int    `json:"breakdowns"`
	}
	if err := json.Unmarshal([]byte(toOut), &toResult); err != nil {
		t.Fatalf("failed to parse to-dirs JSON: %v\noutput: %s", err, toOut)
	}
	if toResult.Nodes != 4 || toResult.Breakdowns != 2 {
		t.Errorf("to-dirs result = %+v", toResult)
	}

	// A directory added by hand becomes a new node.
	w.createFile("map-repo/AI_Safety/By_actor./Standards/Standards.md", "### Description\n\nShared benchmarks\n")
	if err := os.MkdirAll(w.path("source-repo"), 0o755); err != nil {
		t.Fatal(err)
	}

	w.runOK("from-dirs", "--production")
	w.runOK("meta", "--production")

	root, err := tree.ReadFile(w.path("source-repo/map.json"))
	if err != nil {
		t.Fatalf("reading rebuilt map: %v", err)
	}
	if root.Title != "AI Safety" || root.Description != "Making <i>advanced</i> systems safe" {
		t.Errorf("root = %q / %q", root.Title, root.Description)
	}
	actor := root.Breakdowns[1]
	if len(actor.SubNodes) != 2 {
		t.Fatalf("By actor sub nodes = %d, want 2", len(actor.SubNodes))
	}
	added := actor.SubNodes[1]
	if added.ID != "011" || added.Title != "Standards" || added.Description != "Shared benchmarks" {
		t.Errorf("added node = %+v", added)
	}

	converted, err := os.ReadFile(w.path("source-repo/meta-converted.json"))
	if err != nil {
		t.Fatalf("reading converted meta: %v", err)
	}
	if !strings.Contains(string(converted), "Safety map") {
		t.Errorf("converted meta = %s", converted)
	}
}

// TestCycleFromBinary checks the lossless round trip through the real binary.
func TestCycleFromBinary(t *testing.T) {
	w := newWorkspace(t)
	w.createFile("map.json", sampleMap)

	stdout := w.runOK("--json", "cycle", "map.json", "--keep", "kept")
	var result struct {
		Equal bool `json:"equal"`
		Nodes int  `json:"nodes"`
	}
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("failed to parse cycle JSON: %v\noutput: %s", err, stdout)
	}
	if !result.Equal || result.Nodes != 4 {
		t.Errorf("cycle result = %+v", result)
	}
	if _, err := os.Stat(w.path("kept/AI_Safety/By_method./Alignment/Alignment.md")); err != nil {
		t.Errorf("kept directories missing: %v", err)
	}
}

func TestExitCodes(t *testing.T) {
	w := newWorkspace(t)
	w.createFile("map.json", sampleMap)
	w.createFile("broken.json", `{"title": `)
	w.runOK("to-dirs", "map.json", "--out", "out")

	tests := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{"root exists", []string{"to-dirs", "map.json", "--out", "out"}, 3},
		{"missing input", []string{"to-dirs", "nope.json", "--out", "other"}, 1},
		{"broken input", []string{"to-dirs", "broken.json", "--out", "other"}, 1},
		{"malformed id", []string{"id", "0x"}, 1},
		{"bad color", []string{"--color", "sometimes", "id", "0"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, code := w.run(tt.args...)
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d\nstderr: %s", code, tt.wantCode, stderr)
			}
		})
	}
}

func TestJSONErrorsOnStdout(t *testing.T) {
	w := newWorkspace(t)

	stdout, _, code := w.run("--json", "id", "1")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	var result struct {
		Error string `json:"error"`
		Code  int    `json:"code"`
	}
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("stdout should hold one JSON error: %v\noutput: %s", err, stdout)
	}
	if result.Code != 1 || result.Error == "" {
		t.Errorf("error result = %+v", result)
	}
}

// TestServeOverStdio drives the MCP server as a subprocess.
func TestServeOverStdio(t *testing.T) {
	w := newWorkspace(t)
	w.createFile("map.json", sampleMap)

	ctx := context.Background()
	client := mcp.NewClient(&mcp.Implementation{Name: "integration-client"}, nil)
	session, err := client.Connect(ctx, &mcp.CommandTransport{Command: w.command("serve")}, nil)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer session.Close() //nolint:errcheck // test cleanup

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "resolve_link",
		Arguments: map[string]any{"map_path": w.path("map.json"), "id": "001"},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if result.IsError {
		t.Fatalf("resolve_link returned an error: %+v", result.Content)
	}
	raw, err := json.Marshal(result.StructuredContent)
	if err != nil {
		t.Fatal(err)
	}
	var resolved struct {
		Found bool   `json:"found"`
		Path  string `json:"path"`
	}
	if err := json.Unmarshal(raw, &resolved); err != nil {
		t.Fatal(err)
	}
	if !resolved.Found || resolved.Path != "AI_Safety/By_method./Interpretability/Interpretability.md" {
		t.Errorf("resolve_link = %+v", resolved)
	}
}
