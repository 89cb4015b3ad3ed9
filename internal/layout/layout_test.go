package layout

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/zarSou9/tr-migrator/internal/tree"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Reward Modeling", "Reward_Modeling"},
		{"  padded  ", "padded"},
		{"RLHF / DPO", "RLHF___DPO"},
		{"What's next?", "What_s_next_"},
		{"v1.2-beta", "v1.2-beta"},
		{"Café au lait", "Café_au_lait"},
		{"", "_"},
		{"..", "__"},
	}
	for _, tt := range tests {
		if got := Sanitize(tt.title); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestDesanitize(t *testing.T) {
	if got := Desanitize("Reward_Modeling"); got != "Reward Modeling" {
		t.Errorf("Desanitize = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		s    string
		max  int
		end  string
		want string
	}{
		{"short", 18, "_", "short"},
		{"exactly eighteen!!", 18, "_", "exactly eighteen!!"},
		{"Attention Is All You Need", 18, "_", "Attention Is All Y_"},
		{"Attention Is All You Need_", 18, "_", "Attention Is All Y"},
		{"ééééé", 3, "...", "ééé..."},
	}
	for _, tt := range tests {
		if got := Truncate(tt.s, tt.max, tt.end); got != tt.want {
			t.Errorf("Truncate(%q) = %q, want %q", tt.s, got, tt.want)
		}
	}
}

func TestContentNamesDedupe(t *testing.T) {
	l := New("")
	nodes := []tree.Node{{Title: "Alpha"}, {Title: "alpha"}, {Title: "Alpha?"}, {Title: "Alpha_"}, {Title: "Beta."}}
	got := l.ContentNames(nodes)
	want := []string{"Alpha", "alpha1", "Alpha_", "Alpha_1", "Beta_"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ContentNames = %q, want %q", got, want)
	}
}

func TestBreakdownNames(t *testing.T) {
	l := New(".")
	paper := json.RawMessage(`{"title":"Attention Is All You Need"}`)
	breakdowns := []tree.Breakdown{
		{Title: "By method"},
		{Paper: paper},
		{Paper: paper},
		{Explanation: "no paper"},
	}
	got := l.BreakdownNames(breakdowns)
	want := []string{"By_method.", "Untitled_Attention_Is_All_Y_.", "Untitled_Attention_Is_All_Y_1.", "Untitled."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BreakdownNames = %q, want %q", got, want)
	}
}

func TestPlan(t *testing.T) {
	l := New("")
	single := &tree.Node{Title: "P", Breakdowns: []tree.Breakdown{{SubNodes: []tree.Node{{Title: "B"}, {Title: "A"}}}}}
	got := l.Plan(single)
	want := []Group{{Children: []string{"B", "A"}}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Plan(single) = %+v, want %+v", got, want)
	}

	multi := &tree.Node{Title: "P", Breakdowns: []tree.Breakdown{
		{Title: "One", SubNodes: []tree.Node{{Title: "A"}}},
		{Title: "Two", SubNodes: []tree.Node{{Title: "A"}}},
	}}
	got = l.Plan(multi)
	want = []Group{{Dir: "One.", Children: []string{"A"}}, {Dir: "Two.", Children: []string{"A"}}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Plan(multi) = %+v, want %+v", got, want)
	}

	if got := l.Plan(&tree.Node{Title: "leaf"}); got != nil {
		t.Errorf("Plan(leaf) = %+v, want nil", got)
	}
}

func TestTitleSections(t *testing.T) {
	tests := []struct {
		name  string
		title string
		dir   string
		want  bool
	}{
		{"plain", "Reward Modeling", "Reward_Modeling", false},
		{"lossy", "RLHF / DPO", "RLHF___DPO", true},
		{"deduped", "Alpha", "Alpha1", true},
		{"underscore in title", "snake_case", "snake_case", true},
	}
	for _, tt := range tests {
		if got := NeedsTitleSection(tt.title, tt.dir); got != tt.want {
			t.Errorf("%s: NeedsTitleSection = %v, want %v", tt.name, got, tt.want)
		}
	}

	if NeedsBreakdownTitleSection("", "Untitled_X") {
		t.Error("anonymous breakdown should not need a Title section")
	}
	if !NeedsBreakdownTitleSection("Untitled work", "Untitled_work") {
		t.Error("titled breakdown with an anonymous-looking stem needs a Title section")
	}
	if NeedsBreakdownTitleSection("By method", "By_method") {
		t.Error("plain breakdown title should not need a Title section")
	}
	if got := BreakdownTitle("Untitled_X"); got != "" {
		t.Errorf("BreakdownTitle(anonymous) = %q", got)
	}
	if got := BreakdownTitle("By_method"); got != "By method" {
		t.Errorf("BreakdownTitle = %q", got)
	}
}

func TestPlaceholder(t *testing.T) {
	p := Placeholder(`Deep "RL" survey`)
	got, ok := ParsePlaceholder(p)
	if !ok || got != `Deep "RL" survey` {
		t.Errorf("ParsePlaceholder(%q) = %q, %v", p, got, ok)
	}
	if _, ok := ParsePlaceholder("Alpha"); ok {
		t.Error("plain name is not a placeholder")
	}
	if got, ok := ParsePlaceholder(Placeholder("")); !ok || got != "" {
		t.Errorf("empty placeholder = %q, %v", got, ok)
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Beta", "Alpha", "Group.", "Zeta_"} {
		if err := os.Mkdir(filepath.Join(dir, name), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := New("").Scan(dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	if want := []string{"Alpha", "Beta", "Group.", "Zeta_"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("names = %q, want %q", names, want)
	}

	group := entries[2]
	if group.Kind != BreakdownGroup || group.Stem != "Group" {
		t.Errorf("group entry = %+v", group)
	}
	if want := filepath.Join(dir, "Group.", "Group.md"); group.MarkdownPath != want {
		t.Errorf("MarkdownPath = %q, want %q", group.MarkdownPath, want)
	}
	if entries[0].Kind != ContentNode || entries[0].MarkdownPath != filepath.Join(dir, "Alpha", "Alpha.md") {
		t.Errorf("content entry = %+v", entries[0])
	}
}

func TestScanCustomSuffix(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Methods__bd", "Plain."} {
		if err := os.Mkdir(filepath.Join(dir, name), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := New("__bd").Scan(dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if entries[0].Kind != BreakdownGroup || entries[0].Stem != "Methods" {
		t.Errorf("entry = %+v", entries[0])
	}
	if entries[1].Kind != ContentNode {
		t.Errorf("Plain. should be content with a custom suffix, got %v", entries[1].Kind)
	}
}

func TestCheckSuffix(t *testing.T) {
	for _, ok := range []string{".", "__bd", "-group", "2x"} {
		if err := CheckSuffix(ok); err != nil {
			t.Errorf("CheckSuffix(%q) = %v", ok, err)
		}
	}
	for _, bad := range []string{"/", " .", "a\\b", "@", "1", "_v2"} {
		if err := CheckSuffix(bad); err == nil {
			t.Errorf("CheckSuffix(%q) should fail", bad)
		}
	}
}
