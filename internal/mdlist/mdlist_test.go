package mdlist

import (
	"slices"
	"testing"
)

func TestParse_Nesting(t *testing.T) {
	list := Parse("- a\n\t- b\n\t- c\n- d", nil, nil)

	if list.Kind != KindUnordered {
		t.Fatalf("Kind = %v, want unordered", list.Kind)
	}
	if got := list.Texts(); !slices.Equal(got, []string{"a", "d"}) {
		t.Fatalf("top-level texts = %v, want [a d]", got)
	}
	child := list.Items[0].Child
	if child == nil {
		t.Fatal("item a has no child list")
	}
	if got := child.Texts(); !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("child texts = %v, want [b c]", got)
	}
	if list.Items[1].Child != nil {
		t.Error("item d should not have a child list")
	}
}

func TestParse_OrderedFillerOverride(t *testing.T) {
	filler := []string{"Alpha", "Beta", "Gamma"}
	list := Parse("1. Gamma\n2. Alpha\n3. Beta", nil, filler)

	if got := list.Texts(); !slices.Equal(got, []string{"Gamma", "Alpha", "Beta"}) {
		t.Errorf("resolved order = %v, want [Gamma Alpha Beta]", got)
	}
	if !slices.Equal(filler, []string{"Alpha", "Beta", "Gamma"}) {
		t.Errorf("filler was mutated: %v", filler)
	}
}

func TestParse_OrderedPartialOverride(t *testing.T) {
	// Only the first slot is pinned; the rest of the default order stays.
	list := Parse("1. Gamma", nil, []string{"Alpha", "Beta", "Gamma"})

	if got := list.Texts(); !slices.Equal(got, []string{"Gamma", "Alpha", "Beta"}) {
		t.Errorf("resolved order = %v, want [Gamma Alpha Beta]", got)
	}
}

func TestParse_OrderedWithoutFillerAppends(t *testing.T) {
	list := Parse("3. c\n1. a", nil, nil)

	if list.Kind != KindOrdered {
		t.Fatalf("Kind = %v, want ordered", list.Kind)
	}
	if got := list.Texts(); !slices.Equal(got, []string{"c", "a"}) {
		t.Errorf("texts = %v, want [c a]", got)
	}
}

func TestParse_SkipsInvalidLines(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		prefixes []string
		want     []string
	}{
		{name: "prose between bullets", text: "- a\nnot a bullet\n- b", want: []string{"a", "b"}},
		{name: "star bullets", text: "* a\n* b", want: []string{"a", "b"}},
		{name: "custom prefixes reject dash", text: "+ a\n- b", prefixes: []string{"+"}, want: []string{"a"}},
		{name: "bullet in ordered list", text: "1. a\n- b\n2. c", want: []string{"a", "c"}},
		{name: "zero numeral", text: "1. a\n0. b", want: []string{"a"}},
		{name: "multi-digit numeral", text: "1. a\n12. b", want: []string{"a", "b"}},
		{name: "blank lines", text: "- a\n\n\n- b\n", want: []string{"a", "b"}},
		{name: "empty", text: "  \n ", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text, tt.prefixes, nil).Texts()
			if !slices.Equal(got, tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestParse_ChildAcrossBlankLine(t *testing.T) {
	list := Parse("- [Node](/Root/Node/Node.md)\n\n\t- Reason: shared method\n- [Other](/Root/Other/Other.md)", nil, nil)

	if list.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", list.Len())
	}
	child := list.Items[0].Child
	if child == nil || child.Len() != 1 || child.Items[0].Text != "Reason: shared method" {
		t.Errorf("first item child = %+v, want one reason entry", child)
	}
}

func TestParse_DedentBetweenLevels(t *testing.T) {
	// "x" sits between the grandchild level and the child level, so it
	// attaches to the nearest shallower list rather than a new level.
	text := "- a\n    - b\n        - c\n  - x\n- d"
	list := Parse(text, nil, nil)

	if got := list.Texts(); !slices.Equal(got, []string{"a", "d"}) {
		t.Fatalf("top-level = %v, want [a d]", got)
	}
	child := list.Items[0].Child
	if got := child.Texts(); !slices.Equal(got, []string{"b", "x"}) {
		t.Errorf("child = %v, want [b x]", got)
	}
	if got := child.Items[0].Child.Texts(); !slices.Equal(got, []string{"c"}) {
		t.Errorf("grandchild = %v, want [c]", got)
	}
}

func TestParse_NestedOrderedChild(t *testing.T) {
	list := Parse("- a\n\t1. first\n\t2. second", nil, nil)

	child := list.Items[0].Child
	if child == nil || child.Kind != KindOrdered {
		t.Fatalf("child = %+v, want ordered list", child)
	}
	if got := child.Texts(); !slices.Equal(got, []string{"first", "second"}) {
		t.Errorf("child = %v, want [first second]", got)
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		list    *List
		spacing int
		want    string
	}{
		{
			name: "unordered with child",
			list: &List{Kind: KindUnordered, Items: []Item{
				{Text: "a", Child: NewUnordered("b", "c")},
				{Text: "d"},
			}},
			want: "- a\n\t- b\n\t- c\n- d",
		},
		{
			name: "ordered",
			list: NewOrdered("Gamma", "Alpha"),
			want: "1. Gamma\n2. Alpha",
		},
		{
			name:    "spaced",
			list:    NewUnordered("q1", "q2"),
			spacing: 1,
			want:    "- q1\n\n- q2",
		},
		{
			name: "empty",
			list: NewUnordered(),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.list.Render(tt.spacing); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderParse_RoundTrip(t *testing.T) {
	list := &List{Kind: KindUnordered, Items: []Item{
		{Text: "one", Child: &List{Kind: KindOrdered, Items: []Item{
			{Text: "inner", Child: NewUnordered("deep")},
		}}},
		{Text: "two"},
	}}

	parsed := Parse(list.String(), nil, nil)
	if parsed.String() != list.String() {
		t.Errorf("round trip = %q, want %q", parsed.String(), list.String())
	}
}
