package nodeid

import (
	"errors"
	"slices"
	"testing"
)

func TestFormatIndex(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{9, "9"},
		{10, ".10."},
		{99, ".99."},
		{100, ".100."},
	}

	for _, tt := range tests {
		if got := FormatIndex(tt.in); got != tt.want {
			t.Errorf("FormatIndex(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDecodeIndices_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		seq  []int
	}{
		{name: "root", seq: nil},
		{name: "single digits", seq: []int{0, 0, 0, 9}},
		{name: "escaped ten", seq: []int{0, 10}},
		{name: "escaped ninety-nine", seq: []int{0, 99, 0, 3}},
		{name: "escaped hundred", seq: []int{0, 100}},
		{name: "mixed", seq: []int{1, 0, 12, 100, 0, 9, 0, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := Root
			for _, i := range tt.seq {
				id += FormatIndex(i)
			}
			got, err := DecodeIndices(id)
			if err != nil {
				t.Fatalf("DecodeIndices(%q) error = %v", id, err)
			}
			if !slices.Equal(got, tt.seq) {
				t.Errorf("DecodeIndices(%q) = %v, want %v", id, got, tt.seq)
			}
		})
	}
}

func TestDecode_Steps(t *testing.T) {
	steps := []Step{{Group: 0, Child: 3}, {Group: 1, Child: 10}, {Group: 0, Child: 100}}
	id := Encode(steps)
	if id != "0031.10.0.100." {
		t.Fatalf("Encode() = %q, want %q", id, "0031.10.0.100.")
	}

	got, err := Decode(id)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !slices.Equal(got, steps) {
		t.Errorf("Decode() = %v, want %v", got, steps)
	}
}

func TestChildAndBreakdownIDs(t *testing.T) {
	if got := ChildID(Root, 0, 2); got != "002" {
		t.Errorf("ChildID = %q, want %q", got, "002")
	}
	if got := ChildID("002", 1, 11); got != "0021.11." {
		t.Errorf("ChildID = %q, want %q", got, "0021.11.")
	}
	if got := BreakdownID("002", 0); got != "0020" {
		t.Errorf("BreakdownID = %q, want %q", got, "0020")
	}
	if got := QuestionID("002", 12); got != "00212" {
		t.Errorf("QuestionID = %q, want %q", got, "00212")
	}
}

func TestPair(t *testing.T) {
	tests := []struct {
		idxs   []int
		want   []Step
		wantOK bool
	}{
		{nil, []Step{}, true},
		{[]int{0, 3}, []Step{{Group: 0, Child: 3}}, true},
		{[]int{1, 12, 0, 0}, []Step{{Group: 1, Child: 12}, {Group: 0, Child: 0}}, true},
		{[]int{0}, nil, false},
		{[]int{0, 0, 3}, nil, false},
	}
	for _, tt := range tests {
		got, ok := Pair(tt.idxs)
		if ok != tt.wantOK || !slices.Equal(got, tt.want) {
			t.Errorf("Pair(%v) = %v, %v; want %v, %v", tt.idxs, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{name: "empty", id: ""},
		{name: "no root marker", id: "100"},
		{name: "letter", id: "00a"},
		{name: "unterminated run", id: "00.12"},
		{name: "empty run", id: "00..0"},
		{name: "signed run", id: "00.+5."},
		{name: "odd length", id: "00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.id)
			var malformed *MalformedIDError
			if !errors.As(err, &malformed) {
				t.Fatalf("Decode(%q) error = %v, want MalformedIDError", tt.id, err)
			}
			if malformed.ID != tt.id {
				t.Errorf("MalformedIDError.ID = %q, want %q", malformed.ID, tt.id)
			}
		})
	}
}
