// Package nodeid encodes and decodes tree-position IDs.
//
// An ID starts with the root marker "0". Every descent appends the index of
// the breakdown group followed by the index of the child within that group.
// Indices up to 9 are written as a single digit; larger indices are wrapped
// in dots (".12.") so that concatenated IDs never need a separator.
//
//	0        root
//	000      first child of the first group
//	00.12.   thirteenth child of the first group
//	00.12.03 fourth child of that node's first group
package nodeid

import (
	"fmt"
	"strconv"
	"strings"
)

// Root is the ID of the tree root.
const Root = "0"

// Step is one descent: a breakdown group followed by a child within it.
type Step struct {
	Group int `json:"group"`
	Child int `json:"child"`
}

// MalformedIDError reports an ID that does not decode.
type MalformedIDError struct {
	ID     string
	Reason string
}

// Error implements the error interface.
func (e *MalformedIDError) Error() string {
	return fmt.Sprintf("malformed node id %q: %s", e.ID, e.Reason)
}

// FormatIndex renders a single index for concatenation into an ID.
func FormatIndex(i int) string {
	if i > 9 {
		return "." + strconv.Itoa(i) + "."
	}
	return strconv.Itoa(i)
}

// ChildID returns the ID of child number child in breakdown group of parent.
func ChildID(parent string, group, child int) string {
	return parent + FormatIndex(group) + FormatIndex(child)
}

// BreakdownID returns the ID of breakdown group of parent.
func BreakdownID(parent string, group int) string {
	return parent + FormatIndex(group)
}

// QuestionID returns the ID of question i of the node parent.
// Question IDs are plain concatenation and are never decoded.
func QuestionID(parent string, i int) string {
	return parent + strconv.Itoa(i)
}

// Encode builds the ID reached from the root by following steps.
func Encode(steps []Step) string {
	var b strings.Builder
	b.WriteString(Root)
	for _, s := range steps {
		b.WriteString(FormatIndex(s.Group))
		b.WriteString(FormatIndex(s.Child))
	}
	return b.String()
}

// DecodeIndices returns the flat index sequence following the root marker.
// The sequence alternates group and child indices.
func DecodeIndices(id string) ([]int, error) {
	if id == "" {
		return nil, &MalformedIDError{ID: id, Reason: "empty id"}
	}
	if id[0] != Root[0] {
		return nil, &MalformedIDError{ID: id, Reason: "missing root marker"}
	}

	var idxs []int
	for i := 1; i < len(id); i++ {
		c := id[i]
		switch {
		case c == '.':
			end := strings.IndexByte(id[i+1:], '.')
			if end < 0 {
				return nil, &MalformedIDError{ID: id, Reason: "unterminated multi-digit index"}
			}
			run := id[i+1 : i+1+end]
			if run == "" {
				return nil, &MalformedIDError{ID: id, Reason: "empty multi-digit index"}
			}
			n, err := strconv.Atoi(run)
			if err != nil || !allDigits(run) {
				return nil, &MalformedIDError{ID: id, Reason: "non-digit in multi-digit index " + strconv.Quote(run)}
			}
			idxs = append(idxs, n)
			i += end + 1
		case c >= '0' && c <= '9':
			idxs = append(idxs, int(c-'0'))
		default:
			return nil, &MalformedIDError{ID: id, Reason: fmt.Sprintf("unexpected character %q", c)}
		}
	}
	return idxs, nil
}

// Decode returns the descent steps encoded in id.
func Decode(id string) ([]Step, error) {
	idxs, err := DecodeIndices(id)
	if err != nil {
		return nil, err
	}
	steps, ok := Pair(idxs)
	if !ok {
		return nil, &MalformedIDError{ID: id, Reason: "group index without child index"}
	}
	return steps, nil
}

// Pair groups a flat index sequence into steps. It reports false when the
// sequence ends on a group index, as breakdown IDs do.
func Pair(idxs []int) ([]Step, bool) {
	if len(idxs)%2 != 0 {
		return nil, false
	}
	steps := make([]Step, 0, len(idxs)/2)
	for i := 0; i < len(idxs); i += 2 {
		steps = append(steps, Step{Group: idxs[i], Child: idxs[i+1]})
	}
	return steps, true
}

func allDigits(s string) bool {
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
