// Package section splits node markdown files into named "### Title" sections
// and joins them back together.
package section

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Recognized section titles.
const (
	Title           = "Title"
	MiniDescription = "Mini Description"
	Description     = "Description"
	Questions       = "Questions"
	Order           = "Order"
	RelatedNodes    = "Related Nodes"
	Paper           = "Paper"
	Explanation     = "Explanation"
)

// headingLevel is the only heading level that opens a section.
const headingLevel = 3

// A body line that would open a section is written with a backslash before
// the hashes. Lines that already carry backslashes gain one more, so Split
// can remove exactly one.
var (
	headingLinePattern = regexp.MustCompile(`(?m)^( {0,3})(\\*###(?:[ \t]|$))`)
	escapedLinePattern = regexp.MustCompile(`(?m)^( {0,3})\\(\\*###(?:[ \t]|$))`)
)

func escapeBody(body string) string {
	return headingLinePattern.ReplaceAllString(body, `${1}\${2}`)
}

func unescapeBody(body string) string {
	return escapedLinePattern.ReplaceAllString(body, "${1}${2}")
}

// Section is one titled block of a node file. A section with an empty title
// holds text found before the first heading.
type Section struct {
	Title string
	Body  string
}

// Sections is an ordered list of sections.
type Sections []Section

// Get returns the body of the first section titled title.
func (s Sections) Get(title string) (string, bool) {
	for _, sec := range s {
		if sec.Title == title {
			return sec.Body, true
		}
	}
	return "", false
}

// Titles returns the section titles in document order.
func (s Sections) Titles() []string {
	out := make([]string, 0, len(s))
	for _, sec := range s {
		out = append(out, sec.Title)
	}
	return out
}

// Add appends a section.
func (s *Sections) Add(title, body string) {
	*s = append(*s, Section{Title: title, Body: body})
}

// boundary marks a heading line in the source.
type boundary struct {
	title     string
	lineStart int
	lineEnd   int
}

// Split parses markdown into sections. Only top-level level-3 ATX headings
// open a section, so headings inside fenced code or lists are left alone.
// Bodies are the raw source between headings, trimmed.
func Split(markdown string) Sections {
	src := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var bounds []boundary
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		heading, ok := n.(*ast.Heading)
		if !ok || heading.Level != headingLevel || heading.Lines().Len() == 0 {
			continue
		}
		bounds = append(bounds, headingBoundary(heading, src))
	}

	var out Sections
	if len(bounds) == 0 {
		if body := strings.TrimSpace(markdown); body != "" {
			out.Add("", unescapeBody(body))
		}
		return out
	}

	if pre := strings.TrimSpace(string(src[:bounds[0].lineStart])); pre != "" {
		out.Add("", unescapeBody(pre))
	}
	for i, b := range bounds {
		end := len(src)
		if i+1 < len(bounds) {
			end = bounds[i+1].lineStart
		}
		out.Add(b.title, unescapeBody(strings.TrimSpace(string(src[b.lineEnd:end]))))
	}
	return out
}

func headingBoundary(heading *ast.Heading, src []byte) boundary {
	lines := heading.Lines()
	var title bytes.Buffer
	for i := range lines.Len() {
		seg := lines.At(i)
		title.Write(seg.Value(src))
	}

	first := lines.At(0)
	start := bytes.LastIndexByte(src[:first.Start], '\n') + 1
	end := len(src)
	if nl := bytes.IndexByte(src[first.Stop:], '\n'); nl >= 0 {
		end = first.Stop + nl + 1
	}

	return boundary{
		title:     strings.TrimSpace(title.String()),
		lineStart: start,
		lineEnd:   end,
	}
}

// Join renders sections as a markdown document with a trailing newline. Body
// lines that look like section headings are escaped.
func Join(sections Sections) string {
	blocks := make([]string, 0, len(sections))
	for _, sec := range sections {
		body := escapeBody(sec.Body)
		switch {
		case sec.Title == "":
			blocks = append(blocks, body)
		case body == "":
			blocks = append(blocks, "### "+sec.Title)
		default:
			blocks = append(blocks, "### "+sec.Title+"\n\n"+body)
		}
	}
	return strings.Join(blocks, "\n\n") + "\n"
}

// FencedJSON renders a JSON value as a tab-indented ```json block.
// Key order is taken from raw.
func FencedJSON(raw json.RawMessage) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "\t"); err != nil {
		return "", fmt.Errorf("indenting JSON: %w", err)
	}
	return "```json\n" + buf.String() + "\n```", nil
}

// UnfenceJSON reads a JSON value from a section body that may be wrapped in a
// fenced code block. The result is compacted.
func UnfenceJSON(body string) (json.RawMessage, error) {
	body = strings.TrimSpace(body)
	if strings.HasPrefix(body, "```") {
		if nl := strings.IndexByte(body, '\n'); nl >= 0 {
			body = body[nl+1:]
		} else {
			body = ""
		}
		body = strings.TrimSpace(body)
		body = strings.TrimSpace(strings.TrimSuffix(body, "```"))
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(body)); err != nil {
		return nil, fmt.Errorf("parsing JSON block: %w", err)
	}
	return json.RawMessage(buf.Bytes()), nil
}
