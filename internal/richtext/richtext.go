// Package richtext converts inline text between the markdown written into node
// files and the HTML stored in the JSON tree.
//
// Only a small vocabulary is understood: links, line breaks and italics.
// Anything else passes through untouched in both directions.
package richtext

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	markdownLinkPattern = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
	italicPattern       = regexp.MustCompile(`\*(.*?)\*`)
	htmlCommentPattern  = regexp.MustCompile(`(?s)<!--.*?-->`)
	annotationPattern   = regexp.MustCompile(`(?s)%%.*?%%`)
	// hrefPattern reads href from raw tag text; the tokenizer's attribute
	// values come back with entities unescaped.
	hrefPattern = regexp.MustCompile(`(?i)\shref\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'>]+))`)
)

// ToDisplay converts node markdown to display HTML. Links open in a new tab,
// newlines become <br>, *text* becomes <i>text</i>, and <!-- --> comments and
// %% annotations %% are dropped.
func ToDisplay(markdown string) string {
	if markdown == "" {
		return markdown
	}
	out := markdownLinkPattern.ReplaceAllString(markdown, `<a href="${2}" target="_blank">${1}</a>`)
	out = strings.ReplaceAll(out, "\n", "<br>")
	out = italicPattern.ReplaceAllString(out, "<i>${1}</i>")
	out = htmlCommentPattern.ReplaceAllString(out, "")
	out = annotationPattern.ReplaceAllString(out, "")
	return out
}

// ToSource converts display HTML back to node markdown. It returns s unchanged
// when enabled is false.
func ToSource(s string, enabled bool) string {
	if !enabled || s == "" {
		return s
	}

	c := &converter{}
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := z.Next()
		raw := string(z.Raw())
		if tt == html.ErrorToken {
			c.text(raw)
			break
		}
		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			name, _ := z.TagName()
			var href string
			if string(name) == "a" {
				href = rawHref(raw)
			}
			c.tag(tt, string(name), href, raw)
		default:
			c.text(raw)
		}
	}
	return c.finish()
}

func rawHref(tag string) string {
	m := hrefPattern.FindStringSubmatch(tag)
	if m == nil {
		return ""
	}
	return m[1] + m[2] + m[3]
}

// anchor collects the tokens of an open <a> element.
type anchor struct {
	href  string
	raw   strings.Builder
	text  strings.Builder
	plain bool
}

type converter struct {
	out []byte
	// brEnd is the length of out after the most recent line break; trailing
	// whitespace is only trimmed back to it.
	brEnd        int
	afterBreak   bool
	afterItalic  bool
	italicStarts []int
	link         *anchor
}

func (c *converter) tag(tt html.TokenType, name, href, raw string) {
	if c.link != nil {
		c.link.raw.WriteString(raw)
		if name == "a" && tt == html.EndTagToken {
			c.closeLink()
			return
		}
		c.link.plain = false
		return
	}

	switch {
	case name == "a" && tt == html.StartTagToken:
		c.link = &anchor{href: href, plain: true}
		c.link.raw.WriteString(raw)
	case name == "br" && tt != html.EndTagToken:
		c.lineBreak()
	case name == "i" && tt == html.StartTagToken:
		if n := len(c.out); n > 0 && !isSpace(c.out[n-1]) {
			c.out = append(c.out, ' ')
		}
		c.afterBreak, c.afterItalic = false, false
		c.italicStarts = append(c.italicStarts, len(c.out))
	case name == "i" && tt == html.EndTagToken && len(c.italicStarts) > 0:
		c.closeItalic()
	default:
		c.write(raw)
	}
}

func (c *converter) text(raw string) {
	if raw == "" {
		return
	}
	if c.link != nil {
		c.link.raw.WriteString(raw)
		c.link.text.WriteString(raw)
		return
	}
	if c.afterBreak {
		raw = strings.TrimLeft(raw, " \t\r\n")
		if raw == "" {
			return
		}
	}
	c.write(raw)
}

func (c *converter) write(s string) {
	if s == "" {
		return
	}
	if c.afterItalic && !isSpace(s[0]) {
		c.out = append(c.out, ' ')
	}
	c.afterBreak, c.afterItalic = false, false
	c.out = append(c.out, s...)
}

func (c *converter) lineBreak() {
	end := len(c.out)
	for end > c.brEnd && isSpace(c.out[end-1]) {
		end--
	}
	c.out = append(c.out[:end], '\n')
	c.brEnd = len(c.out)
	c.afterBreak, c.afterItalic = true, false
}

func (c *converter) closeItalic() {
	start := c.italicStarts[len(c.italicStarts)-1]
	c.italicStarts = c.italicStarts[:len(c.italicStarts)-1]

	inner := strings.TrimSpace(string(c.out[start:]))
	c.out = append(c.out[:start], "*"+inner+"*"...)
	c.brEnd = min(c.brEnd, start)
	c.afterBreak, c.afterItalic = false, true
}

func (c *converter) closeLink() {
	link := c.link
	c.link = nil

	text := link.text.String()
	if link.plain && link.href != "" && text != "" && !strings.ContainsAny(link.href, `'"`) {
		c.write("[" + text + "](" + link.href + ")")
		return
	}
	c.write(link.raw.String())
}

func (c *converter) finish() string {
	if c.link != nil {
		c.write(c.link.raw.String())
		c.link = nil
	}
	return string(c.out)
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
