// Package transcode converts knowledge trees between the JSON document and a
// directory of markdown files.
package transcode

import (
	"log/slog"
	"strings"

	"github.com/zarSou9/tr-migrator/internal/layout"
	"github.com/zarSou9/tr-migrator/internal/richtext"
)

// Options configure both directions.
type Options struct {
	Layout layout.Layout
	// ConvertHTML turns HTML fields into markdown on the way out and back on
	// the way in.
	ConvertHTML bool
	// PreserveOrder writes Order sections where directory sorting would lose
	// the child order.
	PreserveOrder bool
	Logger        *slog.Logger
}

// DefaultOptions returns the settings the tool runs with unless told
// otherwise.
func DefaultOptions() Options {
	return Options{
		Layout:        layout.New(layout.DefaultSuffix),
		ConvertHTML:   true,
		PreserveOrder: true,
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

func (o Options) toSource(s string) string {
	return richtext.ToSource(s, o.ConvertHTML)
}

func (o Options) toDisplay(s string) string {
	if !o.ConvertHTML {
		return s
	}
	return richtext.ToDisplay(s)
}

// Raw one-line items keep newlines and backslashes as \n and \\.
var (
	inlineEscaper   = strings.NewReplacer(`\`, `\\`, "\n", `\n`)
	inlineUnescaper = strings.NewReplacer(`\\`, `\`, `\n`, "\n")
)

// Link titles escape the brackets that delimit them.
var (
	linkTitleEscaper   = strings.NewReplacer(`\`, `\\`, `[`, `\[`, `]`, `\]`, "\n", `\n`)
	linkTitleUnescaper = strings.NewReplacer(`\\`, `\`, `\[`, `[`, `\]`, `]`, `\n`, "\n")
)

// toSourceInline converts text that has to stay on one list line.
func (o Options) toSourceInline(s string) string {
	if !o.ConvertHTML {
		return inlineEscaper.Replace(s)
	}
	return strings.ReplaceAll(o.toSource(s), "\n", "<br>")
}

// fromSourceInline reverses toSourceInline.
func (o Options) fromSourceInline(s string) string {
	if !o.ConvertHTML {
		return inlineUnescaper.Replace(s)
	}
	return richtext.ToDisplay(s)
}
