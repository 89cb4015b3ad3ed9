package mcp

import (
	"fmt"

	"github.com/zarSou9/tr-migrator/internal/layout"
	"github.com/zarSou9/tr-migrator/internal/transcode"
)

// options applies per-call overrides to the server defaults.
func (d Defaults) options(identifier string, noMarkdown, noOrder bool) (transcode.Options, error) {
	opts := d.Options
	if identifier != "" {
		if err := layout.CheckSuffix(identifier); err != nil {
			return transcode.Options{}, fmt.Errorf("identifier: %w", err)
		}
		opts.Layout = layout.New(identifier)
	}
	if noMarkdown {
		opts.ConvertHTML = false
	}
	if noOrder {
		opts.PreserveOrder = false
	}
	return opts, nil
}

func toDanglingLinks(in []transcode.DanglingLink) []DanglingLink {
	out := make([]DanglingLink, 0, len(in))
	for _, d := range in {
		out = append(out, DanglingLink{NodeID: d.NodeID, TargetID: d.TargetID})
	}
	return out
}

func toSkipped(in []transcode.SkippedDir) []SkippedDir {
	out := make([]SkippedDir, 0, len(in))
	for _, s := range in {
		out = append(out, SkippedDir{Path: s.Path, Reason: s.Err.Error()})
	}
	return out
}
