package transcode

import (
	"errors"
	"fmt"
)

// ErrMissingContentFile marks a directory without its <name>.md file. The
// decoder skips such subtrees instead of failing.
var ErrMissingContentFile = errors.New("missing content file")

// DirectoryExistsError reports a node directory that is already on disk.
type DirectoryExistsError struct {
	Path string
}

func (e *DirectoryExistsError) Error() string {
	return fmt.Sprintf("directory already exists: %s", e.Path)
}

// MixedLayoutError reports a directory whose children cannot be read as one
// layout.
type MixedLayoutError struct {
	Dir    string
	Reason string
}

func (e *MixedLayoutError) Error() string {
	return fmt.Sprintf("%s: %s", e.Dir, e.Reason)
}

// AmbiguousPlaceholderError reports an Order placeholder that names no
// remaining anonymous breakdown.
type AmbiguousPlaceholderError struct {
	Dir        string
	PaperTitle string
}

func (e *AmbiguousPlaceholderError) Error() string {
	return fmt.Sprintf("%s: no anonymous breakdown has paper %q", e.Dir, e.PaperTitle)
}

// SkippedDir records a subtree the decoder left out.
type SkippedDir struct {
	Path string
	Err  error
}
