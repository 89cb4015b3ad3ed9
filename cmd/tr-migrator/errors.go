package main

import (
	"encoding/json"
	"errors"
	"io/fs"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/zarSou9/tr-migrator/internal/nodeid"
	"github.com/zarSou9/tr-migrator/internal/output"
	"github.com/zarSou9/tr-migrator/internal/transcode"
	"github.com/zarSou9/tr-migrator/internal/tree"
)

// classify attaches an exit code to an error coming out of the core
// packages. Input problems are user errors, an existing output directory is
// a conflict and anything else that touched the filesystem is a system error.
func classify(err error) *output.ExitError {
	var exitErr *output.ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}

	var (
		exists      *transcode.DirectoryExistsError
		malformed   *nodeid.MalformedIDError
		mixed       *transcode.MixedLayoutError
		placeholder *transcode.AmbiguousPlaceholderError
		syntaxErr   *json.SyntaxError
		typeErr     *json.UnmarshalTypeError
		invalid     validation.Errors
		pathErr     *fs.PathError
	)
	switch {
	case errors.As(err, &exists):
		return output.Wrap(output.ExitConflict, err)
	case errors.As(err, &malformed),
		errors.As(err, &mixed),
		errors.As(err, &placeholder),
		errors.Is(err, tree.ErrSchemaValidation),
		errors.Is(err, transcode.ErrMissingContentFile),
		errors.As(err, &syntaxErr),
		errors.As(err, &typeErr),
		errors.As(err, &invalid),
		errors.Is(err, fs.ErrNotExist):
		return output.Wrap(output.ExitUserError, err)
	case errors.As(err, &pathErr):
		return output.Wrap(output.ExitSystemError, err)
	default:
		return output.Wrap(output.ExitUserError, err)
	}
}

// fail reports err through printer and returns it with its exit code.
func fail(printer *output.Printer, err error) error {
	exitErr := classify(err)
	printer.Error(exitErr)
	return exitErr
}
