// Package output prints command results for tr-migrator.
//
// Every command reports through a Printer so the same run can be read by a
// person or piped into another tool with --json:
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), color)
//	printer.Success(map[string]any{"message": "Wrote tree", "nodes": 42})
//
// In JSON mode results are one object per call, errors are
// {"error": "...", "code": N} and warnings are {"warning": "..."}.
//
// Errors that should end the process with a specific status are ExitErrors;
// see the Exit* constants for the codes.
package output
