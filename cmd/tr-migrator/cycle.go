package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zarSou9/tr-migrator/internal/config"
	"github.com/zarSou9/tr-migrator/internal/output"
	"github.com/zarSou9/tr-migrator/internal/transcode"
	"github.com/zarSou9/tr-migrator/internal/tree"
)

func newCycleCmd() *cobra.Command {
	var keepFlag string
	var flags conversionFlags

	cmd := &cobra.Command{
		Use:   "cycle <map.json>",
		Short: "Check that a tree survives JSON -> directories -> JSON",
		Long: `Write a JSON tree as directories, read it back and compare.

IDs are compared by position, so a tree whose stored IDs are stale still
passes. The first node that changed is reported and the command exits 1.

Examples:
  tr-migrator cycle map.json
  tr-migrator cycle map.json --keep ./cycle-out`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCycle(cmd, args[0], keepFlag, &flags)
		},
	}

	cmd.Flags().StringVar(&keepFlag, "keep", "", "Write the directories here instead of a removed temp dir")
	flags.register(cmd, true)

	return cmd
}

func runCycle(cmd *cobra.Command, mapPath, keepDir string, flags *conversionFlags) error {
	printer := newPrinter(cmd)

	settings, err := config.Load(projectDir)
	if err != nil {
		return fail(printer, err)
	}
	opts, err := flags.options(cmd, settings, "")
	if err != nil {
		return fail(printer, err)
	}

	want, err := tree.Load(mapPath, settings.ValidateSchema)
	if err != nil {
		return fail(printer, err)
	}

	workDir := keepDir
	if workDir == "" {
		workDir, err = os.MkdirTemp("", "tr-migrator-cycle-*")
		if err != nil {
			return fail(printer, output.NewSystemError(fmt.Sprintf("creating temp dir: %v", err)))
		}
		defer os.RemoveAll(workDir) //nolint:errcheck // best-effort cleanup
	}

	encoded, err := transcode.NewEncoder(opts).Encode(want, workDir)
	if err != nil {
		return fail(printer, err)
	}
	decoded, err := transcode.NewDecoder(opts).Decode(encoded.RootDir)
	if err != nil {
		return fail(printer, err)
	}

	tree.Canonicalize(want)
	if id, differs := tree.Diff(want, decoded.Root); differs {
		return fail(printer, output.NewUserError(fmt.Sprintf("node %s changed after a round trip", id)))
	}

	if printer.IsJSON() {
		return printer.Success(map[string]any{
			"status": "ok",
			"equal":  true,
			"nodes":  encoded.Nodes,
		})
	}
	return printer.Success(map[string]any{
		"message": "Round trip preserved the tree",
		"nodes":   encoded.Nodes,
	})
}
