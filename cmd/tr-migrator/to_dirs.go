package main

import (
	"github.com/spf13/cobra"

	"github.com/zarSou9/tr-migrator/internal/config"
	"github.com/zarSou9/tr-migrator/internal/output"
	"github.com/zarSou9/tr-migrator/internal/transcode"
	"github.com/zarSou9/tr-migrator/internal/tree"
)

func newToDirsCmd() *cobra.Command {
	var outFlag string
	var flags conversionFlags

	cmd := &cobra.Command{
		Use:   "to-dirs <map.json>",
		Short: "Write a JSON tree as a directory of markdown files",
		Long: `Write a JSON knowledge tree as a directory of markdown files.

The root node directory is created inside --out and must not exist yet.
Links to nodes that are not in the tree are kept as placeholders and
reported as warnings.

Examples:
  tr-migrator to-dirs map.json --out ./map-repo
  tr-migrator to-dirs map.json --out ./map-repo --identifier __bd
  tr-migrator to-dirs map.json --out ./raw --no-markdown --no-order`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToDirs(cmd, args[0], outFlag, &flags)
		},
	}

	cmd.Flags().StringVarP(&outFlag, "out", "o", "", "Directory to write the root node directory into")
	_ = cmd.MarkFlagRequired("out")
	flags.register(cmd, true)

	return cmd
}

func runToDirs(cmd *cobra.Command, mapPath, outDir string, flags *conversionFlags) error {
	printer := newPrinter(cmd)

	settings, err := config.Load(projectDir)
	if err != nil {
		return fail(printer, err)
	}
	opts, err := flags.options(cmd, settings, "")
	if err != nil {
		return fail(printer, err)
	}

	root, err := tree.Load(mapPath, settings.ValidateSchema)
	if err != nil {
		return fail(printer, err)
	}

	res, err := transcode.NewEncoder(opts).Encode(root, outDir)
	if err != nil {
		return fail(printer, err)
	}

	if !printer.IsJSON() {
		for _, d := range res.DanglingLinks {
			printer.Warn("node %s links to %s, which is not in the tree", d.NodeID, d.TargetID)
		}
	}
	return outputToDirs(printer, root, res)
}

func outputToDirs(printer *output.Printer, root *tree.Node, res *transcode.EncodeResult) error {
	if printer.IsJSON() {
		dangling := make([]map[string]string, 0, len(res.DanglingLinks))
		for _, d := range res.DanglingLinks {
			dangling = append(dangling, map[string]string{"node_id": d.NodeID, "target_id": d.TargetID})
		}
		return printer.Success(map[string]any{
			"status":         "ok",
			"root_dir":       res.RootDir,
			"nodes":          res.Nodes,
			"breakdowns":     res.Breakdowns,
			"dangling_links": dangling,
		})
	}
	return printer.Success(map[string]any{
		"message":    "Directory structure created from '" + root.Title + "'",
		"root":       res.RootDir,
		"nodes":      res.Nodes,
		"breakdowns": res.Breakdowns,
	})
}
