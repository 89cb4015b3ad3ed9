package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zarSou9/tr-migrator/internal/config"
	"github.com/zarSou9/tr-migrator/internal/meta"
	"github.com/zarSou9/tr-migrator/internal/output"
	"github.com/zarSou9/tr-migrator/internal/transcode"
	"github.com/zarSou9/tr-migrator/internal/tree"
)

func newFromDirsCmd() *cobra.Command {
	var mapPathFlag string
	var outFlag string
	var productionFlag bool
	var flags conversionFlags

	cmd := &cobra.Command{
		Use:   "from-dirs",
		Short: "Rebuild the JSON tree from a directory of markdown files",
		Long: `Rebuild the JSON knowledge tree from a directory of markdown files.

The map directory holds meta.json, whose rootDir names the root node
directory and whose optional breakdownsIdentifier overrides the configured
breakdown suffix. The tree is written as compact JSON.

By default the map directory is test_data and map.json is written to the
current directory; --production switches to map-repo and source-repo.

Examples:
  tr-migrator from-dirs
  tr-migrator from-dirs --production
  tr-migrator from-dirs --map-path ./my-map --out ./build/map.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFromDirs(cmd, mapPathFlag, outFlag, productionFlag, &flags)
		},
	}

	cmd.Flags().StringVar(&mapPathFlag, "map-path", "", "Directory holding meta.json and the tree")
	cmd.Flags().StringVarP(&outFlag, "out", "o", "", "File to write the JSON tree to")
	cmd.Flags().BoolVarP(&productionFlag, "production", "p", false, "Use the map-repo and source-repo checkouts")
	flags.register(cmd, false)

	return cmd
}

func runFromDirs(cmd *cobra.Command, mapPath, outFile string, production bool, flags *conversionFlags) error {
	printer := newPrinter(cmd)

	paths := meta.ResolvePaths(production)
	if mapPath == "" {
		mapPath = paths.MapPath
	}
	if outFile == "" {
		outFile = filepath.Join(paths.SourcePath, meta.MapFileName)
	}

	settings, err := config.Load(projectDir)
	if err != nil {
		return fail(printer, err)
	}
	m, err := meta.Load(filepath.Join(mapPath, meta.FileName))
	if err != nil {
		return fail(printer, err)
	}
	opts, err := flags.options(cmd, settings, m.BreakdownsIdentifier)
	if err != nil {
		return fail(printer, err)
	}

	res, err := transcode.NewDecoder(opts).Decode(m.RootPath(mapPath))
	if err != nil {
		return fail(printer, err)
	}
	if err := tree.WriteFile(outFile, res.Root, ""); err != nil {
		return fail(printer, err)
	}

	return outputFromDirs(printer, outFile, res)
}

func outputFromDirs(printer *output.Printer, outFile string, res *transcode.DecodeResult) error {
	if printer.IsJSON() {
		unresolved := make([]map[string]string, 0, len(res.Unresolved))
		for _, u := range res.Unresolved {
			unresolved = append(unresolved, map[string]string{"node_id": u.NodeID, "path": u.Path})
		}
		skipped := make([]map[string]string, 0, len(res.Skipped))
		for _, s := range res.Skipped {
			skipped = append(skipped, map[string]string{"path": s.Path, "reason": s.Err.Error()})
		}
		return printer.Success(map[string]any{
			"status":     "ok",
			"out_file":   outFile,
			"nodes":      tree.Count(res.Root),
			"unresolved": unresolved,
			"skipped":    skipped,
		})
	}

	for _, u := range res.Unresolved {
		printer.Warn("%v", u)
	}
	for _, s := range res.Skipped {
		printer.Warn("skipped %s: %v", s.Path, s.Err)
	}
	return printer.Success(map[string]any{
		"message": "JSON structure reconstructed to '" + outFile + "'",
		"nodes":   tree.Count(res.Root),
	})
}
