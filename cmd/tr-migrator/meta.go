package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zarSou9/tr-migrator/internal/meta"
)

func newMetaCmd() *cobra.Command {
	var mapPathFlag string
	var outDirFlag string
	var productionFlag bool

	cmd := &cobra.Command{
		Use:   "meta",
		Short: "Render meta.json for the site as meta-converted.json",
		Long: `Render the map's meta.json for the site.

The note and coverRootDescription fields are converted from markdown to
HTML; every other key is copied unchanged. The result is written as
meta-converted.json with two-space indentation.

Examples:
  tr-migrator meta
  tr-migrator meta --production`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMeta(cmd, mapPathFlag, outDirFlag, productionFlag)
		},
	}

	cmd.Flags().StringVar(&mapPathFlag, "map-path", "", "Directory holding meta.json")
	cmd.Flags().StringVarP(&outDirFlag, "out", "o", "", "Directory to write meta-converted.json into")
	cmd.Flags().BoolVarP(&productionFlag, "production", "p", false, "Use the map-repo and source-repo checkouts")

	return cmd
}

func runMeta(cmd *cobra.Command, mapPath, outDir string, production bool) error {
	printer := newPrinter(cmd)

	paths := meta.ResolvePaths(production)
	if mapPath == "" {
		mapPath = paths.MapPath
	}
	if outDir == "" {
		outDir = paths.SourcePath
	}

	m, err := meta.Load(filepath.Join(mapPath, meta.FileName))
	if err != nil {
		return fail(printer, err)
	}
	written, err := m.WriteConverted(outDir)
	if err != nil {
		return fail(printer, err)
	}

	if printer.IsJSON() {
		return printer.Success(map[string]any{"status": "ok", "out_file": written})
	}
	return printer.Success(map[string]any{"message": "Metadata written to '" + written + "'"})
}
