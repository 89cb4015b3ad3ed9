package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/zarSou9/tr-migrator/internal/config"
	"github.com/zarSou9/tr-migrator/internal/links"
	"github.com/zarSou9/tr-migrator/internal/nodeid"
	"github.com/zarSou9/tr-migrator/internal/tree"
)

func newIDCmd() *cobra.Command {
	var mapFlag string
	var flags conversionFlags

	cmd := &cobra.Command{
		Use:   "id <node-id>",
		Short: "Explain a node ID and optionally find its directory",
		Long: `Split a positional node ID into its (group, child) steps.

With --map the ID is resolved against a JSON tree and the path a link to
the node would use is printed.

Examples:
  tr-migrator id 0010.11.
  tr-migrator id 00121 --map map.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runID(cmd, args[0], mapFlag, &flags)
		},
	}

	cmd.Flags().StringVar(&mapFlag, "map", "", "JSON tree to resolve the ID against")
	cmd.Flags().StringVar(&flags.identifier, "identifier", "", "Suffix marking breakdown directories (default from config, else \".\")")

	return cmd
}

func runID(cmd *cobra.Command, id, mapPath string, flags *conversionFlags) error {
	printer := newPrinter(cmd)

	steps, err := nodeid.Decode(id)
	if err != nil {
		return fail(printer, err)
	}

	result := map[string]any{"id": id, "depth": len(steps), "steps": steps}
	var link tree.Link
	var found bool
	if mapPath != "" {
		link, found, err = resolveID(cmd, id, mapPath, flags)
		if err != nil {
			return fail(printer, err)
		}
		result["found"] = found
		result["path"] = link.Path
		result["title"] = link.Title
	}

	if printer.IsJSON() {
		return printer.WriteJSON(result)
	}

	rows := make([][]string, 0, len(steps))
	for i, s := range steps {
		rows = append(rows, []string{strconv.Itoa(i + 1), strconv.Itoa(s.Group), strconv.Itoa(s.Child)})
	}
	printer.KeyValue("id", id)
	printer.KeyValue("depth", strconv.Itoa(len(steps)))
	if len(rows) > 0 {
		printer.Section("Steps")
		printer.Table([]string{"step", "group", "child"}, rows)
	}
	if mapPath != "" {
		printer.Section("Target")
		printer.KeyValue("title", link.Title)
		printer.KeyValue("path", link.Path)
		if !found {
			printer.Warn("%s is not in %s", id, mapPath)
		}
	}
	return nil
}

func resolveID(cmd *cobra.Command, id, mapPath string, flags *conversionFlags) (tree.Link, bool, error) {
	settings, err := config.Load(projectDir)
	if err != nil {
		return tree.Link{}, false, err
	}
	opts, err := flags.options(cmd, settings, "")
	if err != nil {
		return tree.Link{}, false, err
	}
	root, err := tree.Load(mapPath, settings.ValidateSchema)
	if err != nil {
		return tree.Link{}, false, err
	}
	resolver := links.Resolver{Root: root, Layout: opts.Layout}
	return resolver.ToPath(tree.Link{ID: id})
}
