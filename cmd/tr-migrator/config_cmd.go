package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zarSou9/tr-migrator/internal/config"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the settings a run would use",
		Long: `Show the resolved settings and where they came from.

Settings are layered, later wins: built-in defaults, the global
config.yaml, .tr-migrator.yaml in the current directory, then
TR_MIGRATOR_* environment variables (including ones loaded from .env
files).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := newPrinter(cmd)
			settings, err := config.Load(projectDir)
			if err != nil {
				return fail(printer, err)
			}
			if printer.IsJSON() {
				return printer.WriteJSON(map[string]any{
					"config_dir": config.Dir(),
					"settings":   settings,
				})
			}

			printer.KeyValue("config dir", config.Dir())
			printer.KeyValue("breakdowns identifier", strconv.Quote(settings.BreakdownsIdentifier))
			printer.KeyValue("convert html", strconv.FormatBool(settings.ConvertHTML))
			printer.KeyValue("preserve order", strconv.FormatBool(settings.PreserveOrder))
			printer.KeyValue("validate schema", strconv.FormatBool(settings.ValidateSchema))
			sources := "built-in defaults"
			if len(settings.Sources) > 0 {
				sources = strings.Join(settings.Sources, ", ")
			}
			printer.KeyValue("sources", sources)
			return nil
		},
	}
}
