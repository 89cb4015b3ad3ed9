// Package main provides the entry point for the tr-migrator CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/zarSou9/tr-migrator/internal/config"
	"github.com/zarSou9/tr-migrator/internal/envfile"
	"github.com/zarSou9/tr-migrator/internal/output"
)

// Build info set via ldflags at build time by goreleaser.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// isJSONMode reads the --json persistent flag from the command hierarchy.
func isJSONMode(cmd *cobra.Command) bool {
	return boolFlag(cmd, "json")
}

func boolFlag(cmd *cobra.Command, name string) bool {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup(name)
	}
	return flag != nil && flag.Value.String() == "true"
}

func colorMode(cmd *cobra.Command) string {
	flag := cmd.Flags().Lookup("color")
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup("color")
	}
	if flag == nil {
		return output.ColorAuto
	}
	return flag.Value.String()
}

// newPrinter builds the printer every command reports through.
func newPrinter(cmd *cobra.Command) *output.Printer {
	w := cmd.OutOrStdout()
	return output.NewPrinter(w, isJSONMode(cmd), output.UseColor(colorMode(cmd), w)).
		WithStderr(cmd.ErrOrStderr())
}

// newLogger returns the logger handed to the transcoder. Warnings always go
// to stderr; --verbose adds debug traces.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if boolFlag(cmd, "verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	os.Exit(run())
}

func run() int {
	cmd := newRootCmd()
	err := fang.Execute(context.Background(), cmd, fang.WithVersion(buildVersion()))
	return output.GetExitCode(err)
}

// newRootCmd creates the root command for the tr-migrator CLI.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tr-migrator",
		Short: "Convert knowledge trees between JSON and markdown directories",
		Long: `tr-migrator - Convert a knowledge tree between its JSON document and an
editable directory of markdown files.

Every node becomes a directory holding <name>.md; breakdowns that carry a
title, paper or explanation become directories of their own. Links are
written as relative paths and turned back into node IDs on the way in.

All commands support --json for structured output.`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if isJSONMode(cmd) {
				err := output.NewUserError("no command specified. Run 'tr-migrator --help' for usage")
				newPrinter(cmd).Error(err)
				return err
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if _, err := output.ParseColorMode(colorMode(cmd)); err != nil {
			exitErr := output.NewUserError(err.Error())
			newPrinter(cmd).Error(exitErr)
			return exitErr
		}
		loadEnvFiles(newLogger(cmd))
		return nil
	}

	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().String("color", output.ColorAuto, "Color output: auto, always or never")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug traces to stderr")

	lipgloss.SetHasDarkBackground(true)

	addCommandGroups(cmd)
	addCommands(cmd)

	return cmd
}

// loadEnvFiles loads env files in priority order. Variables already set in
// the environment always win.
//
//  1. $CWD/.env.local
//  2. $CWD/.env
//  3. the global env file in the config directory
func loadEnvFiles(logger *slog.Logger) {
	applied, err := envfile.LoadAll(".env.local", ".env", config.EnvFile())
	if err != nil {
		logger.Warn("loading env files", "err", err)
	}
	if len(applied) > 0 {
		logger.Debug("loaded env files", "keys", applied)
	}
}

func addCommandGroups(cmd *cobra.Command) {
	cmd.AddGroup(&cobra.Group{ID: "convert", Title: "Conversion Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "inspect", Title: "Inspection Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "agent", Title: "Agent Commands:"})
}

func addCommands(cmd *cobra.Command) {
	addGroupedCommand(cmd, newToDirsCmd(), "convert")
	addGroupedCommand(cmd, newFromDirsCmd(), "convert")
	addGroupedCommand(cmd, newMetaCmd(), "convert")

	addGroupedCommand(cmd, newCycleCmd(), "inspect")
	addGroupedCommand(cmd, newIDCmd(), "inspect")
	addGroupedCommand(cmd, newConfigCmd(), "inspect")

	addGroupedCommand(cmd, newServeCmd(), "agent")
}

func addGroupedCommand(parent *cobra.Command, child *cobra.Command, groupID string) {
	child.GroupID = groupID
	parent.AddCommand(child)
}
