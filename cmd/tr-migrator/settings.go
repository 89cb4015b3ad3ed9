package main

import (
	"github.com/spf13/cobra"

	"github.com/zarSou9/tr-migrator/internal/config"
	"github.com/zarSou9/tr-migrator/internal/layout"
	"github.com/zarSou9/tr-migrator/internal/transcode"
)

// projectDir is where .tr-migrator.yaml is looked up.
const projectDir = "."

// conversionFlags are the flags shared by the commands that run the
// transcoder.
type conversionFlags struct {
	identifier string
	noMarkdown bool
	noOrder    bool
}

func (f *conversionFlags) register(cmd *cobra.Command, withOrder bool) {
	cmd.Flags().StringVar(&f.identifier, "identifier", "", "Suffix marking breakdown directories (default from config, else \".\")")
	cmd.Flags().BoolVar(&f.noMarkdown, "no-markdown", false, "Keep HTML as HTML instead of converting to markdown")
	if withOrder {
		cmd.Flags().BoolVar(&f.noOrder, "no-order", false, "Do not write Order sections")
	}
}

// options resolves config settings and flags into transcoder options.
// identifier overrides the configured suffix when non-empty.
func (f *conversionFlags) options(cmd *cobra.Command, s *config.Settings, identifier string) (transcode.Options, error) {
	if f.identifier != "" {
		identifier = f.identifier
	}
	if identifier == "" {
		identifier = s.BreakdownsIdentifier
	}
	if err := layout.CheckSuffix(identifier); err != nil {
		return transcode.Options{}, err
	}

	return transcode.Options{
		Layout:        layout.New(identifier),
		ConvertHTML:   s.ConvertHTML && !f.noMarkdown,
		PreserveOrder: s.PreserveOrder && !f.noOrder,
		Logger:        newLogger(cmd),
	}, nil
}
