package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/zarSou9/tr-migrator/internal/config"
	migratormcp "github.com/zarSou9/tr-migrator/internal/mcp"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run tr-migrator as a Model Context Protocol (MCP) server over stdio.

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "tr-migrator": {
        "command": "tr-migrator",
        "args": ["serve"]
      }
    }
  }

Available tools: to_directories, from_directories, decode_id, resolve_link,
validate_map`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := newPrinter(cmd)
			settings, err := config.Load(projectDir)
			if err != nil {
				return fail(printer, err)
			}
			var flags conversionFlags
			opts, err := flags.options(cmd, settings, "")
			if err != nil {
				return fail(printer, err)
			}
			server := migratormcp.NewServer(buildVersion(), migratormcp.Defaults{
				Options:        opts,
				ValidateSchema: settings.ValidateSchema,
			})
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
