// Package mcp provides a Model Context Protocol server for tr-migrator.
// It exposes the tree transcoder as MCP tools so an agent can move a map
// between its JSON and directory forms and inspect node IDs.
package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/zarSou9/tr-migrator/internal/transcode"
)

// Defaults are the settings tools start from before applying their own
// arguments.
type Defaults struct {
	Options        transcode.Options
	ValidateSchema bool
}

// NewServer creates an MCP server with all tr-migrator tools registered.
func NewServer(version string, defaults Defaults) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "tr-migrator",
		Version: version,
	}, nil)
	registerTools(server, defaults)
	return server
}

func boolPtr(b bool) *bool {
	return &b
}

func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// writeAnnotations marks tools that create files but never overwrite them.
func writeAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		DestructiveHint: boolPtr(false),
		OpenWorldHint:   boolPtr(false),
	}
}

func registerTools(server *mcp.Server, defaults Defaults) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "to_directories",
		Description: "Write a JSON knowledge tree as a directory of markdown files. Fails if the root node directory already exists.",
		Annotations: writeAnnotations(),
	}, handleToDirectories(defaults))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "from_directories",
		Description: "Read a directory of markdown files back into a JSON knowledge tree. Writes the tree to out_file, or returns it inline when out_file is empty.",
		Annotations: writeAnnotations(),
	}, handleFromDirectories(defaults))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "decode_id",
		Description: "Split a positional node ID into its (group, child) steps.",
		Annotations: readOnlyAnnotations(),
	}, handleDecodeID())

	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve_link",
		Description: "Resolve a node ID in a JSON knowledge tree to the directory path and title a link to it would use.",
		Annotations: readOnlyAnnotations(),
	}, handleResolveLink(defaults))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_map",
		Description: "Check a JSON knowledge tree against the tree schema and report every problem with its location.",
		Annotations: readOnlyAnnotations(),
	}, handleValidateMap())
}
