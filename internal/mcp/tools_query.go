package mcp

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/zarSou9/tr-migrator/internal/links"
	"github.com/zarSou9/tr-migrator/internal/nodeid"
	"github.com/zarSou9/tr-migrator/internal/tree"
)

// --- decode_id tool ---

// DecodeIDInput is the input for the decode_id tool.
type DecodeIDInput struct {
	ID string `json:"id" jsonschema:"positional node ID, for example 0010.11."`
}

// Step is one (group, child) move from a node to one of its children.
type Step struct {
	Group int `json:"group" jsonschema:"breakdown index"`
	Child int `json:"child" jsonschema:"child index within the breakdown"`
}

// DecodeIDOutput is the output for the decode_id tool.
type DecodeIDOutput struct {
	Depth int    `json:"depth" jsonschema:"number of steps below the root"`
	Steps []Step `json:"steps" jsonschema:"steps from the root to the node"`
}

func handleDecodeID() mcp.ToolHandlerFor[DecodeIDInput, DecodeIDOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input DecodeIDInput) (*mcp.CallToolResult, DecodeIDOutput, error) {
		steps, err := nodeid.Decode(input.ID)
		if err != nil {
			return nil, DecodeIDOutput{}, err
		}
		out := DecodeIDOutput{Depth: len(steps), Steps: make([]Step, 0, len(steps))}
		for _, s := range steps {
			out.Steps = append(out.Steps, Step{Group: s.Group, Child: s.Child})
		}
		return nil, out, nil
	}
}

// --- resolve_link tool ---

// ResolveLinkInput is the input for the resolve_link tool.
type ResolveLinkInput struct {
	MapPath    string `json:"map_path"             jsonschema:"path to the JSON tree document"`
	ID         string `json:"id"                   jsonschema:"node ID to resolve"`
	Identifier string `json:"identifier,omitempty" jsonschema:"suffix marking breakdown directories (default .)"`
}

// ResolveLinkOutput is the output for the resolve_link tool.
type ResolveLinkOutput struct {
	Found bool   `json:"found" jsonschema:"whether the ID names a node in the tree"`
	Path  string `json:"path"  jsonschema:"link path relative to the output directory"`
	Title string `json:"title" jsonschema:"title of the target node"`
}

func handleResolveLink(defaults Defaults) mcp.ToolHandlerFor[ResolveLinkInput, ResolveLinkOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ResolveLinkInput) (*mcp.CallToolResult, ResolveLinkOutput, error) {
		if input.MapPath == "" || input.ID == "" {
			return nil, ResolveLinkOutput{}, errors.New("map_path and id are required")
		}
		opts, err := defaults.options(input.Identifier, false, false)
		if err != nil {
			return nil, ResolveLinkOutput{}, err
		}
		root, err := tree.Load(input.MapPath, defaults.ValidateSchema)
		if err != nil {
			return nil, ResolveLinkOutput{}, err
		}

		resolver := links.Resolver{Root: root, Layout: opts.Layout}
		link, found, err := resolver.ToPath(tree.Link{ID: input.ID})
		if err != nil {
			return nil, ResolveLinkOutput{}, err
		}
		return nil, ResolveLinkOutput{Found: found, Path: link.Path, Title: link.Title}, nil
	}
}

// --- validate_map tool ---

// ValidateMapInput is the input for the validate_map tool.
type ValidateMapInput struct {
	MapPath string `json:"map_path" jsonschema:"path to the JSON tree document"`
}

// Issue is one schema violation.
type Issue struct {
	Location string `json:"location" jsonschema:"JSON pointer to the offending value"`
	Message  string `json:"message"  jsonschema:"what is wrong"`
}

// ValidateMapOutput is the output for the validate_map tool.
type ValidateMapOutput struct {
	Valid  bool    `json:"valid"            jsonschema:"whether the document matches the tree schema"`
	Nodes  int     `json:"nodes,omitempty"  jsonschema:"number of nodes when valid"`
	Issues []Issue `json:"issues,omitempty" jsonschema:"schema violations"`
}

func handleValidateMap() mcp.ToolHandlerFor[ValidateMapInput, ValidateMapOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ValidateMapInput) (*mcp.CallToolResult, ValidateMapOutput, error) {
		data, err := os.ReadFile(input.MapPath)
		if err != nil {
			return nil, ValidateMapOutput{}, fmt.Errorf("reading tree: %w", err)
		}

		if err := tree.Validate(data); err != nil {
			var schemaErr *tree.SchemaError
			if !errors.As(err, &schemaErr) {
				return nil, ValidateMapOutput{}, err
			}
			out := ValidateMapOutput{}
			for _, issue := range schemaErr.Issues {
				out.Issues = append(out.Issues, Issue{Location: issue.Location, Message: issue.Message})
			}
			return nil, out, nil
		}

		root, err := tree.Decode(data)
		if err != nil {
			return nil, ValidateMapOutput{}, err
		}
		return nil, ValidateMapOutput{Valid: true, Nodes: tree.Count(root)}, nil
	}
}
