package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/zarSou9/tr-migrator/internal/transcode"
	"github.com/zarSou9/tr-migrator/internal/tree"
)

// --- Shared types ---

// DanglingLink is a link whose target is not in the tree.
type DanglingLink struct {
	NodeID   string `json:"node_id"   jsonschema:"ID of the node holding the link"`
	TargetID string `json:"target_id" jsonschema:"ID the link points to"`
}

// SkippedDir is a subtree left out of a decoded tree.
type SkippedDir struct {
	Path   string `json:"path"   jsonschema:"directory that was skipped"`
	Reason string `json:"reason" jsonschema:"why it was skipped"`
}

// UnresolvedLink is a link path that matched no node directory.
type UnresolvedLink struct {
	NodeID string `json:"node_id" jsonschema:"ID of the node holding the link"`
	Path   string `json:"path"    jsonschema:"link target as written"`
}

// --- to_directories tool ---

// ToDirectoriesInput is the input for the to_directories tool.
type ToDirectoriesInput struct {
	MapPath    string `json:"map_path"             jsonschema:"path to the JSON tree document"`
	OutDir     string `json:"out_dir"              jsonschema:"directory to write the root node directory into"`
	Identifier string `json:"identifier,omitempty" jsonschema:"suffix marking breakdown directories (default .)"`
	NoMarkdown bool   `json:"no_markdown,omitempty" jsonschema:"keep HTML fields as HTML instead of converting to markdown"`
	NoOrder    bool   `json:"no_order,omitempty"    jsonschema:"do not write Order sections"`
}

// ToDirectoriesOutput is the output for the to_directories tool.
type ToDirectoriesOutput struct {
	RootDir       string         `json:"root_dir"                 jsonschema:"root node directory that was written"`
	Nodes         int            `json:"nodes"                    jsonschema:"number of node directories written"`
	Breakdowns    int            `json:"breakdowns"               jsonschema:"number of breakdown directories written"`
	DanglingLinks []DanglingLink `json:"dangling_links,omitempty" jsonschema:"links whose target is not in the tree"`
}

func handleToDirectories(defaults Defaults) mcp.ToolHandlerFor[ToDirectoriesInput, ToDirectoriesOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ToDirectoriesInput) (*mcp.CallToolResult, ToDirectoriesOutput, error) {
		if input.MapPath == "" || input.OutDir == "" {
			return nil, ToDirectoriesOutput{}, errors.New("map_path and out_dir are required")
		}
		opts, err := defaults.options(input.Identifier, input.NoMarkdown, input.NoOrder)
		if err != nil {
			return nil, ToDirectoriesOutput{}, err
		}

		root, err := tree.Load(input.MapPath, defaults.ValidateSchema)
		if err != nil {
			return nil, ToDirectoriesOutput{}, err
		}

		res, err := transcode.NewEncoder(opts).Encode(root, input.OutDir)
		if err != nil {
			return nil, ToDirectoriesOutput{}, fmt.Errorf("writing directories: %w", err)
		}

		return nil, ToDirectoriesOutput{
			RootDir:       res.RootDir,
			Nodes:         res.Nodes,
			Breakdowns:    res.Breakdowns,
			DanglingLinks: toDanglingLinks(res.DanglingLinks),
		}, nil
	}
}

// --- from_directories tool ---

// FromDirectoriesInput is the input for the from_directories tool.
type FromDirectoriesInput struct {
	RootDir    string `json:"root_dir"              jsonschema:"root node directory to read"`
	OutFile    string `json:"out_file,omitempty"    jsonschema:"where to write the JSON tree; empty returns it inline"`
	Identifier string `json:"identifier,omitempty"  jsonschema:"suffix marking breakdown directories (default .)"`
	NoMarkdown bool   `json:"no_markdown,omitempty" jsonschema:"keep text as written instead of converting markdown to HTML"`
}

// FromDirectoriesOutput is the output for the from_directories tool.
type FromDirectoriesOutput struct {
	Nodes      int              `json:"nodes"                jsonschema:"number of nodes read"`
	OutFile    string           `json:"out_file,omitempty"   jsonschema:"file the tree was written to"`
	Tree       string           `json:"tree,omitempty"       jsonschema:"the JSON tree when out_file is empty"`
	Unresolved []UnresolvedLink `json:"unresolved,omitempty" jsonschema:"links whose path matched no node"`
	Skipped    []SkippedDir     `json:"skipped,omitempty"    jsonschema:"subtrees left out"`
}

func handleFromDirectories(defaults Defaults) mcp.ToolHandlerFor[FromDirectoriesInput, FromDirectoriesOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input FromDirectoriesInput) (*mcp.CallToolResult, FromDirectoriesOutput, error) {
		if input.RootDir == "" {
			return nil, FromDirectoriesOutput{}, errors.New("root_dir is required")
		}
		opts, err := defaults.options(input.Identifier, input.NoMarkdown, false)
		if err != nil {
			return nil, FromDirectoriesOutput{}, err
		}

		res, err := transcode.NewDecoder(opts).Decode(input.RootDir)
		if err != nil {
			return nil, FromDirectoriesOutput{}, fmt.Errorf("reading directories: %w", err)
		}

		out := FromDirectoriesOutput{
			Nodes:   tree.Count(res.Root),
			Skipped: toSkipped(res.Skipped),
		}
		for _, u := range res.Unresolved {
			out.Unresolved = append(out.Unresolved, UnresolvedLink{NodeID: u.NodeID, Path: u.Path})
		}

		if input.OutFile == "" {
			data, err := tree.Encode(res.Root, "")
			if err != nil {
				return nil, FromDirectoriesOutput{}, err
			}
			out.Tree = string(data)
			return nil, out, nil
		}
		if err := tree.WriteFile(input.OutFile, res.Root, ""); err != nil {
			return nil, FromDirectoriesOutput{}, err
		}
		out.OutFile = input.OutFile
		return nil, out, nil
	}
}
