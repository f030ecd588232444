// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes maptools capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/maptools/maptools"
)

const serverInstructions = `maptools MCP server — applies declarative mapping descriptors to JSON documents.

Configuration: defaults are configurable via MAPTOOLS_MCP_* environment variables set in your MCP client config.

Key settings:
- MAPTOOLS_MCP_ERROR_LIMIT (default: 100) — maximum validation issues returned per call
- MAPTOOLS_MCP_MAX_INPUT_BYTES (default: 4194304) — maximum inline document size

Mappings pair target JSON Pointers with source descriptors; see the map tool description for the accepted document shapes. All tools accept mapping and input documents either inline (content) or as file paths.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "maptools", Version: maptools.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "map",
		Description: "Apply a mapping document to an input JSON document. Returns the produced output document, a valid flag, and any validation issues. The mapping may be a {\"mapping\": {...}} descriptor, a bare pairs object, or a {\"mappings\": [...]} container (the last $id-carrying entry is evaluated).",
	}, handleMap)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_mapping",
		Description: "Apply a mapping document to an input JSON document and report only the validation outcome: the valid flag and the recorded issues, without the output document. Use this to check constraint conformance cheaply.",
	}, handleValidateMapping)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_mappings",
		Description: "List the mappings registered by a mapping document: each $id with its description and pairing count. Useful to inspect a mappings container before choosing what to evaluate.",
	}, handleListMappings)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

// makeSlice returns nil for n==0 so empty results serialize as absent fields.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}
