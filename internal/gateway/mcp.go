package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewMCPServer exposes every gateway operation as an MCP tool.
func NewMCPServer(d *Dispatcher, version string) (*mcp.Server, error) {
	server := mcp.NewServer(&mcp.Implementation{Name: "ai-logger", Version: version}, nil)
	for _, op := range Operations {
		var schema map[string]any
		if err := json.Unmarshal([]byte(op.SchemaJSON), &schema); err != nil {
			return nil, fmt.Errorf("schema for %s: %w", op.Name, err)
		}
		server.AddTool(&mcp.Tool{
			Name:        op.Name,
			Description: op.Description,
			InputSchema: schema,
		}, d.toolHandler(op.Name))
	}
	return server, nil
}

func (d *Dispatcher) toolHandler(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args map[string]any
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return errorResult(fmt.Sprintf("%s: invalid arguments: %v", name, err)), nil
			}
		}
		res := d.Call(ctx, name, args)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: res.Text}},
			IsError: res.IsError,
		}, nil
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

// Serve runs the MCP server over stdio until the client disconnects or ctx
// is cancelled.
func Serve(ctx context.Context, d *Dispatcher, version string) error {
	server, err := NewMCPServer(d, version)
	if err != nil {
		return err
	}
	return server.Run(ctx, &mcp.StdioTransport{})
}
