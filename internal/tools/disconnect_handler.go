package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func DisconnectHandler(deps *ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleDisconnect(ctx, request, deps)
	}
}

// handleDisconnect clears the shared state unconditionally. No connection is
// held between calls, so there is nothing to tear down beyond the record.
func handleDisconnect(_ context.Context, _ mcp.CallToolRequest, deps *ToolDependencies) (*mcp.CallToolResult, error) {
	deps.State.SetDisconnected("")
	return mcp.NewToolResultText("Disconnected from MySQL."), nil
}
