package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func ConnectionStatusHandler(deps *ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleConnectionStatus(ctx, request, deps)
	}
}

// handleConnectionStatus reports the shared state without touching the
// database or mutating anything.
func handleConnectionStatus(_ context.Context, _ mcp.CallToolRequest, deps *ToolDependencies) (*mcp.CallToolResult, error) {
	snap := deps.State.Snapshot()
	if snap.Connected {
		d := snap.Details
		return mcp.NewToolResultText(fmt.Sprintf(
			"Connected to MySQL at %s:%d as %s (database: %s)",
			d.Host, d.Port, d.User, d.Database,
		)), nil
	}

	msg := "Not connected to MySQL."
	if snap.LastError != "" {
		msg += " Last error: " + snap.LastError
	}
	return mcp.NewToolResultText(msg), nil
}
