package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/designcomputer/mysql-mcp/internal/database"
)

func ExecuteSQLHandler(deps *ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleExecuteSQL(ctx, request, deps)
	}
}

// handleExecuteSQL runs one statement against the environment-derived
// configuration. Overrides given to a prior connect call are deliberately
// not reused here; only the live environment decides where the statement
// runs. The connected check happens before anything touches the database.
func handleExecuteSQL(ctx context.Context, request mcp.CallToolRequest, deps *ToolDependencies) (*mcp.CallToolResult, error) {
	if !deps.State.IsConnected() {
		return mcp.NewToolResultError("Not connected to MySQL. Please use the 'connect' tool first."), nil
	}

	var args ExecuteSQLInput
	if err := request.BindArguments(&args); err != nil {
		deps.Log.Error("Error binding execute_sql arguments", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	// A missing query is a caller bug, not a database outcome, so it
	// propagates as a fault rather than a text result.
	if args.Query == "" {
		return nil, fmt.Errorf("Query is required")
	}

	cfg, err := deps.LoadDBConfig(ctx)
	if err != nil {
		return nil, err
	}

	deps.Log.Info("Executing SQL query", "query", args.Query)

	result, err := deps.DBService.ExecuteQuery(ctx, cfg, args.Query)
	if err != nil {
		var connErr *database.ConnectionError
		if errors.As(err, &connErr) {
			deps.State.SetDisconnected(err.Error())
			return mcp.NewToolResultError(fmt.Sprintf(
				"Connection lost: %s. Please reconnect using the 'connect' tool.", err.Error(),
			)), nil
		}
		return mcp.NewToolResultError("Error executing query: " + err.Error()), nil
	}

	return mcp.NewToolResultText(result), nil
}
