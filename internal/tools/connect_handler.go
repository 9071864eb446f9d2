package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/designcomputer/mysql-mcp/internal/config"
	"github.com/designcomputer/mysql-mcp/internal/database"
	"github.com/designcomputer/mysql-mcp/internal/state"
)

func ConnectHandler(deps *ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleConnect(ctx, request, deps)
	}
}

// handleConnect loads the base configuration, applies any caller-supplied
// overrides, and verifies the target with a probe query. Only a successful
// probe moves the shared state to connected; every failure records the
// reason and leaves it disconnected.
func handleConnect(ctx context.Context, request mcp.CallToolRequest, deps *ToolDependencies) (*mcp.CallToolResult, error) {
	var args ConnectInput
	if err := request.BindArguments(&args); err != nil {
		deps.Log.Error("Error binding connect arguments", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	cfg, err := deps.LoadDBConfig(ctx)
	if err != nil {
		// Missing required configuration is a fault for the transport
		// layer, matching the startup diagnostics.
		return nil, err
	}

	cfg.Apply(config.Overrides{
		Host:     args.Host,
		Port:     args.Port,
		User:     args.User,
		Password: args.Password,
		Database: args.Database,
	})

	if err := deps.DBService.Probe(ctx, cfg); err != nil {
		deps.State.SetDisconnected(err.Error())
		var queryErr *database.QueryError
		if errors.As(err, &queryErr) {
			return mcp.NewToolResultError("Database error: " + err.Error()), nil
		}
		return mcp.NewToolResultError("Failed to connect to MySQL: " + err.Error()), nil
	}

	deps.State.SetConnected(state.Details{
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Database: cfg.Database,
	})

	return mcp.NewToolResultText(fmt.Sprintf(
		"Successfully connected to MySQL at %s:%d as %s (database: %s)",
		cfg.Host, cfg.Port, cfg.User, cfg.Database,
	)), nil
}
