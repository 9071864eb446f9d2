package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func (s *MySQLMCPServer) newHooks() *server.Hooks {
	hooks := &server.Hooks{}
	hooks.AddBeforeCallTool(s.onBeforeCallToolHook)
	hooks.AddAfterCallTool(s.onAfterCallToolHook)
	hooks.AddBeforeListResources(s.onBeforeListResourcesHook)
	hooks.AddAfterSetLevel(s.onAfterSetLevelHook)
	return hooks
}

// onBeforeCallToolHook logs every tool invocation together with its raw arguments.
func (s *MySQLMCPServer) onBeforeCallToolHook(_ context.Context, _ any, message *mcp.CallToolRequest) {
	s.log.Info("Calling tool", "name", message.Params.Name, "arguments", message.Params.Arguments)
}

// onAfterCallToolHook refreshes the resource catalog after tools that change
// the connection state, so clients get a list_changed notification promptly.
func (s *MySQLMCPServer) onAfterCallToolHook(ctx context.Context, _ any, message *mcp.CallToolRequest, _ any) {
	switch message.Params.Name {
	case "connect", "disconnect":
		s.syncResources(ctx)
	}
}

// onBeforeListResourcesHook reconciles the registered resources with the live
// database right before the list is served.
func (s *MySQLMCPServer) onBeforeListResourcesHook(ctx context.Context, _ any, _ *mcp.ListResourcesRequest) {
	s.syncResources(ctx)
}

// onAfterSetLevelHook is called after the SetLevel method is executed. It updates the server's logger level.
func (s *MySQLMCPServer) onAfterSetLevelHook(_ context.Context, _ any, message *mcp.SetLevelRequest, _ *mcp.EmptyResult) {
	newLevel := string(message.Params.Level) // Convert mcp.LoggingLevel to string
	s.log.SetLevel(newLevel)
	s.log.Info("Log level changed via MCP", "new_level", newLevel)
}
