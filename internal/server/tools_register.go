package server

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/designcomputer/mysql-mcp/internal/tools"
)

// RegisterTools adds the MySQL tools to the MCP server. In read-only mode
// (MYSQL_READ_ONLY or --mysql-read-only) only tools whose ReadOnlyHint
// annotation is true survive the filter; a tool without the annotation
// counts as mutating.
func (s *MySQLMCPServer) RegisterTools() error {
	deps := &tools.ToolDependencies{
		DBService:    s.dbService,
		State:        s.connState,
		Log:          s.log,
		LoadDBConfig: s.loadCfg,
	}

	registered := toolSet(deps)
	if s.config != nil && s.config.ReadOnly {
		kept := registered[:0]
		for _, t := range registered {
			if t.Tool.Annotations.ReadOnlyHint != nil && *t.Tool.Annotations.ReadOnlyHint {
				kept = append(kept, t)
			}
		}
		registered = kept
	}

	s.MCPServer.AddTools(registered...)
	return nil
}

// toolSet builds the full tool list with handlers bound to deps.
func toolSet(deps *tools.ToolDependencies) []server.ServerTool {
	return []server.ServerTool{
		{Tool: tools.ConnectSpec(), Handler: tools.ConnectHandler(deps)},
		{Tool: tools.DisconnectSpec(), Handler: tools.DisconnectHandler(deps)},
		{Tool: tools.ConnectionStatusSpec(), Handler: tools.ConnectionStatusHandler(deps)},
		{Tool: tools.ExecuteSQLSpec(), Handler: tools.ExecuteSQLHandler(deps)},
	}
}
