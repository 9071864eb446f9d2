package tools

import (
	"github.com/designcomputer/mysql-mcp/internal/config"
	"github.com/designcomputer/mysql-mcp/internal/database"
	"github.com/designcomputer/mysql-mcp/internal/logger"
	"github.com/designcomputer/mysql-mcp/internal/state"
)

// ToolDependencies contains all dependencies needed by tools
type ToolDependencies struct {
	DBService database.DatabaseService
	State     *state.ConnectionState
	Log       *logger.Service

	// LoadDBConfig builds the per-call connection configuration. It runs on
	// every invocation so the handlers always see the live environment.
	LoadDBConfig config.Loader
}
