package tools

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// ConnectInput carries the optional per-call overrides for the connection
// probe. Absent fields fall back to the environment-derived configuration.
type ConnectInput struct {
	Host     string `json:"host,omitempty" jsonschema:"MySQL server hostname (defaults to env var or localhost)"`
	Port     int    `json:"port,omitempty" jsonschema:"MySQL server port (defaults to env var or 3306)"`
	User     string `json:"user,omitempty" jsonschema:"MySQL username (defaults to env var)"`
	Password string `json:"password,omitempty" jsonschema:"MySQL password (defaults to env var)"`
	Database string `json:"database,omitempty" jsonschema:"MySQL database name (defaults to env var)"`
}

func ConnectSpec() mcp.Tool {
	return mcp.NewTool("connect",
		mcp.WithDescription("Connect to the MySQL server"),
		mcp.WithInputSchema[ConnectInput](),
		mcp.WithTitleAnnotation("Connect to MySQL"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}
