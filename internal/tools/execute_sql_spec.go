package tools

import (
	"github.com/mark3labs/mcp-go/mcp"
)

type ExecuteSQLInput struct {
	Query string `json:"query" jsonschema:"The SQL query to execute"`
}

func ExecuteSQLSpec() mcp.Tool {
	return mcp.NewTool("execute_sql",
		mcp.WithDescription("Execute an SQL query on the MySQL server"),
		mcp.WithInputSchema[ExecuteSQLInput](),
		mcp.WithTitleAnnotation("Execute SQL"),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}
