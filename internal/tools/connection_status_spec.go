package tools

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func ConnectionStatusSpec() mcp.Tool {
	return mcp.NewTool("connection_status",
		mcp.WithDescription("Check the current MySQL connection status"),
		mcp.WithTitleAnnotation("Connection Status"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	)
}
