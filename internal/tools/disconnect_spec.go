package tools

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func DisconnectSpec() mcp.Tool {
	return mcp.NewTool("disconnect",
		mcp.WithDescription("Disconnect from the MySQL server"),
		mcp.WithTitleAnnotation("Disconnect from MySQL"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	)
}
