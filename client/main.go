// A small smoke-test client for the MySQL MCP server. It launches the server
// binary over stdio, walks through the protocol handshake and exercises every
// tool once:
//
//	go run ./client/... bin/mysql-mcp
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

const clientTimeout = 60 * time.Second

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run ./client/... <path-to-server-binary> [server args...]")
	}

	ctx, cancel := context.WithTimeout(context.Background(), clientTimeout)
	defer cancel()

	c, err := client.NewStdioMCPClient(os.Args[1], os.Environ(), os.Args[2:]...)
	if err != nil {
		log.Fatalf("Failed to launch server: %v", err)
	}
	defer c.Close()
	relayServerLog(c)

	if err := c.Start(ctx); err != nil {
		log.Fatalf("Failed to start client: %v", err)
	}

	initRequest := mcp.InitializeRequest{}
	initRequest.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initRequest.Params.ClientInfo = mcp.Implementation{
		Name:    "mysql-mcp-debug-client",
		Version: "0.1.0",
	}

	serverInfo, err := c.Initialize(ctx, initRequest)
	if err != nil {
		log.Fatalf("Initialize failed: %v", err)
	}
	fmt.Printf("Talking to %s %s\n", serverInfo.ServerInfo.Name, serverInfo.ServerInfo.Version)

	if err := c.Ping(ctx); err != nil {
		log.Fatalf("Ping failed: %v", err)
	}

	if serverInfo.Capabilities.Tools != nil {
		listTools(ctx, c)
	}

	// connection_status answers even when no database is reachable, so it is
	// a good first probe for the MYSQL_* environment.
	fmt.Println("\n> connection_status")
	fmt.Println(callTool(ctx, c, "connection_status", nil))

	fmt.Println("\n> connect")
	fmt.Println(callTool(ctx, c, "connect", nil))

	fmt.Println("\n> execute_sql SHOW TABLES")
	fmt.Println(callTool(ctx, c, "execute_sql", map[string]any{"query": "SHOW TABLES"}))

	if serverInfo.Capabilities.Resources != nil {
		browseResources(ctx, c)
	}

	fmt.Println("\n> disconnect")
	fmt.Println(callTool(ctx, c, "disconnect", nil))
}

func listTools(ctx context.Context, c *client.Client) {
	result, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		log.Fatalf("ListTools failed: %v", err)
	}
	fmt.Printf("Server exposes %d tools:\n", len(result.Tools))
	for _, tool := range result.Tools {
		fmt.Printf("  %s - %s\n", tool.Name, tool.Description)
	}
}

// callTool runs a single tool call and renders the textual result. Tool
// failures are part of the result, so they get printed rather than aborting
// the walkthrough.
func callTool(ctx context.Context, c *client.Client, name string, args map[string]any) string {
	request := mcp.CallToolRequest{}
	request.Params.Name = name
	request.Params.Arguments = args

	result, err := c.CallTool(ctx, request)
	if err != nil {
		log.Fatalf("Calling %s failed: %v", name, err)
	}

	var parts []string
	for _, content := range result.Content {
		if text, ok := mcp.AsTextContent(content); ok {
			parts = append(parts, text.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func browseResources(ctx context.Context, c *client.Client) {
	result, err := c.ListResources(ctx, mcp.ListResourcesRequest{})
	if err != nil {
		log.Fatalf("ListResources failed: %v", err)
	}
	fmt.Printf("\nServer exposes %d resources:\n", len(result.Resources))
	for _, resource := range result.Resources {
		fmt.Printf("  %s (%s)\n", resource.URI, resource.Name)
	}
	if len(result.Resources) == 0 {
		return
	}

	// Read the first table so the whole catalog path gets exercised.
	uri := result.Resources[0].URI
	fmt.Printf("\n> read %s\n", uri)
	readRequest := mcp.ReadResourceRequest{}
	readRequest.Params.URI = uri
	readResult, err := c.ReadResource(ctx, readRequest)
	if err != nil {
		log.Fatalf("ReadResource failed: %v", err)
	}
	for _, content := range readResult.Contents {
		if text, ok := content.(mcp.TextResourceContents); ok {
			fmt.Println(text.Text)
		}
	}
}

// relayServerLog copies the server's stderr to ours so its log lines stay
// visible next to the client output.
func relayServerLog(c *client.Client) {
	stderr, ok := client.GetStderr(c)
	if !ok {
		return
	}
	go func() {
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			fmt.Fprintf(os.Stderr, "[server] %s\n", scanner.Text())
		}
	}()
}
