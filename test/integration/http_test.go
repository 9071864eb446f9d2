//go:build integration

package integration

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/designcomputer/mysql-mcp/internal/config"
	"github.com/designcomputer/mysql-mcp/internal/database"
	"github.com/designcomputer/mysql-mcp/internal/logger"
	"github.com/designcomputer/mysql-mcp/internal/server"
	"github.com/designcomputer/mysql-mcp/internal/state"
)

// TestHTTPTransport drives the full server over streamable HTTP against the
// shared MySQL instance. Credentials travel in the Authorization header and
// reach the database through the per-call configuration, never through the
// server process environment.
func TestHTTPTransport(t *testing.T) {
	// No t.Parallel: the test mutates the process environment.
	cfg := dbs.GetDBConfig()
	t.Setenv("MYSQL_HOST", cfg.Host)
	t.Setenv("MYSQL_PORT", strconv.Itoa(cfg.Port))
	t.Setenv("MYSQL_DATABASE", cfg.Database)
	t.Setenv("MYSQL_USER", "")
	t.Setenv("MYSQL_PASSWORD", "")

	port := getFreePort(t)
	srvCfg := &config.Config{
		LogLevel:      "error",
		LogFormat:     "text",
		TransportMode: config.TransportModeHTTP,
		HTTPHost:      "127.0.0.1",
		HTTPPort:      strconv.Itoa(port),
		HTTPPath:      "/mcp",
	}

	s := server.NewMySQLMCPServer("test-version", srvCfg, database.NewMySQLService(), state.New(), logger.New("error", "text", io.Discard))
	errChan := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil {
			errChan <- err
		}
	}()
	<-s.HTTPServerReady
	// Give ListenAndServe a moment to enter its accept loop.
	time.Sleep(100 * time.Millisecond)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Stop(ctx); err != nil {
			t.Errorf("failed to stop server: %v", err)
		}
		select {
		case err := <-errChan:
			t.Errorf("server returned error: %v", err)
		default:
		}
	})

	url := fmt.Sprintf("http://127.0.0.1:%d/mcp", port)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	t.Run("connect succeeds with header credentials", func(t *testing.T) {
		mcpClient := newHTTPClient(t, url, cfg.User+":"+cfg.Password)
		if _, err := mcpClient.Initialize(ctx, mcp.InitializeRequest{}); err != nil {
			t.Fatalf("error while initialize request: %v", err)
		}

		req := mcp.CallToolRequest{}
		req.Params.Name = "connect"
		res, err := mcpClient.CallTool(ctx, req)
		if err != nil {
			t.Fatalf("failed to call connect: %v", err)
		}
		if res.IsError {
			t.Fatalf("connect returned error: %+v", res)
		}
		textContent, ok := mcp.AsTextContent(res.Content[0])
		if !ok {
			t.Fatalf("expected TextContent, got %T", res.Content[0])
		}
		want := fmt.Sprintf("Successfully connected to MySQL at %s:%d as %s (database: %s)",
			cfg.Host, cfg.Port, cfg.User, cfg.Database)
		if textContent.Text != want {
			t.Errorf("expected %q, got %q", want, textContent.Text)
		}
	})

	t.Run("tool call without credentials is rejected", func(t *testing.T) {
		mcpClient := newHTTPClient(t, url, "")
		// Initialization is a protocol method and needs no credentials.
		if _, err := mcpClient.Initialize(ctx, mcp.InitializeRequest{}); err != nil {
			t.Fatalf("error while initialize request: %v", err)
		}

		// The middleware answers 401 before the handler runs, which the
		// client surfaces as a transport error.
		req := mcp.CallToolRequest{}
		req.Params.Name = "connect"
		if _, err := mcpClient.CallTool(ctx, req); err == nil {
			t.Fatal("expected tool call without credentials to fail")
		}
	})
}

func newHTTPClient(t *testing.T, url, basicCreds string) *client.Client {
	t.Helper()

	opts := []transport.StreamableHTTPCOption{
		transport.WithHTTPTimeout(30 * time.Second),
	}
	if basicCreds != "" {
		opts = append(opts, transport.WithHTTPHeaders(map[string]string{
			"Authorization": "Basic " + base64.StdEncoding.EncodeToString([]byte(basicCreds)),
		}))
	}
	httpTransport, err := transport.NewStreamableHTTP(url, opts...)
	if err != nil {
		t.Fatalf("failed to create StreamableHTTP transport: %v", err)
	}
	return client.NewClient(httpTransport)
}

func getFreePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}
