package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/designcomputer/mysql-mcp/internal/catalog"
	"github.com/designcomputer/mysql-mcp/internal/config"
	"github.com/designcomputer/mysql-mcp/internal/database"
	"github.com/designcomputer/mysql-mcp/internal/logger"
	"github.com/designcomputer/mysql-mcp/internal/state"
)

// HTTP server timeouts. ReadTimeout is short because MCP requests are small
// JSON-RPC payloads; WriteTimeout and IdleTimeout are longer to accommodate
// streaming responses and keep-alive connections.
const (
	httpReadTimeout       = 10 * time.Second
	httpWriteTimeout      = 60 * time.Second
	httpIdleTimeout       = 60 * time.Second
	httpReadHeaderTimeout = 5 * time.Second
)

// MySQLMCPServer represents the MCP server instance
type MySQLMCPServer struct {
	MCPServer *server.MCPServer
	// HTTPServerReady is closed once the HTTP server is configured and about
	// to accept connections. Used by tests to avoid sleeping on startup.
	HTTPServerReady chan struct{}

	httpServer *http.Server
	config     *config.Config
	dbService  database.DatabaseService
	connState  *state.ConnectionState
	catalog    *catalog.Catalog
	loadCfg    config.Loader
	log        *logger.Service
	version    string

	// resourceMu guards resourceURIs; list requests and tool calls can
	// refresh the catalog concurrently.
	resourceMu   sync.Mutex
	resourceURIs map[string]struct{}
}

// NewMySQLMCPServer creates a new MCP server instance.
// The config parameter is expected to be already validated.
func NewMySQLMCPServer(version string, cfg *config.Config, dbService database.DatabaseService, connState *state.ConnectionState, log *logger.Service) *MySQLMCPServer {
	s := &MySQLMCPServer{
		HTTPServerReady: make(chan struct{}),
		config:          cfg,
		dbService:       dbService,
		connState:       connState,
		loadCfg:         config.DBLoader(log.Logger),
		log:             log,
		version:         version,
		resourceURIs:    make(map[string]struct{}),
	}
	s.catalog = catalog.New(dbService, connState, log, s.loadCfg)

	s.MCPServer = server.NewMCPServer(
		"mysql-mcp",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithLogging(),
		server.WithInstructions("This is a MySQL MCP server. Establish a session with the connect tool, "+
			"browse table contents through the mysql:// resources and run arbitrary SQL statements with execute_sql."),
		server.WithHooks(s.newHooks()),
	)

	return s
}

// Start initializes and starts the MCP server using the configured transport
func (s *MySQLMCPServer) Start() error {
	log.Printf("Starting MySQL MCP Server in %s mode...", s.config.TransportMode)

	if err := s.RegisterTools(); err != nil {
		return fmt.Errorf("failed to register tools: %w", err)
	}
	s.RegisterResources()

	switch s.config.TransportMode {
	case config.TransportModeHTTP:
		return s.startHTTP()
	case config.TransportModeStdio:
		log.Println("Started MySQL MCP Server. Now listening for input...")
		return server.ServeStdio(s.MCPServer)
	default:
		return fmt.Errorf("unsupported transport mode: %s", s.config.TransportMode)
	}
}

// startHTTP initializes and starts the HTTP server
func (s *MySQLMCPServer) startHTTP() error {
	addr := fmt.Sprintf("%s:%s", s.config.HTTPHost, s.config.HTTPPort)

	streamable := server.NewStreamableHTTPServer(
		s.MCPServer,
		server.WithEndpointPath(s.config.HTTPPath),
		server.WithStateLess(true),
	)

	allowedOrigins := parseAllowedOrigins(s.config.HTTPAllowedOrigins)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           chainMiddleware(s.config, allowedOrigins, streamable),
		ReadTimeout:       httpReadTimeout,
		WriteTimeout:      httpWriteTimeout,
		IdleTimeout:       httpIdleTimeout,
		ReadHeaderTimeout: httpReadHeaderTimeout,
	}

	scheme := "http"
	if s.config.HTTPTLSEnabled {
		tlsConfig, err := s.buildTLSConfig()
		if err != nil {
			return fmt.Errorf("failed to configure TLS: %w", err)
		}
		s.httpServer.TLSConfig = tlsConfig
		scheme = "https"
	}

	log.Printf("Started MySQL MCP HTTP Server on %s://%s%s", scheme, addr, s.config.HTTPPath)
	log.Printf("Binding to network interface: %s (use 127.0.0.1 for localhost-only)", s.config.HTTPHost)
	log.Printf("Origin validation enabled with %d allowed origin(s)", len(allowedOrigins))

	// Signal readiness before the blocking accept loop.
	close(s.HTTPServerReady)

	var err error
	if s.config.HTTPTLSEnabled {
		// Certificates are already loaded into TLSConfig.
		err = s.httpServer.ListenAndServeTLS("", "")
	} else {
		err = s.httpServer.ListenAndServe()
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// buildTLSConfig loads the configured certificate pair and returns a TLS
// configuration with TLS 1.2 as the minimum version. Cipher suites are left
// nil to use the Go defaults.
func (s *MySQLMCPServer) buildTLSConfig() (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(s.config.HTTPTLSCertFile, s.config.HTTPTLSKeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// Stop gracefully stops the server
func (s *MySQLMCPServer) Stop(ctx context.Context) error {
	log.Println("Stopping MySQL MCP Server...")
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shut down HTTP server: %w", err)
		}
	}
	// Stdio transport stops when its input closes; no cleanup needed here.
	return nil
}
