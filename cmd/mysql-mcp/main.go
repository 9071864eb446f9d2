package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/designcomputer/mysql-mcp/internal/cli"
	"github.com/designcomputer/mysql-mcp/internal/config"
	"github.com/designcomputer/mysql-mcp/internal/database"
	"github.com/designcomputer/mysql-mcp/internal/logger"
	"github.com/designcomputer/mysql-mcp/internal/server"
	"github.com/designcomputer/mysql-mcp/internal/state"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Handle -h/-v and reject unknown arguments before flag parsing.
	cli.HandleArgs(version)

	mysqlHost := flag.String("mysql-host", "", "MySQL server hostname (overrides MYSQL_HOST)")
	mysqlPort := flag.String("mysql-port", "", "MySQL server port (overrides MYSQL_PORT)")
	mysqlUser := flag.String("mysql-user", "", "MySQL username (overrides MYSQL_USER)")
	mysqlPassword := flag.String("mysql-password", "", "MySQL password (overrides MYSQL_PASSWORD)")
	mysqlDatabase := flag.String("mysql-database", "", "MySQL database name (overrides MYSQL_DATABASE)")
	readOnly := flag.String("mysql-read-only", "", "Expose only read-only tools (overrides MYSQL_READ_ONLY)")
	transportMode := flag.String("mysql-transport-mode", "", "Transport mode: stdio or http (overrides MYSQL_MCP_TRANSPORT)")
	httpPort := flag.String("mysql-http-port", "", "HTTP server port (overrides MYSQL_MCP_HTTP_PORT)")
	httpHost := flag.String("mysql-http-host", "", "HTTP server bind address (overrides MYSQL_MCP_HTTP_HOST)")
	httpPath := flag.String("mysql-http-path", "", "HTTP endpoint path (overrides MYSQL_MCP_HTTP_PATH)")
	allowedOrigins := flag.String("mysql-http-allowed-origins", "", "Comma-separated allowed CORS origins (overrides MYSQL_MCP_HTTP_ALLOWED_ORIGINS)")
	tlsEnabled := flag.String("mysql-http-tls-enabled", "", "Enable TLS for the HTTP server (overrides MYSQL_MCP_HTTP_TLS_ENABLED)")
	tlsCertFile := flag.String("mysql-http-tls-cert-file", "", "TLS certificate file (overrides MYSQL_MCP_HTTP_TLS_CERT_FILE)")
	tlsKeyFile := flag.String("mysql-http-tls-key-file", "", "TLS private key file (overrides MYSQL_MCP_HTTP_TLS_KEY_FILE)")
	flag.Parse()

	cfg, err := config.LoadConfig(&config.CLIOverrides{
		MySQLHost:      *mysqlHost,
		MySQLPort:      *mysqlPort,
		MySQLUser:      *mysqlUser,
		MySQLPassword:  *mysqlPassword,
		MySQLDatabase:  *mysqlDatabase,
		ReadOnly:       *readOnly,
		TransportMode:  *transportMode,
		Port:           *httpPort,
		Host:           *httpHost,
		Path:           *httpPath,
		AllowedOrigins: *allowedOrigins,
		TLSEnabled:     *tlsEnabled,
		TLSCertFile:    *tlsCertFile,
		TLSKeyFile:     *tlsKeyFile,
	})
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Logs go to stderr: in stdio mode stdout carries the MCP protocol stream.
	appLogger := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	appLogger.Info("Starting MySQL MCP server...")

	// Probe the database configuration for diagnostics only. The server starts
	// either way; connections are established later by the connect tool.
	if dbCfg, err := config.LoadDBConfig(context.Background(), appLogger.Logger); err != nil {
		appLogger.Error("Error during startup: " + err.Error())
	} else {
		appLogger.Info(fmt.Sprintf("Database config available: %s/%s as %s", dbCfg.Host, dbCfg.Database, dbCfg.User))
		appLogger.Info("Use the 'connect' tool to establish a connection to MySQL")
	}

	dbService := database.NewMySQLService()
	connState := state.New()

	mcpServer := server.NewMySQLMCPServer(version, cfg, dbService, connState, appLogger)

	// Gracefully handle shutdown
	defer func() {
		if err := mcpServer.Stop(context.Background()); err != nil {
			log.Fatalf("Error stopping server: %v", err)
		}
	}()

	// Start the server (this blocks until the server is stopped)
	if err := mcpServer.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
