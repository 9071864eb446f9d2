package database

//go:generate mockgen -destination=mocks/mock_database.go -package=mocks github.com/designcomputer/mysql-mcp/internal/database DatabaseService

import (
	"context"

	"github.com/designcomputer/mysql-mcp/internal/config"
)

// QueryExecutor defines the interface for running single statements against MySQL
type QueryExecutor interface {
	// Probe opens a connection with the given configuration and runs a
	// trivial SELECT 1 to verify reachability and credentials
	Probe(ctx context.Context, cfg *config.DBConfig) error

	// ExecuteQuery runs one SQL statement on a fresh connection and returns
	// the result formatted as plain text by statement kind
	ExecuteQuery(ctx context.Context, cfg *config.DBConfig, query string) (string, error)
}

// TableReader defines the interface for enumerating and previewing tables
type TableReader interface {
	// ListTables returns the table names reported by SHOW TABLES
	ListTables(ctx context.Context, cfg *config.DBConfig) ([]string, error)

	// ReadTable returns up to limit rows of the named table as comma-joined text
	ReadTable(ctx context.Context, cfg *config.DBConfig, table string, limit int) (string, error)
}

// DatabaseService combines statement execution and table access
type DatabaseService interface {
	QueryExecutor
	TableReader
}
