package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	// Registers the mysql driver with database/sql.
	_ "github.com/go-sql-driver/mysql"

	"github.com/designcomputer/mysql-mcp/internal/config"
)

// MySQLService is the concrete implementation of DatabaseService. It holds
// no connection of its own: every call opens a fresh connection from the
// supplied configuration and closes it before returning, so a dead server
// never wedges the process and credential changes apply immediately.
type MySQLService struct {
	// openDB is swapped in tests to inject a mock connection.
	openDB func(dsn string) (*sql.DB, error)
}

// NewMySQLService creates a new MySQLService instance
func NewMySQLService() *MySQLService {
	return &MySQLService{openDB: openSingleConn}
}

func openSingleConn(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	// One connection, nothing idles between calls.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(0)
	return db, nil
}

// open dials the server and verifies the handshake. Callers own the
// returned handle and must close it on every exit path.
func (s *MySQLService) open(ctx context.Context, cfg *config.DBConfig) (*sql.DB, error) {
	db, err := s.openDB(FormatDSN(cfg))
	if err != nil {
		return nil, classify(err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, classify(err)
	}
	return db, nil
}

// Probe opens a connection and runs a trivial statement to verify the
// server is reachable and the credentials are valid.
func (s *MySQLService) Probe(ctx context.Context, cfg *config.DBConfig) error {
	db, err := s.open(ctx, cfg)
	if err != nil {
		log.Printf("Failed to verify MySQL connectivity: %v", err)
		return err
	}
	defer db.Close()

	var one int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		log.Printf("Failed to verify MySQL connectivity: %v", err)
		return classify(err)
	}
	return nil
}

// ExecuteQuery runs a single statement on a fresh connection and formats the
// outcome by statement kind: SHOW TABLES and SELECT return their rows as
// text, anything else is executed and reported by affected-row count.
func (s *MySQLService) ExecuteQuery(ctx context.Context, cfg *config.DBConfig, query string) (string, error) {
	db, err := s.open(ctx, cfg)
	if err != nil {
		log.Printf("Error opening connection for query: %v", err)
		return "", err
	}
	defer db.Close()

	trimmed := strings.ToUpper(strings.TrimSpace(query))
	switch {
	case strings.HasPrefix(trimmed, "SHOW TABLES"):
		tables, err := queryTables(ctx, db, query)
		if err != nil {
			return "", err
		}
		return FormatShowTables(tables, cfg.Database), nil

	case strings.HasPrefix(trimmed, "SELECT"):
		columns, rows, err := queryRows(ctx, db, query)
		if err != nil {
			return "", err
		}
		return FormatRows(columns, rows), nil

	default:
		res, err := db.ExecContext(ctx, query)
		if err != nil {
			log.Printf("Error executing statement: %v", err)
			return "", classify(err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return "", classify(err)
		}
		return fmt.Sprintf("Query executed successfully. Rows affected: %d", affected), nil
	}
}

// ListTables returns the table names reported by SHOW TABLES.
func (s *MySQLService) ListTables(ctx context.Context, cfg *config.DBConfig) ([]string, error) {
	db, err := s.open(ctx, cfg)
	if err != nil {
		log.Printf("Error opening connection to list tables: %v", err)
		return nil, err
	}
	defer db.Close()

	return queryTables(ctx, db, "SHOW TABLES")
}

// ReadTable returns up to limit rows of the named table, formatted the same
// way as a SELECT result. The table name is interpolated without quoting or
// parameterization.
func (s *MySQLService) ReadTable(ctx context.Context, cfg *config.DBConfig, table string, limit int) (string, error) {
	db, err := s.open(ctx, cfg)
	if err != nil {
		log.Printf("Error opening connection to read table %s: %v", table, err)
		return "", err
	}
	defer db.Close()

	columns, rows, err := queryRows(ctx, db, fmt.Sprintf("SELECT * FROM %s LIMIT %d", table, limit))
	if err != nil {
		return "", err
	}
	return FormatRows(columns, rows), nil
}

// queryRows fetches all rows of a result set as strings. NULL renders as
// "NULL"; every other value keeps the textual form the server sent.
func queryRows(ctx context.Context, db *sql.DB, query string) ([]string, [][]string, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		log.Printf("Error executing query: %v", err)
		return nil, nil, classify(err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, classify(err)
	}

	var results [][]string
	for rows.Next() {
		raw := make([]sql.RawBytes, len(columns))
		dest := make([]any, len(columns))
		for i := range raw {
			dest[i] = &raw[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, nil, classify(err)
		}
		row := make([]string, len(columns))
		for i, cell := range raw {
			if cell == nil {
				row[i] = "NULL"
			} else {
				row[i] = string(cell)
			}
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, classify(err)
	}
	return columns, results, nil
}

// queryTables runs a SHOW TABLES variant and collects the first column of
// every row.
func queryTables(ctx context.Context, db *sql.DB, query string) ([]string, error) {
	_, rows, err := queryRows(ctx, db, query)
	if err != nil {
		return nil, err
	}
	tables := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) > 0 {
			tables = append(tables, row[0])
		}
	}
	return tables, nil
}
