//go:build e2e

package helpers

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// UniqueTable is a table name suffixed with the test id, safe to use
// concurrently with other tests against the shared database.
type UniqueTable string

func (ut UniqueTable) String() string {
	return string(ut)
}

// E2ETestContext tracks the tables a test seeds directly through SQL so they
// can be dropped again afterwards. The server under test runs as a separate
// process and only sees the tables, never this context.
type E2ETestContext struct {
	ctx           context.Context
	t             *testing.T
	TestID        string
	db            *sql.DB
	createdTables map[string]bool
}

// NewE2ETestContext returns a context whose cleanup is registered on t.
func NewE2ETestContext(t *testing.T, db *sql.DB) *E2ETestContext {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)

	tc := &E2ETestContext{
		ctx:           ctx,
		t:             t,
		TestID:        makeTestID(),
		db:            db,
		createdTables: make(map[string]bool),
	}

	t.Cleanup(func() {
		tc.Cleanup()
		cancel()
	})

	return tc
}

// Cleanup drops every table this context seeded. Failures are logged, not
// fatal: a leftover table does not invalidate the test that just ran.
func (tc *E2ETestContext) Cleanup() {
	if tc.db == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for table := range tc.createdTables {
		if _, err := tc.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			log.Printf("Warning: E2E cleanup failed for table=%s: %v", table, err)
		}
	}
}

// SeedTable creates a uniquely named table from base and inserts one row per
// given name. Rows get sequential ids starting at 1.
func (tc *E2ETestContext) SeedTable(base string, names ...string) (UniqueTable, error) {
	tc.t.Helper()

	if tc.TestID == "" {
		panic("SeedTable called on an E2ETestContext without a TestID; construct it with NewE2ETestContext")
	}

	table := UniqueTable(fmt.Sprintf("%s_%s", base, tc.TestID))
	tc.createdTables[string(table)] = true

	ddl := fmt.Sprintf("CREATE TABLE %s (id INT AUTO_INCREMENT PRIMARY KEY, name VARCHAR(64) NOT NULL)", table)
	if _, err := tc.db.ExecContext(tc.ctx, ddl); err != nil {
		return table, err
	}
	for _, name := range names {
		if _, err := tc.db.ExecContext(tc.ctx, fmt.Sprintf("INSERT INTO %s (name) VALUES (?)", table), name); err != nil {
			return table, err
		}
	}
	return table, nil
}

// makeTestID builds an id usable inside MySQL identifiers, so no dashes.
func makeTestID() string {
	return strings.ReplaceAll("e2e-"+uuid.NewString(), "-", "_")
}

// BuildInitializeRequest returns the handshake request the e2e clients send.
func BuildInitializeRequest() mcp.InitializeRequest {
	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}
	return req
}
