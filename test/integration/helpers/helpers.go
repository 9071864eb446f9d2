//go:build integration

package helpers

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/designcomputer/mysql-mcp/internal/config"
	"github.com/designcomputer/mysql-mcp/internal/database"
	"github.com/designcomputer/mysql-mcp/internal/logger"
	"github.com/designcomputer/mysql-mcp/internal/state"
	"github.com/designcomputer/mysql-mcp/internal/tools"
)

// UniqueTable is a table name suffixed with the test id, safe to use
// concurrently with other tests against the shared MySQL instance.
type UniqueTable string

func (ut UniqueTable) String() string {
	return string(ut)
}

// TestContext wires a tool dependency set to the shared MySQL test instance
// and tracks the tables a test creates so they can be dropped afterwards.
type TestContext struct {
	Ctx    context.Context
	T      *testing.T
	TestID string
	DB     *sql.DB
	Cfg    *config.DBConfig
	Deps   *tools.ToolDependencies

	mu            sync.Mutex
	createdTables []string
}

// NewTestContext builds a context whose cleanup runs when the test finishes.
// Each context gets its own connection state, so tests can connect and
// disconnect without affecting each other.
func NewTestContext(t *testing.T, db *sql.DB, cfg *config.DBConfig) *TestContext {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)

	tc := &TestContext{
		Ctx:    ctx,
		T:      t,
		TestID: makeTestID(),
		DB:     db,
		Cfg:    cfg,
	}
	tc.Deps = &tools.ToolDependencies{
		DBService:    database.NewMySQLService(),
		State:        state.New(),
		Log:          logger.New("error", "text", io.Discard),
		LoadDBConfig: tc.Loader(),
	}

	t.Cleanup(func() {
		tc.Cleanup()
		cancel()
	})

	return tc
}

// Loader returns a per-call configuration loader bound to the shared test
// instance. Every call yields a fresh copy so connect overrides never leak
// into other calls.
func (tc *TestContext) Loader() config.Loader {
	return func(ctx context.Context) (*config.DBConfig, error) {
		cfg := *tc.Cfg
		return &cfg, nil
	}
}

// Cleanup drops every table the test created. Failures are logged, not
// fatal: a leftover table does not invalidate the test that just ran.
func (tc *TestContext) Cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tc.mu.Lock()
	tables := append([]string(nil), tc.createdTables...)
	tc.mu.Unlock()

	for _, table := range tables {
		if _, err := tc.DB.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			log.Printf("Warning: cleanup failed for table=%s: %v", table, err)
		}
	}
}

// SeedTable creates a table with a unique name and one row per given name.
// Rows get sequential ids starting at 1.
func (tc *TestContext) SeedTable(base string, names ...string) (UniqueTable, error) {
	tc.T.Helper()

	table := tc.GetUniqueTable(base)

	ddl := fmt.Sprintf("CREATE TABLE %s (id INT AUTO_INCREMENT PRIMARY KEY, name VARCHAR(64) NOT NULL)", table)
	if _, err := tc.DB.ExecContext(tc.Ctx, ddl); err != nil {
		return table, err
	}
	for _, name := range names {
		if _, err := tc.DB.ExecContext(tc.Ctx, fmt.Sprintf("INSERT INTO %s (name) VALUES (?)", table), name); err != nil {
			return table, err
		}
	}
	return table, nil
}

// GetUniqueTable derives a per-test table name from base and marks it for
// cleanup. The table itself is not created.
func (tc *TestContext) GetUniqueTable(base string) UniqueTable {
	if tc.TestID == "" {
		panic("GetUniqueTable called on a TestContext without a TestID; construct it with NewTestContext")
	}

	table := fmt.Sprintf("%s_%s", base, tc.TestID)

	tc.mu.Lock()
	tc.createdTables = append(tc.createdTables, table)
	tc.mu.Unlock()

	return UniqueTable(table)
}

// CallTool runs a tool handler and fails the test on transport errors or an
// error result. Tests that expect a tool to fail call the handler directly.
func (tc *TestContext) CallTool(handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) *mcp.CallToolResult {
	tc.T.Helper()

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}

	res, err := handler(tc.Ctx, req)
	if err != nil {
		tc.T.Fatalf("calling the tool: %v", err)
	}
	if res == nil {
		tc.T.Fatal("the tool returned no result")
	}
	if res.IsError {
		tc.T.Fatalf("the tool reported an error: %+v", res)
	}

	return res
}

// TextResponse extracts the first text content block from a tool result.
func (tc *TestContext) TextResponse(res *mcp.CallToolResult) string {
	tc.T.Helper()

	if len(res.Content) == 0 {
		tc.T.Fatal("the result carries no content")
	}
	textContent, ok := mcp.AsTextContent(res.Content[0])
	if !ok {
		tc.T.Fatalf("expected text content, got %T", res.Content[0])
	}
	return textContent.Text
}

// makeTestID builds an id usable inside MySQL identifiers, so no dashes.
func makeTestID() string {
	return strings.ReplaceAll("test_"+uuid.NewString(), "-", "_")
}
