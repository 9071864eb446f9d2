// Package catalog exposes the tables of the configured MySQL database as
// URI-addressed resources. The table list is queried live on every call;
// nothing is cached between calls.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/designcomputer/mysql-mcp/internal/config"
	"github.com/designcomputer/mysql-mcp/internal/database"
	"github.com/designcomputer/mysql-mcp/internal/logger"
	"github.com/designcomputer/mysql-mcp/internal/state"
)

const (
	// Scheme prefixes every resource URI served by this catalog.
	Scheme = "mysql://"

	// previewRowLimit bounds how many rows a resource read returns.
	previewRowLimit = 100

	notConnectedBody = "Error: Not connected to MySQL. Please use the 'connect' tool first."
)

// Resource describes one table as an addressable resource.
type Resource struct {
	URI         string
	Name        string
	Description string
	MIMEType    string
}

// Catalog lists and reads table resources using a fresh connection per call.
type Catalog struct {
	db      database.DatabaseService
	state   *state.ConnectionState
	log     *logger.Service
	loadCfg config.Loader
}

// New creates a Catalog.
func New(db database.DatabaseService, st *state.ConnectionState, log *logger.Service, loadCfg config.Loader) *Catalog {
	return &Catalog{
		db:      db,
		state:   st,
		log:     log,
		loadCfg: loadCfg,
	}
}

// ResourceURI renders the URI for a table name. The name is percent-encoded
// so tables containing URI-unsafe characters still form valid URIs.
func ResourceURI(table string) string {
	return Scheme + url.PathEscape(table) + "/data"
}

// List returns one resource per table in the configured database. When the
// state is disconnected it returns an empty list rather than an error, so a
// client probing for resources is not blocked by a missing connection.
// A missing database configuration is a fault and propagates.
func (c *Catalog) List(ctx context.Context) ([]Resource, error) {
	if !c.state.IsConnected() {
		c.log.Info("Attempted to list resources, but not connected to MySQL")
		return nil, nil
	}

	cfg, err := c.loadCfg(ctx)
	if err != nil {
		return nil, err
	}

	tables, err := c.db.ListTables(ctx, cfg)
	if err != nil {
		var connErr *database.ConnectionError
		if errors.As(err, &connErr) {
			c.log.Error("MySQL connection failed", "error", err)
			c.state.SetDisconnected(err.Error())
			return nil, nil
		}
		c.log.Error("Failed to list resources", "error", err)
		return nil, nil
	}

	c.log.Info("Found tables", "tables", tables)

	resources := make([]Resource, 0, len(tables))
	for _, table := range tables {
		resources = append(resources, Resource{
			URI:         ResourceURI(table),
			Name:        "Table: " + table,
			Description: "Data in table: " + table,
			MIMEType:    "text/plain",
		})
	}
	return resources, nil
}

// Read returns a bounded preview of the table a mysql:// URI addresses.
// Database failures are reported inside the text body; a non-mysql scheme
// is a fault for the transport layer to surface. The path segment is used
// as the table identifier without decoding, so an encoded name reaches the
// server in its encoded form.
func (c *Catalog) Read(ctx context.Context, uri string) (string, error) {
	if !c.state.IsConnected() {
		return notConnectedBody, nil
	}

	cfg, err := c.loadCfg(ctx)
	if err != nil {
		return "", err
	}

	c.log.Info("Reading resource", "uri", uri)

	if !strings.HasPrefix(uri, Scheme) {
		return "", fmt.Errorf("Invalid URI scheme: %s", uri)
	}
	table, _, _ := strings.Cut(strings.TrimPrefix(uri, Scheme), "/")

	text, err := c.db.ReadTable(ctx, cfg, table, previewRowLimit)
	if err != nil {
		var connErr *database.ConnectionError
		if errors.As(err, &connErr) {
			c.state.SetDisconnected(err.Error())
			return "Error: Connection to MySQL lost. " + err.Error(), nil
		}
		c.log.Error("Database error reading resource", "uri", uri, "error", err)
		return "Error: " + err.Error(), nil
	}
	return text, nil
}
