package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/designcomputer/mysql-mcp/internal/catalog"
)

// RegisterResources wires the table catalog into the MCP resource surface.
// A resource template answers reads for any mysql://{table}/data URI, while
// concrete per-table resources are reconciled against the live catalog so
// that resources/list reflects the database the server is connected to.
func (s *MySQLMCPServer) RegisterResources() {
	s.MCPServer.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"mysql://{table}/data",
			"Table data",
			mcp.WithTemplateDescription("Rows from a table in the connected MySQL database"),
			mcp.WithTemplateMIMEType("text/plain"),
		),
		s.readResource,
	)
}

func (s *MySQLMCPServer) readResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	text, err := s.catalog.Read(ctx, request.Params.URI)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "text/plain",
			Text:     text,
		},
	}, nil
}

// syncResources reconciles the registered per-table resources with the
// catalog. Tables that disappeared are removed, new ones are added; both
// trigger a resources/list_changed notification to connected clients.
func (s *MySQLMCPServer) syncResources(ctx context.Context) {
	s.resourceMu.Lock()
	defer s.resourceMu.Unlock()

	listed, err := s.catalog.List(ctx)
	if err != nil {
		s.log.Error("Failed to refresh resource catalog", "error", err)
		return
	}

	current := make(map[string]catalog.Resource, len(listed))
	for _, res := range listed {
		current[res.URI] = res
	}

	for uri := range s.resourceURIs {
		if _, ok := current[uri]; !ok {
			s.MCPServer.RemoveResource(uri)
			delete(s.resourceURIs, uri)
		}
	}

	for uri, res := range current {
		if _, ok := s.resourceURIs[uri]; ok {
			continue
		}
		s.MCPServer.AddResource(
			mcp.NewResource(
				res.URI,
				res.Name,
				mcp.WithResourceDescription(res.Description),
				mcp.WithMIMEType(res.MIMEType),
			),
			s.readResource,
		)
		s.resourceURIs[uri] = struct{}{}
	}
}
