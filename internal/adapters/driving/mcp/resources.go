package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for verdict resources.
const uriScheme = "verdict://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "report",
		Name:        "report",
		Description: "Aggregate report over all stored extractions",
		MIMEType:    "text/plain",
	}, s.handleReportResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "verdicts/{verdictId}",
		Name:        "verdict",
		Description: "A stored verdict with its latest extraction",
		MIMEType:    "application/json",
	}, s.handleVerdictResource)
}

func (s *Server) handleReportResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	report, err := s.ports.Results.Report(ctx)
	if err != nil {
		return nil, fmt.Errorf("building report: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     report,
		}},
	}, nil
}

func (s *Server) handleVerdictResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractVerdictID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	details, err := s.ports.Results.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting verdict: %w", err)
	}

	data, err := json.MarshalIndent(detailsOutput(details), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling verdict: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractVerdictID extracts the id from a URI like verdict://verdicts/{verdictId}.
func extractVerdictID(uri string) string {
	const prefix = uriScheme + "verdicts/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
