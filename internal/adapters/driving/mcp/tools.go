package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driving"
)

const defaultListLimit = 20

// ExtractInput is the input schema for the extract_fields tool.
type ExtractInput struct {
	Text     string `json:"text,omitempty" jsonschema:"the plain text of a Hebrew court verdict"`
	SourceID string `json:"source_id,omitempty" jsonschema:"optional identifier echoed in the result"`
}

// ExtractOutput is the output schema for the extract_fields tool.
type ExtractOutput struct {
	Fields     map[string]any `json:"fields"`
	Confidence float64        `json:"confidence"`
	Strategy   string         `json:"strategy,omitempty"`
	Summary    string         `json:"summary"`
}

// ListInput is the input schema for the list_results tool.
type ListInput struct {
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 20)"`
	Offset int    `json:"offset,omitempty" jsonschema:"number of results to skip"`
	Status string `json:"status,omitempty" jsonschema:"only verdicts with this status"`
}

// ListOutput is the output schema for the list_results tool.
type ListOutput struct {
	Results []ResultOutput `json:"results"`
	Count   int            `json:"count"`
}

// ResultOutput is one stored extraction.
type ResultOutput struct {
	VerdictID  string         `json:"verdict_id"`
	Mode       string         `json:"mode"`
	Strategy   string         `json:"strategy,omitempty"`
	Confidence float64        `json:"confidence"`
	Fields     map[string]any `json:"fields,omitempty"`
	CreatedAt  string         `json:"created_at"`
}

// GetInput is the input schema for the get_result tool.
type GetInput struct {
	VerdictID string `json:"verdict_id" jsonschema:"the stored verdict id"`
}

// GetOutput is the output schema for the get_result tool.
type GetOutput struct {
	VerdictID string        `json:"verdict_id"`
	SourceID  string        `json:"source_id"`
	URI       string        `json:"uri"`
	Status    string        `json:"status"`
	Error     string        `json:"error,omitempty"`
	Result    *ResultOutput `json:"result,omitempty"`
	Analyses  []string      `json:"analyses,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_fields",
		Description: "Extract court, judge, case number, date, parties and other fields from Hebrew verdict text",
	}, s.handleExtract)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_results",
		Description: "List the latest stored extraction for each verdict",
	}, s.handleList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_result",
		Description: "Get a stored verdict with its latest extraction",
	}, s.handleGet)
}

func (s *Server) handleExtract(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractInput,
) (*mcp.CallToolResult, ExtractOutput, error) {
	result, err := s.ports.Extraction.Extract(ctx, input.SourceID, input.Text)
	if err != nil {
		return nil, ExtractOutput{}, fmt.Errorf("extract: %w", err)
	}

	return nil, ExtractOutput{
		Fields:     fieldsOutput(result),
		Confidence: result.Confidence,
		Strategy:   string(result.Strategy),
		Summary:    s.ports.Extraction.Summary(result, nil),
	}, nil
}

func (s *Server) handleList(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListInput,
) (*mcp.CallToolResult, ListOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	recs, err := s.ports.Results.List(ctx, domain.ListOptions{
		Limit:  limit,
		Offset: input.Offset,
		Status: domain.VerdictStatus(input.Status),
	})
	if err != nil {
		return nil, ListOutput{}, err
	}

	output := ListOutput{
		Results: make([]ResultOutput, len(recs)),
		Count:   len(recs),
	}
	for i := range recs {
		output.Results[i] = recordOutput(&recs[i])
	}
	return nil, output, nil
}

func (s *Server) handleGet(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetInput,
) (*mcp.CallToolResult, GetOutput, error) {
	details, err := s.ports.Results.Get(ctx, input.VerdictID)
	if err != nil {
		return nil, GetOutput{}, err
	}
	return nil, detailsOutput(details), nil
}

func detailsOutput(d *driving.VerdictDetails) GetOutput {
	out := GetOutput{
		VerdictID: d.Verdict.ID,
		SourceID:  d.Verdict.SourceID,
		URI:       d.Verdict.URI,
		Status:    string(d.Verdict.Status),
		Error:     d.Verdict.Error,
	}
	if d.Extraction != nil {
		rec := recordOutput(d.Extraction)
		out.Result = &rec
	}
	for _, a := range d.Analyses {
		out.Analyses = append(out.Analyses, a.Kind)
	}
	return out
}

func recordOutput(rec *domain.ExtractionRecord) ResultOutput {
	return ResultOutput{
		VerdictID:  rec.VerdictID,
		Mode:       string(rec.Mode),
		Strategy:   string(rec.Strategy),
		Confidence: rec.Confidence,
		Fields:     fieldsOutput(rec.Result),
		CreatedAt:  rec.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// fieldsOutput renders present fields only, lists as string arrays.
func fieldsOutput(r *domain.ExtractionResult) map[string]any {
	if r == nil {
		return nil
	}
	out := make(map[string]any, len(r.Fields))
	for name, v := range r.Fields {
		if v.IsList() {
			out[string(name)] = v.Items()
		} else {
			out[string(name)] = v.String()
		}
	}
	return out
}
