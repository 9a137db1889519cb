package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driving"
)

func TestExtractVerdictID(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
	}{
		{"valid uri", "verdict://verdicts/abc-123", "abc-123"},
		{"wrong scheme", "file://verdicts/abc", ""},
		{"nested path", "verdict://verdicts/abc/extra", ""},
		{"empty id", "verdict://verdicts/", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractVerdictID(tt.uri))
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleReportResource(t *testing.T) {
	ctx := context.Background()

	server, err := newTestServer(nil, &mockResultService{report: "Documents: 3"})
	require.NoError(t, err)

	result, err := server.handleReportResource(ctx, makeReadResourceRequest("verdict://report"))
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "Documents: 3", result.Contents[0].Text)

	server, err = newTestServer(nil, &mockResultService{err: errors.New("boom")})
	require.NoError(t, err)
	_, err = server.handleReportResource(ctx, makeReadResourceRequest("verdict://report"))
	assert.ErrorContains(t, err, "boom")
}

func TestServer_handleVerdictResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns verdict json", func(t *testing.T) {
		res := &mockResultService{details: &driving.VerdictDetails{
			Verdict: domain.Verdict{ID: "v1", SourceID: "a.docx", Status: domain.StatusExtracted},
		}}
		server, err := newTestServer(nil, res)
		require.NoError(t, err)

		result, err := server.handleVerdictResource(ctx, makeReadResourceRequest("verdict://verdicts/v1"))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, `"source_id": "a.docx"`)
	})

	t.Run("invalid uri is not found", func(t *testing.T) {
		server, err := newTestServer(nil, nil)
		require.NoError(t, err)

		_, err = server.handleVerdictResource(ctx, makeReadResourceRequest("verdict://other"))
		assert.Error(t, err)
	})
}
