package pdf

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driven"
)

func TestNew(t *testing.T) {
	normaliser := New()
	require.NotNil(t, normaliser)
	assert.IsType(t, &Normaliser{}, normaliser)
}

func TestSupportedMIMETypes(t *testing.T) {
	assert.Equal(t, []string{"application/pdf"}, New().SupportedMIMETypes())
	assert.Equal(t, "application/pdf", domain.MIMETypeForExt(".PDF"))
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 50, New().Priority())
}

func TestNormalise_NilDocument(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_NotAPDF(t *testing.T) {
	raw := &domain.RawDocument{
		SourceID: "downloads/broken.pdf",
		URI:      "/downloads/broken.pdf",
		MIMEType: "application/pdf",
		Content:  []byte("this is not a pdf"),
	}

	result, err := New().Normalise(context.Background(), raw)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_Empty(t *testing.T) {
	_, err := New().Normalise(context.Background(), &domain.RawDocument{URI: "x.pdf"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		uri      string
		expected string
	}{
		{
			name:     "first line as title",
			content:  "בית המשפט המחוזי\n\nתוכן",
			uri:      "/doc.pdf",
			expected: "בית המשפט המחוזי",
		},
		{
			name:     "skip empty lines",
			content:  "\n\n\nפסק דין\nContent",
			uri:      "/doc.pdf",
			expected: "פסק דין",
		},
		{
			name:     "fallback to filename",
			content:  "",
			uri:      "/path/to/my_document.pdf",
			expected: "my document",
		},
		{
			name:     "skip very long first line",
			content:  strings.Repeat("א", 250) + "\nShort Title\nContent",
			uri:      "/doc.pdf",
			expected: "Short Title",
		},
		{
			name:     "skip nul padding",
			content:  string(make([]byte, 10)) + "\nTitle",
			uri:      "/doc.pdf",
			expected: "Title",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, extractTitle(tc.content, tc.uri))
		})
	}
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Normaliser = (*Normaliser)(nil)
}

func TestCopyMetadata(t *testing.T) {
	assert.Nil(t, copyMetadata(nil))

	src := map[string]any{"key1": "value1", "key2": 42}
	dst := copyMetadata(src)
	assert.Equal(t, src, dst)

	dst["key3"] = true
	assert.NotContains(t, src, "key3")
}
