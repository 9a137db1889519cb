package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
)

// fakeS3 serves objects in pages of pageSize keys.
type fakeS3 struct {
	objects  map[string]string
	keys     []string
	pageSize int
	listErr  error
	prefixes []string
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.prefixes = append(f.prefixes, aws.ToString(in.Prefix))
	start := 0
	if in.ContinuationToken != nil {
		for i, k := range f.keys {
			if k == *in.ContinuationToken {
				start = i
			}
		}
	}
	end := min(start+f.pageSize, len(f.keys))
	out := &s3.ListObjectsV2Output{}
	for _, k := range f.keys[start:end] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	if end < len(f.keys) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(f.keys[end])
	}
	return out, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body)), ETag: aws.String(`"etag"`)}, nil
}

func TestSource_List(t *testing.T) {
	fake := &fakeS3{
		keys:     []string{"verdicts/", "verdicts/b.pdf", "verdicts/a.docx", "verdicts/c.png", "verdicts/d.txt"},
		pageSize: 2,
	}
	src := NewWithClient(fake, "bucket", "verdicts/")

	keys, err := src.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"verdicts/a.docx", "verdicts/b.pdf", "verdicts/d.txt"}, keys)
	assert.Equal(t, "verdicts/", fake.prefixes[0])
	assert.Len(t, fake.prefixes, 3)
	assert.Equal(t, "s3://bucket/verdicts", src.Name())
}

func TestSource_List_Error(t *testing.T) {
	src := NewWithClient(&fakeS3{listErr: errors.New("denied"), pageSize: 1}, "bucket", "")
	_, err := src.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "denied")
}

func TestSource_Fetch(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{"v/1.txt": "תיק 12345/23"}, pageSize: 1}
	src := NewWithClient(fake, "bucket", "v/")

	raw, err := src.Fetch(context.Background(), "v/1.txt")
	require.NoError(t, err)
	assert.Equal(t, "v/1.txt", raw.SourceID)
	assert.Equal(t, "s3://bucket/v/1.txt", raw.URI)
	assert.Equal(t, "text/plain", raw.MIMEType)
	assert.Equal(t, "תיק 12345/23", string(raw.Content))
	assert.Equal(t, "1.txt", raw.Metadata["filename"])

	_, err = src.Fetch(context.Background(), "v/missing.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), domain.SourceSettings{Kind: domain.SourceS3})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
