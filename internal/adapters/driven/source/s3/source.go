// Package s3 provides a document source over an S3-compatible bucket.
// Source ids are object keys.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.DocumentSource = (*Source)(nil)

// DefaultRegion is used when none is configured.
const DefaultRegion = "us-east-1"

// API is the subset of the S3 client the source needs.
type API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Source lists and reads verdict files from a bucket prefix.
type Source struct {
	client API
	bucket string
	prefix string
}

// New builds a source from settings. Static credentials are used only when
// both keys are set; otherwise the default AWS credential chain applies.
func New(ctx context.Context, settings domain.SourceSettings) (*Source, error) {
	if settings.Bucket == "" {
		return nil, fmt.Errorf("%w: s3 bucket is required", domain.ErrInvalidInput)
	}
	region := settings.Region
	if region == "" {
		region = DefaultRegion
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if settings.AccessKeyID != "" && settings.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(settings.AccessKeyID, settings.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if settings.Endpoint != "" {
			// MinIO and similar need path-style addressing.
			o.BaseEndpoint = aws.String(settings.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewWithClient(client, settings.Bucket, settings.Prefix), nil
}

// NewWithClient builds a source over an existing client.
func NewWithClient(client API, bucket, prefix string) *Source {
	return &Source{client: client, bucket: bucket, prefix: prefix}
}

// Name identifies the source in logs.
func (s *Source) Name() string {
	return "s3://" + path.Join(s.bucket, s.prefix)
}

// List pages through the prefix and returns keys with supported extensions.
func (s *Source) List(ctx context.Context) ([]string, error) {
	input := &s3.ListObjectsV2Input{Bucket: aws.String(s.bucket)}
	if s.prefix != "" {
		input.Prefix = aws.String(s.prefix)
	}

	var keys []string
	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list s3://%s: %w", s.bucket, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasSuffix(key, "/") || !domain.SupportedExt(path.Ext(key)) {
				continue
			}
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Fetch downloads one object.
func (s *Source) Fetch(ctx context.Context, key string) (*domain.RawDocument, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, key)
		}
		return nil, fmt.Errorf("get s3://%s/%s: %w", s.bucket, key, err)
	}
	defer out.Body.Close()

	content, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read s3://%s/%s: %w", s.bucket, key, err)
	}

	meta := map[string]any{"filename": path.Base(key), "bucket": s.bucket}
	if out.ETag != nil {
		meta["etag"] = aws.ToString(out.ETag)
	}
	return &domain.RawDocument{
		SourceID: key,
		URI:      "s3://" + s.bucket + "/" + key,
		MIMEType: domain.MIMETypeForExt(path.Ext(key)),
		Content:  content,
		Metadata: meta,
	}, nil
}
