package loader

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/gtnh-tools/planner-backend/internal/catalog"
)

// s3API is the slice of the S3 client the loader uses; narrowed for tests.
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Loader fetches versioned recipe exports laid out as
// <prefix>/<version>/recipes.json in a bucket.
type S3Loader struct {
	client  s3API
	bucket  string
	prefix  string
	version string
}

func NewS3Loader(ctx context.Context, bucket, prefix, region, version string) (*S3Loader, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("aws config load: %w", err)
	}
	return &S3Loader{
		client:  s3.NewFromConfig(cfg),
		bucket:  bucket,
		prefix:  strings.Trim(prefix, "/"),
		version: version,
	}, nil
}

func (l *S3Loader) key() string {
	if l.prefix == "" {
		return l.version + "/recipes.json"
	}
	return l.prefix + "/" + l.version + "/recipes.json"
}

func (l *S3Loader) Load(ctx context.Context) (*catalog.Snapshot, error) {
	key := l.key()
	out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get s3://%s/%s: %w", l.bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read s3://%s/%s: %w", l.bucket, key, err)
	}
	log.Printf("catalog: fetched s3://%s/%s (%d bytes)", l.bucket, key, len(data))

	recipes, names, err := ParseRecipesJSON(data)
	if err != nil {
		return nil, err
	}
	return catalog.Build(l.version, recipes, names), nil
}

// ListVersions enumerates dataset versions by the common prefixes directly
// under the loader's prefix.
func (l *S3Loader) ListVersions(ctx context.Context) ([]string, error) {
	prefix := ""
	if l.prefix != "" {
		prefix = l.prefix + "/"
	}

	out, err := l.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:    aws.String(l.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 list s3://%s/%s: %w", l.bucket, prefix, err)
	}

	var versions []string
	for _, cp := range out.CommonPrefixes {
		if cp.Prefix == nil {
			continue
		}
		v := strings.TrimSuffix(strings.TrimPrefix(*cp.Prefix, prefix), "/")
		if v != "" {
			versions = append(versions, v)
		}
	}
	return versions, nil
}
