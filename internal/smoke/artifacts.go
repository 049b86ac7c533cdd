package smoke

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/t3ratech/bantora-web/internal/config"
)

// ArtifactStore keeps files produced by a run, such as the home page screenshot
type ArtifactStore interface {
	Upload(ctx context.Context, file string) (string, error)
}

// S3PutObjectAPI is the part of the S3 client the store uses
type S3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads artifacts to the bucket named in the smoke configuration
type S3Store struct {
	client S3PutObjectAPI
	cfg    *config.SmokeConfig
}

// NewS3Store creates a store using the default AWS credential chain
func NewS3Store(ctx context.Context, cfg *config.SmokeConfig) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewS3StoreWithClient(s3.NewFromConfig(awsCfg), cfg), nil
}

// NewS3StoreWithClient creates a store with a custom client (useful for testing)
func NewS3StoreWithClient(client S3PutObjectAPI, cfg *config.SmokeConfig) *S3Store {
	return &S3Store{client: client, cfg: cfg}
}

// Upload puts file into the bucket and returns its s3:// location
func (s *S3Store) Upload(ctx context.Context, file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", fmt.Errorf("failed to open artifact: %w", err)
	}
	defer f.Close()

	key := s.cfg.S3Key(filepath.Base(file))
	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.S3Bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType(file)),
	}); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", file, err)
	}

	return fmt.Sprintf("s3://%s/%s", s.cfg.S3Bucket, key), nil
}

func contentType(file string) string {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
