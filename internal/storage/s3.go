package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"

	appconfig "cargo-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Archiver copies generated reports into an S3-compatible bucket
// (Cloudflare R2 in production) for long-term retention.
type Archiver struct {
	client *s3.Client
	bucket string
}

// NewArchiver returns nil (disabled) when no bucket is configured.
func NewArchiver(ctx context.Context, cfg *appconfig.Config) (*Archiver, error) {
	if cfg.Archive.Bucket == "" {
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Archive.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.Archive.AccessKey, cfg.Archive.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("archive config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Archive.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Archive.Endpoint)
		}
		o.UsePathStyle = true
	})

	log.Printf("[Archive] Report archival enabled (bucket %s)", cfg.Archive.Bucket)
	return &Archiver{client: client, bucket: cfg.Archive.Bucket}, nil
}

// Upload stores one object under the given key
func (a *Archiver) Upload(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("archive upload %s: %w", key, err)
	}
	return nil
}
