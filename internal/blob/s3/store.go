// Package s3 implements the blob store on an S3-compatible backend
// (AWS S3 or MinIO). Single bucket; object names map to keys directly.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/imago-sys/occurrence-backend/internal/blob/core"
)

// Config holds explicit construction parameters. Credentials are optional
// and fall back to the default AWS chain when unset.
type Config struct {
	Bucket         string
	Region         string
	Endpoint       string // optional, for MinIO or localstack
	AccessKey      string
	SecretKey      string
	ForcePathStyle bool
}

// Store implements core.Store against a single S3 bucket.
type Store struct {
	client *s3.Client
	bucket string
}

// New creates an S3 blob store from Config.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("blob s3: bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("blob s3: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.ForcePathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &Store{client: client, bucket: cfg.Bucket}, nil
}

func (s *Store) Put(ctx context.Context, name string, content []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &name,
		Body:   bytes.NewReader(content),
	}
	if contentType != "" {
		input.ContentType = &contentType
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("blob s3: put %s: %w", name, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, name string) (core.Object, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &name})
	if err != nil {
		if isMissing(err) {
			return core.Object{}, fmt.Errorf("%s: %w", name, core.ErrNotFound)
		}
		return core.Object{}, fmt.Errorf("blob s3: get %s: %w", name, err)
	}
	defer out.Body.Close()

	content, err := io.ReadAll(out.Body)
	if err != nil {
		return core.Object{}, fmt.Errorf("blob s3: read %s: %w", name, err)
	}

	obj := core.Object{Content: content}
	if out.ContentType != nil {
		obj.ContentType = *out.ContentType
	}
	return obj, nil
}

func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &s.bucket, Key: &name})
	if err != nil {
		if isMissing(err) {
			return false, nil
		}
		return false, fmt.Errorf("blob s3: head %s: %w", name, err)
	}
	return true, nil
}

// isMissing recognizes the service's absence signals: NoSuchKey from
// GetObject and the bare 404 NotFound from HeadObject.
func isMissing(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NoSuchKey" || code == "NotFound"
	}
	return false
}
