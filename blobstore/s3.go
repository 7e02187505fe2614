package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"fabcatalogue/config"
	"fabcatalogue/logger"
)

// ErrIncompleteS3Config is returned when the S3 configuration is incomplete
var ErrIncompleteS3Config = errors.New("incomplete S3 configuration")

// S3 stores objects in a single bucket.
type S3 struct {
	client  *s3.Client
	bucket  string
	timeout time.Duration
}

func NewS3(cfg config.S3Config) (*S3, error) {
	if strings.TrimSpace(cfg.AccessKey) == "" ||
		strings.TrimSpace(cfg.KeyID) == "" ||
		strings.TrimSpace(cfg.Region) == "" ||
		strings.TrimSpace(cfg.Bucket) == "" {
		return nil, ErrIncompleteS3Config
	}
	opts := s3.Options{
		UsePathStyle: true,
		Region:       cfg.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.KeyID, cfg.AccessKey, ""),
		),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	logger.Default().Debugf("blobstore: s3 bucket %s", cfg.Bucket)
	return &S3{client: s3.New(opts), bucket: cfg.Bucket, timeout: timeout}, nil
}

func (s *S3) Name() string { return "s3" }

func (s *S3) Put(ctx context.Context, key, contentType string, body io.Reader, _ int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	result, err := manager.NewUploader(s.client).Upload(ctx, input)
	if err != nil {
		var mu manager.MultiUploadFailure
		if errors.As(err, &mu) {
			return fmt.Errorf("multi-upload failure (upload_id: %s): %w", mu.UploadID(), mu)
		}
		return fmt.Errorf("upload %s: %w", key, err)
	}
	logger.Default().WithField("location", result.Location).Info("blobstore: uploaded object")
	return nil
}

// Get returns the object body. The caller closes it. The timeout is not
// applied here since the body is streamed after return.
func (s *S3) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	object, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		var notFound *types.NotFound
		if errors.As(err, &noKey) || errors.As(err, &notFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return object.Body, nil
}

func (s *S3) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
