package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Uploader stores handover evidence in an S3-compatible bucket. The
// bucket stays private; signatures and defect photos are only reachable
// through short-lived links.
type Uploader interface {
	// Upload streams the object and returns the stored key.
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)
	// EvidenceURL returns a presigned, expiring download link for a
	// previously stored object.
	EvidenceURL(ctx context.Context, key string) (string, error)
}

// Client wraps a MinIO/S3 client over a single private bucket.
type Client struct {
	bucket         string
	linkTTL        time.Duration
	client         *minio.Client
	logger         *slog.Logger
	bucketInitOnce sync.Once
	bucketInitErr  error
}

const defaultLinkTTL = 15 * time.Minute

// NewClient configures the evidence store. linkTTL bounds how long
// presigned links stay valid; zero falls back to 15 minutes.
func NewClient(endpoint string, useSSL bool, accessKey, secretKey, bucket string, linkTTL time.Duration, logger *slog.Logger) (*Client, error) {
	cleanEndpoint := strings.TrimSpace(endpoint)
	if cleanEndpoint == "" {
		return nil, errors.New("s3: endpoint is required")
	}
	if bucket = strings.TrimSpace(bucket); bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}
	if linkTTL <= 0 {
		linkTTL = defaultLinkTTL
	}

	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(strings.TrimSpace(accessKey), strings.TrimSpace(secretKey), ""),
		Secure: useSSL,
	}
	minioClient, err := minio.New(parseEndpoint(cleanEndpoint), opts)
	if err != nil {
		return nil, fmt.Errorf("s3: create client: %w", err)
	}

	return &Client{
		bucket:  bucket,
		linkTTL: linkTTL,
		client:  minioClient,
		logger:  logger,
	}, nil
}

func (c *Client) Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
	if reader == nil {
		return "", errors.New("s3: reader is required")
	}
	key = strings.Trim(strings.TrimSpace(key), "/")
	if key == "" {
		return "", errors.New("s3: object key is required")
	}
	if err := c.ensureBucket(ctx); err != nil {
		return "", err
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := c.client.PutObject(ctx, c.bucket, key, reader, -1, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("s3: put object: %w", err)
	}

	if c.logger != nil {
		c.logger.Info("evidence stored", "bucket", c.bucket, "key", key)
	}
	return key, nil
}

func (c *Client) EvidenceURL(ctx context.Context, key string) (string, error) {
	key = strings.Trim(strings.TrimSpace(key), "/")
	if key == "" {
		return "", errors.New("s3: object key is required")
	}
	signed, err := c.client.PresignedGetObject(ctx, c.bucket, key, c.linkTTL, url.Values{})
	if err != nil {
		return "", fmt.Errorf("s3: presign object: %w", err)
	}
	return signed.String(), nil
}

// NoopUploader fails fast when object storage is unavailable.
type NoopUploader struct{}

func (NoopUploader) Upload(_ context.Context, _ string, _ io.Reader, _ string) (string, error) {
	return "", errors.New("s3 uploader is not configured")
}

func (NoopUploader) EvidenceURL(_ context.Context, _ string) (string, error) {
	return "", errors.New("s3 uploader is not configured")
}

func (c *Client) ensureBucket(ctx context.Context) error {
	c.bucketInitOnce.Do(func() {
		exists, err := c.client.BucketExists(ctx, c.bucket)
		if err != nil {
			c.bucketInitErr = fmt.Errorf("s3: check bucket: %w", err)
			return
		}
		if exists {
			return
		}
		if err := c.client.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
			c.bucketInitErr = fmt.Errorf("s3: create bucket: %w", err)
		}
	})
	return c.bucketInitErr
}

func parseEndpoint(endpoint string) string {
	if parsed, err := url.Parse(endpoint); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	return endpoint
}

var _ Uploader = (*Client)(nil)
var _ Uploader = NoopUploader{}
