// Package minio stores uploaded documents in an S3-compatible bucket.
package minio

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/lumenforge/website/internal/backend"
	"github.com/lumenforge/website/internal/config"
)

// minioAPI is the subset of *minio.Client the store uses, so tests can run
// without a server.
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

type minioClientWrapper struct{ c *minio.Client }

func (w minioClientWrapper) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return w.c.BucketExists(ctx, bucketName)
}

func (w minioClientWrapper) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return w.c.MakeBucket(ctx, bucketName, opts)
}

func (w minioClientWrapper) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return w.c.PutObject(ctx, bucketName, objectName, reader, objectSize, opts)
}

var _ backend.Files = (*Client)(nil)

// Client implements backend.Files on a single bucket.
type Client struct {
	api       minioAPI
	bucket    string
	publicURL string
	newID     func() string
}

// New connects to the object store described by cfg.
func New(ctx context.Context, cfg config.FilesConfig) (*Client, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating object store client: %w", err)
	}

	base := cfg.PublicBaseURL
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = scheme + "://" + cfg.Endpoint + "/" + cfg.Bucket
	}
	return NewClientWithAPI(ctx, minioClientWrapper{c: mc}, cfg.Bucket, base)
}

// NewClientWithAPI builds a Client on an injected API and makes sure the
// bucket exists.
func NewClientWithAPI(ctx context.Context, api minioAPI, bucket, publicBaseURL string) (*Client, error) {
	c := &Client{
		api:       api,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicBaseURL, "/"),
		newID:     func() string { return uuid.New().String() },
	}
	if err := c.ensureBucketExists(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}
	return c, nil
}

func (c *Client) ensureBucketExists(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// Upload stores u under a fresh key and returns the key.
func (c *Client) Upload(ctx context.Context, u backend.Upload) (string, error) {
	key := c.newID() + "-" + sanitizeName(u.Name)
	size := u.Size
	if size == 0 {
		size = -1
	}
	_, err := c.api.PutObject(ctx, c.bucket, key, u.Body, size, minio.PutObjectOptions{
		ContentType: u.ContentType,
	})
	if err != nil {
		return "", &backend.ProviderError{Op: "upload file", Message: "Could not upload your file", Err: err}
	}
	return key, nil
}

// PublicURL returns the address the stored object is served from.
func (c *Client) PublicURL(key string) string {
	return c.publicURL + "/" + key
}

// sanitizeName keeps the base name of an uploaded file with anything outside
// [A-Za-z0-9._-] replaced by an underscore.
func sanitizeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" || name == "" {
		return "upload"
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
