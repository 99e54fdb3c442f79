package archive

import (
	"context"
	"fmt"
	"path"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
)

// GCSArchiver implements Archiver on Google Cloud Storage.
// Authentication uses Application Default Credentials.
type GCSArchiver struct {
	client *storage.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// NewGCSArchiver initializes a client and verifies bucket access, failing
// fast on bad configuration.
func NewGCSArchiver(ctx context.Context, bucket, prefix string, logger *zap.Logger) (*GCSArchiver, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	if _, err := client.Bucket(bucket).Attrs(ctx); err != nil {
		if closeErr := client.Close(); closeErr != nil {
			logger.Warn("gcs client close failed after bucket check", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("get gcs bucket %q attributes: %w", bucket, err)
	}
	return &GCSArchiver{client: client, bucket: bucket, prefix: prefix, logger: logger}, nil
}

// Save uploads data under the configured prefix.
func (g *GCSArchiver) Save(ctx context.Context, objectName string, data []byte) error {
	wc := g.client.Bucket(g.bucket).Object(path.Join(g.prefix, objectName)).NewWriter(ctx)
	wc.ContentType = "application/json"
	if _, err := wc.Write(data); err != nil {
		if closeErr := wc.Close(); closeErr != nil {
			g.logger.Warn("gcs writer close failed after write failure", zap.Error(closeErr))
		}
		return fmt.Errorf("write gcs object %s: %w", objectName, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("close gcs writer for object %s: %w", objectName, err)
	}
	return nil
}

// Close closes the underlying client.
func (g *GCSArchiver) Close() error {
	if err := g.client.Close(); err != nil {
		return fmt.Errorf("close gcs client: %w", err)
	}
	return nil
}
