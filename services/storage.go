package services

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/storage"
)

// FileStore abstracts where receipt PDFs live so the receipt pipeline
// can be tested without a bucket.
type FileStore interface {
	Upload(ctx context.Context, objectKey string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, objectKey string) error
}

// GCSFileStore stores receipt PDFs in a Google Cloud Storage bucket.
type GCSFileStore struct {
	client *storage.Client
	bucket string
}

func NewGCSFileStore(client *storage.Client, bucket string) *GCSFileStore {
	return &GCSFileStore{client: client, bucket: bucket}
}

func (g *GCSFileStore) Upload(ctx context.Context, objectKey string, data []byte, contentType string) (string, error) {
	wc := g.client.Bucket(g.bucket).Object(objectKey).NewWriter(ctx)
	wc.ContentType = contentType

	if _, err := wc.Write(data); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", objectKey, err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer for %s: %w", objectKey, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, objectKey), nil
}

func (g *GCSFileStore) Delete(ctx context.Context, objectKey string) error {
	err := g.client.Bucket(g.bucket).Object(objectKey).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}
