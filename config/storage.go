package config

import (
	"context"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// NewStorageClient initializes a Google Cloud Storage client. Prefers
// ADC (GOOGLE_APPLICATION_CREDENTIALS); set GCS_CREDENTIALS_JSON to
// provide explicit JSON locally.
func NewStorageClient(ctx context.Context) (*storage.Client, error) {
	if credJSON := os.Getenv("GCS_CREDENTIALS_JSON"); strings.TrimSpace(credJSON) != "" {
		return storage.NewClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
	}
	return storage.NewClient(ctx)
}

// StorageBucket returns the bucket receipt PDFs are uploaded to.
func StorageBucket() string {
	return os.Getenv("GCS_BUCKET")
}
