package roster

import (
	"context"
	"time"
)

// ObjectStorageService abstracts the S3-compatible store holding enrollment
// photos. The backend uploads server-side because it has to run the photo
// through the face encoder before accepting it.
type ObjectStorageService interface {
	// PutObject stores an object under the given key
	PutObject(ctx context.Context, storageKey, contentType string, data []byte) error

	// GenerateDownloadURL generates a presigned URL for downloading an object
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error
}
