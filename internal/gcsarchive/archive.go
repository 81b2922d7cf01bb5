// Package gcsarchive stores finished activity exports in a GCS bucket.
package gcsarchive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

const contentTypeCSV = "text/csv"

// ObjectName builds the destination object for one user's export,
// partitioned by upload date so archives never collide.
func ObjectName(ownerID string, now time.Time) string {
	return fmt.Sprintf("archives/%s/%s/%s-activity.csv",
		now.Format("2006/01/02"), ownerID, uuid.New().String())
}

// URI renders the gs:// URI for a bucket/object pair.
func URI(bucket, objectName string) string {
	return fmt.Sprintf("gs://%s/%s", bucket, objectName)
}

// Upload writes the export bytes to the given GCS URI. It assumes
// Application Default Credentials are configured.
func Upload(ctx context.Context, gcsURI string, data []byte) error {
	bucketName, objectPath, err := splitURI(gcsURI)
	if err != nil {
		return err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("gcsarchive: creating storage client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := client.Bucket(bucketName).Object(objectPath).NewWriter(ctx)
	w.ContentType = contentTypeCSV

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return fmt.Errorf("gcsarchive: writing %s: %w", gcsURI, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcsarchive: finalizing %s: %w", gcsURI, err)
	}

	return nil
}

// Fetch downloads an archived export from the given GCS URI.
func Fetch(ctx context.Context, gcsURI string) ([]byte, error) {
	bucketName, objectPath, err := splitURI(gcsURI)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcsarchive: creating storage client: %w", err)
	}
	defer client.Close()

	rc, err := client.Bucket(bucketName).Object(objectPath).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcsarchive: reading %s: %w", gcsURI, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("gcsarchive: reading bytes: %w", err)
	}
	return data, nil
}

func splitURI(gcsURI string) (bucket, object string, err error) {
	if !strings.HasPrefix(gcsURI, "gs://") {
		return "", "", fmt.Errorf("gcsarchive: invalid GCS URI: %s", gcsURI)
	}
	trimmed := strings.TrimPrefix(gcsURI, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", "", fmt.Errorf("gcsarchive: invalid GCS URI (no object path): %s", gcsURI)
	}
	return parts[0], parts[1], nil
}
