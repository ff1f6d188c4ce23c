package helpers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

// UploadObject uploads bytes from r into bucket/objectPath with the provided contentType
func UploadObject(ctx context.Context, client *storage.Client, bucket, objectPath, contentType string, r io.Reader) (string, error) {
	wc := client.Bucket(bucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return PublicURL(bucket, objectPath), nil
}

// PublicURL builds a public URL for an object (assuming public read access or signed URLs)
func PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectPath)
}

// GCSImageHost stores avatar images in a bucket. The object path doubles as
// the public id handed back to callers.
type GCSImageHost struct {
	Client *storage.Client
	Bucket string
	Folder string
}

func NewGCSImageHost(client *storage.Client, bucket, folder string) *GCSImageHost {
	return &GCSImageHost{Client: client, Bucket: bucket, Folder: folder}
}

// Upload writes the image and returns its public id and URL.
func (h *GCSImageHost) Upload(ctx context.Context, r io.Reader, filename, contentType string) (string, string, error) {
	if h.Client == nil || h.Bucket == "" {
		return "", "", errors.New("gcs not configured")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := path.Join(h.Folder, uuid.NewString()+ext)
	url, err := UploadObject(ctx, h.Client, h.Bucket, objectPath, contentType, r)
	if err != nil {
		return "", "", err
	}
	return objectPath, url, nil
}

// Destroy removes the image; a missing object is not an error.
func (h *GCSImageHost) Destroy(ctx context.Context, publicID string) error {
	if h.Client == nil || h.Bucket == "" {
		return errors.New("gcs not configured")
	}
	err := h.Client.Bucket(h.Bucket).Object(publicID).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}
