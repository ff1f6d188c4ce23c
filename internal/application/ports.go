package application

import (
	"context"
	"io"
	"time"
)

// ImageHost stores avatar images keyed by a public id.
type ImageHost interface {
	Upload(ctx context.Context, r io.Reader, filename, contentType string) (publicID, url string, err error)
	Destroy(ctx context.Context, publicID string) error
}

// Notifier delivers a plain-text message to a recipient.
type Notifier interface {
	Notify(ctx context.Context, to, subject, body string) error
}

// TokenIssuer signs bearer tokens for an account.
type TokenIssuer interface {
	Issue(accountID string) (string, time.Time, error)
}

// AccountIndex is the optional searchable profile directory.
type AccountIndex interface {
	Put(ctx context.Context, id string, doc map[string]any) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, q string, size int) ([]map[string]any, error)
}

// Upload is an image file received from a client.
type Upload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}
