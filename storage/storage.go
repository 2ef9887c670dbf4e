// Package storage keeps uploaded recipe images on local disk or in an S3-compatible bucket.
package storage

import (
	"context"
	"errors"
)

var ErrForeignURL = errors.New("url does not belong to this store")

// ImageStore saves image bytes under a key and returns the public URL of the object.
type ImageStore interface {
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}
