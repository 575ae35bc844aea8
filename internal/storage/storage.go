package storage

import "context"

type Client interface {
	// UploadImage stores an image and returns its public URL
	UploadImage(ctx context.Context, name string, data []byte, contentType string) (string, error)
}
