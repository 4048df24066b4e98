package objects

import (
	"context"
	"io"
)

// Storage es el object storage del backend (imágenes subidas).
type Storage interface {
	// Upload guarda el objeto y devuelve su URL pública.
	// Un path ya ocupado es backend.KindConflict (sin upsert).
	Upload(ctx context.Context, bucket, path, contentType string, r io.Reader) (string, error)
	PublicURL(bucket, path string) string
}
