package ports

import "context"

// PhotoStore persists uploaded photo files and maps them to public URL paths.
type PhotoStore interface {
	// Save writes the file under a unique random name with the given
	// extension and returns the public relative path for serving it.
	Save(ctx context.Context, data []byte, ext string) (string, error)
	// Remove deletes the file behind a public path. Paths outside the
	// managed upload prefix are ignored.
	Remove(ctx context.Context, publicURL string) error
}
