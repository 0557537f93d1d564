// Package storage implements the filesystem photo store. Files are written
// under a configured upload directory and served back under a public path
// prefix; unique random filenames avoid collisions without locking.
package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type PhotoStore struct {
	dir        string
	publicPath string
}

// NewPhotoStore returns a store writing to dir and mapping files to
// publicPath. The directory is created lazily on first save.
func NewPhotoStore(dir, publicPath string) *PhotoStore {
	return &PhotoStore{dir: dir, publicPath: strings.TrimRight(publicPath, "/")}
}

// Save writes the file under a random unique name with the given extension
// and returns its public relative path.
func (p *PhotoStore) Save(_ context.Context, data []byte, ext string) (string, error) {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(p.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write photo: %w", err)
	}

	return p.publicPath + "/" + name, nil
}

// Remove deletes the file behind a public path. Paths outside the managed
// prefix are ignored; the base name is extracted so a crafted path cannot
// escape the upload directory.
func (p *PhotoStore) Remove(_ context.Context, publicURL string) error {
	if !strings.HasPrefix(publicURL, p.publicPath+"/") {
		return nil
	}

	name := path.Base(publicURL)
	if name == "." || name == "/" || name == "" {
		return nil
	}

	if err := os.Remove(filepath.Join(p.dir, name)); err != nil {
		return fmt.Errorf("remove photo: %w", err)
	}
	return nil
}

// Dir returns the on-disk upload directory, for static file serving.
func (p *PhotoStore) Dir() string { return p.dir }
