package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/nikbrunner/vidlib/internal/model"
)

// AssetUploader stores binary assets such as thumbnails and returns their URL.
type AssetUploader interface {
	UploadAsset(ctx context.Context, name string, r io.Reader) (string, error)
}

// FileAssets stores assets as files in a directory.
type FileAssets struct {
	dir string
}

// NewFileAssets creates a FileAssets rooted at dir.
func NewFileAssets(dir string) *FileAssets {
	return &FileAssets{dir: dir}
}

// UploadAsset copies r into the assets directory under a unique name
// and returns a file:// URL for it.
func (a *FileAssets) UploadAsset(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return "", err
	}

	fileName := model.GenerateUUID() + "-" + filepath.Base(name)
	path := filepath.Join(a.dir, fileName)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write asset: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}
