// Package storage persists uploaded post images on the local filesystem under
// a public-served directory. Files are content-addressed: the name is the
// SHA-256 of the bytes, so re-uploading identical content is a no-op and a
// crashed request can never leave a half-written name behind a live reference.
package storage

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"os"
	"path"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"quill/internal/models"
	"quill/internal/observability"
)

// postsDir is the subdirectory for post images inside the storage root.
const postsDir = "posts"

// ImageStore writes and deletes post images below a public storage root.
type ImageStore struct {
	root    string
	baseURL string
}

// NewImageStore returns a store rooted at root. baseURL is the externally
// visible origin used to build image URLs (e.g. "http://localhost:8480").
func NewImageStore(root, baseURL string) *ImageStore {
	return &ImageStore{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Save validates content as an image and writes it under the posts directory.
// It returns the path relative to the storage root (e.g. "posts/<sha256>.png").
func (s *ImageStore) Save(content []byte, filename string) (string, error) {
	if len(content) == 0 {
		return "", models.NewValidationError("Uploaded image is empty")
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		observability.ImageStoreOps.WithLabelValues("save", "rejected").Inc()
		return "", models.NewValidationError("Uploaded file is not a supported image (png, jpeg, gif, webp)")
	}

	ext := format
	if ext == "jpeg" {
		ext = "jpg"
	}

	sum := sha256.Sum256(content)
	rel := path.Join(postsDir, hex.EncodeToString(sum[:])+"."+ext)
	abs := filepath.Join(s.root, filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		observability.ImageStoreOps.WithLabelValues("save", "error").Inc()
		return "", fmt.Errorf("create image directory: %w", err)
	}
	if err := os.WriteFile(abs, content, 0o644); err != nil {
		observability.ImageStoreOps.WithLabelValues("save", "error").Inc()
		return "", fmt.Errorf("write image: %w", err)
	}

	observability.ImageStoreOps.WithLabelValues("save", "ok").Inc()
	return rel, nil
}

// Delete removes a previously stored image. A missing file is not an error.
func (s *ImageStore) Delete(rel string) error {
	if rel == "" {
		return nil
	}
	abs := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		observability.ImageStoreOps.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("delete image: %w", err)
	}
	observability.ImageStoreOps.WithLabelValues("delete", "ok").Inc()
	return nil
}

// URL returns the public URL for a stored path, or "" when rel is empty.
func (s *ImageStore) URL(rel string) string {
	if rel == "" {
		return ""
	}
	return s.baseURL + "/storage/" + path.Clean(rel)
}

// Root returns the storage root directory served at /storage.
func (s *ImageStore) Root() string {
	return s.root
}
