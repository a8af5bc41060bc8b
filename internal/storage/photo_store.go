package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrTooLarge is returned when an upload exceeds the configured size.
var ErrTooLarge = errors.New("photo exceeds size limit")

// ErrUnsupportedType is returned for content types outside the allow list.
var ErrUnsupportedType = errors.New("unsupported photo type")

// sniffLen is how much of an upload content sniffing looks at.
const sniffLen = 512

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// FilePhotoStore keeps event photos on the local filesystem and serves them through the front
type FilePhotoStore struct {
	baseURL   string // Public URL prefix, e.g. "http://localhost:8080/photos"
	photosDir string
	maxBytes  int64
	allowed   map[string]bool
}

// NewFilePhotoStore creates the photo directory if needed
func NewFilePhotoStore(baseURL, uploadsDir string, maxBytes int64, allowedTypes []string) (*FilePhotoStore, error) {
	photosDir := filepath.Join(uploadsDir, "photos")
	if err := os.MkdirAll(photosDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create photos directory: %w", err)
	}

	allowed := make(map[string]bool, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[strings.ToLower(t)] = true
	}

	return &FilePhotoStore{
		baseURL:   strings.TrimRight(baseURL, "/"),
		photosDir: photosDir,
		maxBytes:  maxBytes,
		allowed:   allowed,
	}, nil
}

// Save writes the upload under a fresh key; partial files are removed on failure.
// The declared content type must agree with what the first bytes show.
func (p *FilePhotoStore) Save(ctx context.Context, contentType string, r io.Reader) (string, string, error) {
	contentType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if _, known := extensions[contentType]; !known || !p.allowed[contentType] {
		return "", "", ErrUnsupportedType
	}

	head := make([]byte, sniffLen)
	got, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", "", fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:got]
	if http.DetectContentType(head) != contentType {
		return "", "", ErrUnsupportedType
	}
	ext := extensions[contentType]
	r = io.MultiReader(bytes.NewReader(head), r)

	key := uuid.New().String() + ext
	fullPath := filepath.Join(p.photosDir, key)

	file, err := os.Create(fullPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to create file: %w", err)
	}

	src := r
	if p.maxBytes > 0 {
		src = io.LimitReader(r, p.maxBytes+1)
	}
	n, err := io.Copy(file, src)
	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && p.maxBytes > 0 && n > p.maxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		os.Remove(fullPath)
		if errors.Is(err, ErrTooLarge) {
			return "", "", err
		}
		return "", "", fmt.Errorf("failed to write file: %w", err)
	}

	return key, p.URL(key), nil
}

// Open returns the stored photo
func (p *FilePhotoStore) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	fullPath, err := p.path(key)
	if err != nil {
		return nil, "", err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}

	contentType := "application/octet-stream"
	switch filepath.Ext(key) {
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	case ".png":
		contentType = "image/png"
	case ".gif":
		contentType = "image/gif"
	case ".webp":
		contentType = "image/webp"
	}
	return file, contentType, nil
}

// Delete removes a photo; missing photos are not an error
func (p *FilePhotoStore) Delete(ctx context.Context, key string) error {
	fullPath, err := p.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// URL returns the public URL for a key
func (p *FilePhotoStore) URL(key string) string {
	return p.baseURL + "/" + key
}

// path rejects keys that could escape the photos directory
func (p *FilePhotoStore) path(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return "", ErrNotFound
	}
	return filepath.Join(p.photosDir, key), nil
}
