package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/webmoto/storefront/config"
)

// ErrObjectNotFound is returned by Open when the key has no object.
var ErrObjectNotFound = errors.New("object not found")

// ImageCacheControl is the caching policy for served listing images.
// Keys are never reused, so images can be cached for a day.
const ImageCacheControl = "public, max-age=86400"

// Backend is implemented by every image store.
type Backend interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (Object, error)
	Delete(ctx context.Context, key string) error
}

// Object is an opened stored file.
type Object struct {
	io.ReadCloser
	ContentType string
	Size        int64
}

// Media stores listing images under generated keys.
type Media struct {
	backend Backend
	prefix  string
}

func NewMedia(backend Backend) *Media {
	return &Media{backend: backend, prefix: "motos"}
}

// Save stores an uploaded image and returns its key. Only image/* content
// types are accepted.
func (m *Media) Save(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("unsupported content type %q", contentType)
	}
	key := m.newKey(filename, contentType)
	if err := m.backend.Put(ctx, key, r, size, contentType); err != nil {
		return "", fmt.Errorf("store %s: %w", key, err)
	}
	return key, nil
}

func (m *Media) Open(ctx context.Context, key string) (Object, error) {
	key, ok := CleanKey(key)
	if !ok {
		return Object{}, ErrObjectNotFound
	}
	return m.backend.Open(ctx, key)
}

func (m *Media) Delete(ctx context.Context, key string) error {
	key, ok := CleanKey(key)
	if !ok {
		return ErrObjectNotFound
	}
	return m.backend.Delete(ctx, key)
}

func (m *Media) newKey(filename, contentType string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		}
	}
	return m.prefix + "/" + uuid.NewString() + ext
}

// CleanKey normalizes a client supplied key and rejects keys that escape
// the store root.
func CleanKey(key string) (string, bool) {
	key = strings.TrimPrefix(path.Clean("/"+key), "/")
	if key == "" || key == "." {
		return "", false
	}
	return key, true
}

// New builds the backend selected by cfg.Backend.
func New(ctx context.Context, cfg config.StorageConfig) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "disk":
		return NewDisk(cfg.DiskDir)
	case "minio":
		client, err := NewMinio(cfg.Minio)
		if err != nil {
			return nil, err
		}
		if err := client.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("minio bucket: %w", err)
		}
		return client, nil
	case "gcs":
		client, err := NewGCS(ctx, cfg.GCS)
		if err != nil {
			return nil, err
		}
		if err := client.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("gcs bucket: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
