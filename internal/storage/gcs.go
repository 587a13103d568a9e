package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"github.com/webmoto/storefront/config"
	"google.golang.org/api/option"
)

// GCS keeps images in a Google Cloud Storage bucket.
type GCS struct {
	bucket  *storage.BucketHandle
	client  *storage.Client
	name    string
	project string
}

func NewGCS(ctx context.Context, cfg config.GCSConfig) (*GCS, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("gcs bucket is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}
	return &GCS{
		bucket:  client.Bucket(cfg.Bucket),
		client:  client,
		name:    cfg.Bucket,
		project: cfg.ProjectID,
	}, nil
}

// EnsureBucket creates the bucket when it is missing. Creating needs a
// project id.
func (g *GCS) EnsureBucket(ctx context.Context) error {
	_, err := g.bucket.Attrs(ctx)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, storage.ErrBucketNotExist):
		return err
	case g.project == "":
		return fmt.Errorf("bucket %s does not exist and no project id is set", g.name)
	}
	return g.bucket.Create(ctx, g.project, nil)
}

func (g *GCS) Put(ctx context.Context, key string, r io.Reader, _ int64, contentType string) error {
	w := g.bucket.Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = ImageCacheControl
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func (g *GCS) Open(ctx context.Context, key string) (Object, error) {
	rd, err := g.bucket.Object(key).NewReader(ctx)
	if err != nil {
		return Object{}, fromGCS(err)
	}
	return Object{ReadCloser: rd, ContentType: rd.Attrs.ContentType, Size: rd.Attrs.Size}, nil
}

func (g *GCS) Delete(ctx context.Context, key string) error {
	return fromGCS(g.bucket.Object(key).Delete(ctx))
}

func fromGCS(err error) error {
	if errors.Is(err, storage.ErrObjectNotExist) {
		return ErrObjectNotFound
	}
	return err
}
