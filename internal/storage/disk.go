package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// Disk keeps objects as files below a root directory.
type Disk struct {
	root string
}

func NewDisk(root string) (*Disk, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("disk storage directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Disk{root: root}, nil
}

func (d *Disk) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	target := d.path(key)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), target)
}

func (d *Disk) Open(_ context.Context, key string) (Object, error) {
	f, err := os.Open(d.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Object{}, ErrObjectNotFound
		}
		return Object{}, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return Object{}, err
	}
	if info.IsDir() {
		_ = f.Close()
		return Object{}, ErrObjectNotFound
	}
	return Object{
		ReadCloser:  f,
		ContentType: mime.TypeByExtension(filepath.Ext(key)),
		Size:        info.Size(),
	}, nil
}

func (d *Disk) Delete(_ context.Context, key string) error {
	err := os.Remove(d.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrObjectNotFound
	}
	return err
}

func (d *Disk) path(key string) string {
	return filepath.Join(d.root, filepath.FromSlash(key))
}
