package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"fabcatalogue/logger"
)

// Filesystem stores each object as a plain file below baseFolder.
type Filesystem struct {
	baseFolder string
}

func NewFilesystem(baseFolder string) (*Filesystem, error) {
	if baseFolder == "" {
		return nil, errors.New("filesystem storage needs a directory")
	}
	if err := os.MkdirAll(baseFolder, 0o750); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	logger.Default().Debugf("blobstore: filesystem at %s", baseFolder)
	return &Filesystem{baseFolder: baseFolder}, nil
}

func (f *Filesystem) Name() string { return "filesystem" }

func (f *Filesystem) path(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(f.baseFolder, filepath.FromSlash(key)), nil
}

// Put writes to a temp file first and renames it into place.
func (f *Filesystem) Put(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return fmt.Errorf("create dir for %s: %w", key, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return fmt.Errorf("create %s: %w", key, err)
	}
	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}

func (f *Filesystem) Get(_ context.Context, key string) (io.ReadCloser, error) {
	p, err := f.path(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", key, err)
	}
	return file, nil
}

func (f *Filesystem) Delete(_ context.Context, key string) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
