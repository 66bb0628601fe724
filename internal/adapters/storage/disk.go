// Package storage is the local stand-in for the external media host: blobs
// land in a directory the router serves statically.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

type DiskStore struct {
	dir  string
	base string
}

// NewDiskStore creates dir if needed. base is the public URL prefix blobs
// are served under.
func NewDiskStore(dir, base string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &DiskStore{dir: dir, base: base}, nil
}

func (s *DiskStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	name = filepath.Base(name)
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create blob: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write blob: %w", err)
	}
	log.Info().Str("module", "storage").Str("name", name).Int64("bytes", n).Msg("blob stored")
	return s.base + "/" + name, nil
}

func (s *DiskStore) Remove(ctx context.Context, name string) error {
	name = filepath.Base(name)
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove blob: %w", err)
	}
	log.Info().Str("module", "storage").Str("name", name).Msg("blob removed")
	return nil
}
