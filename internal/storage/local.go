package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalBackend writes files under dir and exposes them as
// publicPrefix/<name>, the path the router serves statically.
type LocalBackend struct {
	dir          string
	publicPrefix string
}

func NewLocalBackend(dir, publicPrefix string) (*LocalBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalBackend{
		dir:          dir,
		publicPrefix: strings.TrimRight(publicPrefix, "/"),
	}, nil
}

func (b *LocalBackend) Put(_ context.Context, key, _ string, data []byte) (string, error) {
	dst := filepath.Join(b.dir, filepath.Base(key))
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", err
	}
	return b.publicPrefix + "/" + filepath.Base(key), nil
}

func (b *LocalBackend) Remove(_ context.Context, ref string) error {
	if !strings.HasPrefix(ref, b.publicPrefix+"/") {
		return nil
	}
	name := path.Base(ref)
	if name == "." || name == "/" || name == ".." {
		return nil
	}
	err := os.Remove(filepath.Join(b.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
