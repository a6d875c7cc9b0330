package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage writes uploads to disk. Mounts maps a reference prefix such
// as /uploads to the directory it is served from.
type LocalStorage struct {
	mounts map[string]string
}

func NewLocalStorage(mounts map[string]string) *LocalStorage {
	m := make(map[string]string, len(mounts))
	for prefix, dir := range mounts {
		m["/"+strings.Trim(prefix, "/")] = dir
	}
	return &LocalStorage{mounts: m}
}

// Dirs returns the mount table for static file serving.
func (s *LocalStorage) Dirs() map[string]string {
	out := make(map[string]string, len(s.mounts))
	for k, v := range s.mounts {
		out[k] = v
	}
	return out
}

func (s *LocalStorage) resolve(ref string) (string, error) {
	prefix, rest, err := splitRef(ref)
	if err != nil {
		return "", err
	}
	dir, ok := s.mounts[prefix]
	if !ok {
		return "", ErrInvalidRef
	}
	return filepath.Join(dir, filepath.FromSlash(rest)), nil
}

func (s *LocalStorage) Save(_ context.Context, folder, name string, data []byte, _ string) (string, error) {
	ref := strings.TrimRight(folder, "/") + "/" + name
	target, err := s.resolve(ref)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	return ref, nil
}

func (s *LocalStorage) Open(_ context.Context, ref string) (io.ReadCloser, error) {
	target, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(target)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}
