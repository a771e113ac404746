package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// LocalStore writes files below a base directory of an afero filesystem
type LocalStore struct {
	fs      afero.Fs
	baseDir string
}

// NewLocalStore uses the OS filesystem when fs is nil
func NewLocalStore(fs afero.Fs, baseDir string) *LocalStore {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if baseDir == "" {
		baseDir = "./uploads"
	}
	return &LocalStore{fs: fs, baseDir: baseDir}
}

func (s *LocalStore) Save(_ context.Context, key string, content []byte, _ string) (string, error) {
	full, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := s.fs.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	if err := afero.WriteFile(s.fs, full, content, 0o640); err != nil {
		return "", err
	}
	return "local://" + key, nil
}

func (s *LocalStore) Open(_ context.Context, ref string) (io.ReadCloser, error) {
	key, ok := splitRef(ref, "local")
	if !ok {
		return nil, ErrInvalidReference
	}
	full, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	f, err := s.fs.Open(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return f, nil
}

// resolve maps a key to a path, refusing keys that climb out of baseDir
func (s *LocalStore) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", ErrInvalidReference
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(clean)), nil
}
