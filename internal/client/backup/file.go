package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSink keeps snapshots as files below a root directory.
type FileSink struct {
	root string
}

func NewFileSink(root string) *FileSink {
	return &FileSink{root: root}
}

func (s *FileSink) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid snapshot key %q", key)
	}
	return filepath.Join(s.root, clean), nil
}

func (s *FileSink) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o600)
}

func (s *FileSink) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}
