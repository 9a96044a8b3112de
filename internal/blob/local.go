package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	appconfig "github.com/devpool/pps/internal/config"
)

// LocalStore 本地磁盘存储,开发环境使用
type LocalStore struct {
	dir        string
	publicBase string
}

// NewLocalStore 创建本地存储
func NewLocalStore(cfg appconfig.BlobConfig) (*LocalStore, error) {
	dir := cfg.LocalDir
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &LocalStore{
		dir:        dir,
		publicBase: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// Upload 写入本地文件并返回公开URL
func (s *LocalStore) Upload(_ context.Context, key, _ string, body io.Reader) (string, error) {
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create dir for %s: %w", key, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", key, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", key, err)
	}
	return s.publicBase + "/" + key, nil
}
