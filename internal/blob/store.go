package blob

import (
	"context"
	"fmt"
	"io"
	"strings"

	appconfig "github.com/devpool/pps/internal/config"
)

// Store 凭证文件存储契约,返回可直接保存的不透明URL
type Store interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// New 按配置选择存储实现
func New(ctx context.Context, cfg appconfig.BlobConfig) (Store, error) {
	switch strings.ToLower(cfg.Provider) {
	case "s3":
		return NewS3Store(ctx, cfg)
	case "local", "":
		return NewLocalStore(cfg)
	default:
		return nil, fmt.Errorf("unknown blob provider: %s", cfg.Provider)
	}
}
