package factory

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iWorld-y/product_radar/app/product_radar/pkg/cache"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/config"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/producthunt"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/search"
)

// NewSearcher 根据配置创建带缓存的目录搜索实例
func NewSearcher(cfg *config.Config, c cache.Cache, log logrus.FieldLogger) (search.Searcher, error) {
	switch cfg.Search.Provider {
	case "", "producthunt":
		ph := cfg.Search.ProductHunt
		creds, err := NewCredentials(ph)
		if err != nil {
			return nil, err
		}
		return search.NewDirectory(producthunt.NewClient(ph, creds), c, search.WithLogger(log)), nil

	default:
		return nil, fmt.Errorf("unknown search provider: %s", cfg.Search.Provider)
	}
}

// NewCredentials 按 auth.mode 选择凭证策略
func NewCredentials(ph config.ProductHuntConfig) (producthunt.CredentialProvider, error) {
	auth := ph.Auth
	switch auth.Mode {
	case "", config.AuthModeStatic:
		return producthunt.NewStaticCredentials(auth.APIKey), nil

	case config.AuthModeOAuth:
		tokenURL := auth.TokenURL
		if tokenURL == "" {
			tokenURL = producthunt.DefaultTokenURL
		}
		httpClient := &http.Client{Timeout: config.Seconds(ph.Timeout, 30*time.Second)}
		return producthunt.NewOAuthCredentials(auth.ClientID, auth.ClientSecret, tokenURL, httpClient), nil

	default:
		return nil, fmt.Errorf("unknown producthunt auth mode: %s", auth.Mode)
	}
}
