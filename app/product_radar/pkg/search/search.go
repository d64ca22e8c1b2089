package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/iWorld-y/product_radar/app/product_radar/pkg/cache"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/logger"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/model"
)

// Searcher 定义按关键词查询产品目录的接口
type Searcher interface {
	Search(ctx context.Context, keyword string) ([]model.Product, error)
}

// Provider 具体的产品目录数据源，不带缓存
type Provider interface {
	// Fetch 查询单个关键词，凭证问题返回 model.ErrAuth
	Fetch(ctx context.Context, keyword string) ([]model.Product, error)
	// CacheKey 关键词对应的缓存键
	CacheKey(keyword string) string
}

// Directory 带缓存的目录搜索，单个关键词的失败只记录日志
type Directory struct {
	provider Provider
	cache    cache.Cache
	log      logrus.FieldLogger
}

var _ Searcher = (*Directory)(nil)

// Option Directory 选项
type Option func(*Directory)

// WithLogger 设置日志
func WithLogger(l logrus.FieldLogger) Option {
	return func(d *Directory) { d.log = l }
}

// NewDirectory 创建目录搜索，cache 为 nil 时使用默认有效期的内存缓存
func NewDirectory(p Provider, c cache.Cache, opts ...Option) *Directory {
	if c == nil {
		c = cache.NewMemory(cache.DefaultTTL)
	}
	d := &Directory{provider: p, cache: c, log: logger.Log}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Search 先查缓存，未命中时请求数据源并写入缓存
func (d *Directory) Search(ctx context.Context, keyword string) ([]model.Product, error) {
	key := d.provider.CacheKey(keyword)
	if products, ok := d.cache.Get(key); ok {
		d.log.WithField("keyword", keyword).Debugf("命中缓存: %d 个产品", len(products))
		return products, nil
	}

	products, err := d.provider.Fetch(ctx, keyword)
	if err != nil {
		if errors.Is(err, model.ErrAuth) {
			return nil, err
		}
		d.log.WithField("keyword", keyword).Warnf("%v", fmt.Errorf("%w: %v", model.ErrSearch, err))
		return []model.Product{}, nil
	}

	d.cache.Put(key, products)
	d.log.WithField("keyword", keyword).Infof("搜索到 %d 个产品", len(products))
	return products, nil
}
