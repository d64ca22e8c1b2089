package report

import (
	"context"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/iWorld-y/product_radar/app/product_radar/pkg/config"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/logger"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/model"
)

const (
	defaultMaxPages     = 5
	defaultMaxChars     = 2000
	defaultFetchTimeout = 15 * time.Second
	fetchConcurrency    = 3
)

// Excerpt 产品官网正文摘录
type Excerpt struct {
	Name string
	URL  string
	Text string
}

// FetchFunc 抓取网页正文
type FetchFunc func(ctx context.Context, url string, timeout time.Duration) (string, error)

// Enricher 抓取产品官网正文，失败的页面直接跳过
type Enricher struct {
	fetch    FetchFunc
	maxPages int
	maxChars int
	timeout  time.Duration
	log      logrus.FieldLogger
}

// EnricherOption Enricher 选项
type EnricherOption func(*Enricher)

// WithFetchFunc 替换抓取实现，测试用
func WithFetchFunc(f FetchFunc) EnricherOption {
	return func(e *Enricher) { e.fetch = f }
}

// WithEnricherLogger 设置日志
func WithEnricherLogger(l logrus.FieldLogger) EnricherOption {
	return func(e *Enricher) { e.log = l }
}

// NewEnricher 按配置创建，未启用时返回 nil
func NewEnricher(cfg config.EnrichConfig, opts ...EnricherOption) *Enricher {
	if !cfg.Enabled {
		return nil
	}
	e := &Enricher{
		fetch:    fetchReadable,
		maxPages: cfg.MaxPages,
		maxChars: cfg.MaxChars,
		timeout:  config.Seconds(cfg.Timeout, defaultFetchTimeout),
		log:      logger.Log,
	}
	if e.maxPages <= 0 {
		e.maxPages = defaultMaxPages
	}
	if e.maxChars <= 0 {
		e.maxChars = defaultMaxChars
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

func fetchReadable(ctx context.Context, url string, timeout time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	article, err := readability.FromURL(url, timeout)
	if err != nil {
		return "", err
	}
	return article.TextContent, nil
}

// Enrich 按产品顺序抓取前 maxPages 个有官网的产品
func (e *Enricher) Enrich(ctx context.Context, products []model.Product) []Excerpt {
	var targets []model.Product
	for _, p := range products {
		if p.Website == "" {
			continue
		}
		targets = append(targets, p)
		if len(targets) == e.maxPages {
			break
		}
	}
	if len(targets) == 0 {
		return nil
	}

	texts := make([]string, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, p := range targets {
		g.Go(func() error {
			text, err := e.fetch(gctx, p.Website, e.timeout)
			if err != nil {
				e.log.WithField("url", p.Website).Warnf("抓取官网失败，跳过: %v", err)
				return nil
			}
			texts[i] = truncate(strings.Join(strings.Fields(text), " "), e.maxChars)
			return nil
		})
	}
	_ = g.Wait()

	var excerpts []Excerpt
	for i, p := range targets {
		if texts[i] == "" {
			continue
		}
		excerpts = append(excerpts, Excerpt{Name: p.Name, URL: p.Website, Text: texts[i]})
	}
	return excerpts
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
