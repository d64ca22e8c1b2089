package aggregate

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/iWorld-y/product_radar/app/product_radar/pkg/config"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/logger"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/model"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/search"
)

// DefaultConcurrency 默认同时进行的关键词搜索数
const DefaultConcurrency = 4

// Aggregator 按关键词搜索并合并去重
type Aggregator struct {
	searcher    search.Searcher
	policy      string
	concurrency int
	allowEmpty  bool
	log         logrus.FieldLogger
}

// Option Aggregator 选项
type Option func(*Aggregator)

// WithPolicy 设置聚合策略 (strict / lenient)
func WithPolicy(policy string) Option {
	return func(a *Aggregator) {
		if policy != "" {
			a.policy = policy
		}
	}
}

// WithConcurrency 设置并发数，小于 1 时按 1 处理
func WithConcurrency(n int) Option {
	return func(a *Aggregator) { a.concurrency = max(n, 1) }
}

// WithAllowEmpty 允许最终结果为空
func WithAllowEmpty(allow bool) Option {
	return func(a *Aggregator) { a.allowEmpty = allow }
}

// WithLogger 设置日志
func WithLogger(l logrus.FieldLogger) Option {
	return func(a *Aggregator) { a.log = l }
}

// NewAggregator 创建聚合器，默认 strict 策略
func NewAggregator(s search.Searcher, opts ...Option) *Aggregator {
	a := &Aggregator{
		searcher:    s,
		policy:      config.PolicyStrict,
		concurrency: DefaultConcurrency,
		log:         logger.Log,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Aggregate 返回按关键词顺序合并、去重后的产品列表
func (a *Aggregator) Aggregate(ctx context.Context, keywords []string) ([]model.Product, error) {
	if len(keywords) == 0 {
		return nil, fmt.Errorf("%w: no keywords", model.ErrNoResults)
	}

	var (
		groups [][]model.Product
		err    error
	)
	switch a.policy {
	case config.PolicyStrict:
		groups, err = a.strict(ctx, keywords)
	case config.PolicyLenient:
		groups, err = a.fanOut(ctx, keywords)
	default:
		return nil, fmt.Errorf("unknown aggregate policy: %s", a.policy)
	}
	if err != nil {
		return nil, err
	}

	var all []model.Product
	for _, g := range groups {
		all = append(all, g...)
	}
	products := Dedup(all)

	if len(products) == 0 && !a.allowEmpty {
		return nil, fmt.Errorf("%w: %d keywords searched", model.ErrNoResults, len(keywords))
	}
	a.log.Infof("聚合完成: %d 个关键词, %d 个产品 (去重前 %d)", len(keywords), len(products), len(all))
	return products, nil
}

// strict 第一个关键词单独搜索，必须有结果
func (a *Aggregator) strict(ctx context.Context, keywords []string) ([][]model.Product, error) {
	first, err := a.searcher.Search(ctx, keywords[0])
	if err != nil {
		return nil, fmt.Errorf("%w: first keyword %q: %w", model.ErrNoResults, keywords[0], err)
	}
	if len(first) == 0 {
		return nil, fmt.Errorf("%w: first keyword %q returned nothing", model.ErrNoResults, keywords[0])
	}

	rest, err := a.fanOut(ctx, keywords[1:])
	if err != nil {
		return nil, err
	}
	return append([][]model.Product{first}, rest...), nil
}

// fanOut 并发搜索，结果按关键词下标存放
func (a *Aggregator) fanOut(ctx context.Context, keywords []string) ([][]model.Product, error) {
	results := make([][]model.Product, len(keywords))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, kw := range keywords {
		g.Go(func() error {
			products, err := a.searcher.Search(gctx, kw)
			if err != nil {
				if errors.Is(err, model.ErrAuth) {
					return fmt.Errorf("keyword %q: %w", kw, err)
				}
				a.log.WithField("keyword", kw).Warnf("搜索失败，跳过: %v", err)
				return nil
			}
			results[i] = products
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Dedup 按全部字段去重，保留第一次出现的位置
func Dedup(products []model.Product) []model.Product {
	seen := make(map[string]struct{}, len(products))
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		key, err := sonic.Marshal(p)
		if err != nil {
			key = fmt.Appendf(nil, "%#v", p)
		}
		if _, ok := seen[string(key)]; ok {
			continue
		}
		seen[string(key)] = struct{}{}
		out = append(out, p)
	}
	return out
}
