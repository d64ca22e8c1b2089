package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iWorld-y/product_radar/app/product_radar/pkg/aggregate"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/cache"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/config"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/keyword"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/llm"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/logger"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/model"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/report"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/search/factory"
)

// KeywordGenerator 主题 -> 关键词
type KeywordGenerator interface {
	Generate(ctx context.Context, topic string) ([]string, error)
}

// ProductAggregator 关键词 -> 去重后的产品
type ProductAggregator interface {
	Aggregate(ctx context.Context, keywords []string) ([]model.Product, error)
}

// ReportSynthesizer 产品 -> 分析报告
type ReportSynthesizer interface {
	Synthesize(ctx context.Context, products []model.Product, topic string) (string, error)
}

// Engine 调研流程控制器
type Engine struct {
	generator   KeywordGenerator
	aggregator  ProductAggregator
	synthesizer ReportSynthesizer
	log         logrus.FieldLogger
}

// NewEngine 根据配置创建引擎实例，c 为进程内共享的搜索缓存 (nil 时新建)
func NewEngine(cfg *config.Config, c cache.Cache) (*Engine, error) {
	ctx := context.Background()

	// 初始化 LLM
	chatModel, err := llm.NewChatModel(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}
	limited := llm.NewLimited(
		chatModel,
		llm.NewLimiter(cfg.Concurrency.QPS, cfg.Concurrency.RPM),
		config.Seconds(cfg.LLM.Timeout, 30*time.Second),
	)

	// 初始化搜索客户端
	if c == nil {
		c = cache.NewMemory(cfg.CacheTTL())
	}
	searcher, err := factory.NewSearcher(cfg, c, logger.Log)
	if err != nil {
		return nil, fmt.Errorf("搜索客户端初始化失败: %w", err)
	}

	gen := keyword.NewGenerator(limited, keyword.WithMaxKeywords(cfg.Keyword.MaxKeywords))
	agg := aggregate.NewAggregator(searcher,
		aggregate.WithPolicy(cfg.Aggregate.Policy),
		aggregate.WithConcurrency(cfg.Aggregate.Concurrency),
		aggregate.WithAllowEmpty(cfg.Aggregate.AllowEmptyProducts),
	)
	var synthOpts []report.Option
	if e := report.NewEnricher(cfg.Report.Enrich); e != nil {
		synthOpts = append(synthOpts, report.WithEnricher(e))
	}
	syn := report.NewSynthesizer(limited, synthOpts...)

	return New(gen, agg, syn, logger.Log), nil
}

// New 用现成的组件组装引擎
func New(g KeywordGenerator, a ProductAggregator, s ReportSynthesizer, log logrus.FieldLogger) *Engine {
	if log == nil {
		log = logger.Log
	}
	return &Engine{generator: g, aggregator: a, synthesizer: s, log: log}
}

// RunOptions 运行选项
type RunOptions struct {
	Topic            string
	ProgressCallback func(status string, progress int)
}

// Run 执行一次调研：关键词 -> 搜索聚合 -> 报告
func (e *Engine) Run(ctx context.Context, opts RunOptions) (*model.ResearchResult, error) {
	topic := strings.TrimSpace(opts.Topic)
	if topic == "" {
		return nil, model.ErrInvalidTopic
	}
	progress := func(status string, p int) {
		if opts.ProgressCallback != nil {
			opts.ProgressCallback(status, p)
		}
	}

	log := e.log.WithField("run_id", uuid.NewString())
	log.Infof("开始研究主题: %s", topic)
	start := time.Now()
	progress("generating keywords", 0)

	// 1. 生成关键词
	keywords, err := e.generator.Generate(ctx, topic)
	if err != nil {
		log.Errorf("关键词生成失败: %v", err)
		return nil, err
	}
	progress(fmt.Sprintf("searching %d keywords", len(keywords)), 20)

	// 2. 搜索并聚合
	products, err := e.aggregator.Aggregate(ctx, keywords)
	if err != nil {
		log.Errorf("产品搜索失败: %v", err)
		return nil, err
	}
	progress(fmt.Sprintf("synthesizing report from %d products", len(products)), 60)

	// 3. 生成报告
	content, err := e.synthesizer.Synthesize(ctx, products, topic)
	if err != nil {
		log.Errorf("报告生成失败: %v", err)
		return nil, err
	}

	progress("completed", 100)
	log.Infof("研究完成: %d 个关键词, %d 个产品, 耗时 %s", len(keywords), len(products), time.Since(start).Round(time.Millisecond))
	return &model.ResearchResult{
		Content:  content,
		Keywords: keywords,
		Products: products,
	}, nil
}
