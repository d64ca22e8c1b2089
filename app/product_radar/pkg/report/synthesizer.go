package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/schema"
	"github.com/sirupsen/logrus"

	"github.com/iWorld-y/product_radar/app/product_radar/pkg/llm"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/logger"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/model"
)

const systemPrompt = `你是一个产品分析专家，请分析 ProductHunt 上的产品数据并生成分析报告。请基于提供的产品数据进行深入分析，重点关注以下方面：
1. 市场概览：分析当前市场上的主要产品都在提供什么核心能力，有哪些主要功能方向
2. 市场诉求：深入分析用户可能想要的功能和特性，包括未被满足的需求和痛点
3. 潜在竞争点：如何通过差异化定位或功能创新来建立竞争优势，包括可能的改进方向和创新机会

请直接生成分析报告，无需重复产品数据。使用 Markdown 标题和段落组织内容，确保报告易于阅读和理解。`

// Synthesizer 通过一次 LLM 调用生成市场分析报告
type Synthesizer struct {
	cm       llm.ChatModel
	enricher *Enricher
	log      logrus.FieldLogger
}

// Option Synthesizer 选项
type Option func(*Synthesizer)

// WithEnricher 在请求中附带产品官网摘录
func WithEnricher(e *Enricher) Option {
	return func(s *Synthesizer) { s.enricher = e }
}

// WithLogger 设置日志
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Synthesizer) { s.log = l }
}

// NewSynthesizer 创建报告生成器
func NewSynthesizer(cm llm.ChatModel, opts ...Option) *Synthesizer {
	s := &Synthesizer{cm: cm, log: logger.Log}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Synthesize 返回模型输出的报告原文，失败返回 model.ErrSynthesis
func (s *Synthesizer) Synthesize(ctx context.Context, products []model.Product, topic string) (string, error) {
	userPrompt, err := s.buildUserPrompt(ctx, products, topic)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrSynthesis, err)
	}

	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(userPrompt),
	}
	resp, err := s.cm.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrSynthesis, err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", fmt.Errorf("%w: empty content", model.ErrSynthesis)
	}

	s.log.WithField("topic", topic).Infof("报告生成完成，长度 %d", len(resp.Content))
	return resp.Content, nil
}

func (s *Synthesizer) buildUserPrompt(ctx context.Context, products []model.Product, topic string) (string, error) {
	if products == nil {
		products = []model.Product{}
	}
	data, err := sonic.ConfigStd.MarshalIndent(products, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal products: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "请分析以下与\"%s\"相关的产品数据，按照上述结构生成报告。\n产品数据：\n%s", topic, data)

	if s.enricher != nil {
		excerpts := s.enricher.Enrich(ctx, products)
		if len(excerpts) > 0 {
			sb.WriteString("\n\n以下是部分产品官网的正文摘录，可作为补充参考：\n")
			for i, ex := range excerpts {
				fmt.Fprintf(&sb, "\n摘录 %d:\n产品: %s\n网址: %s\n内容: %s\n", i+1, ex.Name, ex.URL, ex.Text)
			}
		}
	}
	return sb.String(), nil
}
