package keyword

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/sirupsen/logrus"

	"github.com/iWorld-y/product_radar/app/product_radar/pkg/llm"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/logger"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/model"
)

// DefaultMaxKeywords 默认最多保留的关键词数
const DefaultMaxKeywords = 10

const systemPrompt = `你是一个产品分析专家，请根据给定的主题生成适合 ProductHunt 的搜索标签。请遵循以下规则：
1. 将主题转化为英文并生成相关标签
2. 深入理解主题的类型，生成同类型的相关标签（例如：如果主题是'智能获客'，应该包含'lead'、'lead-generation'等相关标签）
3. 标签全部使用小写英文`

const userPromptTpl = `请为主题"%s"生成10个适合 ProductHunt 搜索的主题标签（优先使用单个最相关的英文单词）。直接返回标签列表，用逗号分隔，不要输出其他内容。例如：ai, productivity, lead, design-tools, ai-tools`

// Generator 通过一次 LLM 调用把主题转换为搜索关键词
type Generator struct {
	cm          llm.ChatModel
	maxKeywords int
	log         logrus.FieldLogger
}

// Option Generator 选项
type Option func(*Generator)

// WithMaxKeywords 设置关键词上限
func WithMaxKeywords(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxKeywords = n
		}
	}
}

// WithLogger 设置日志
func WithLogger(l logrus.FieldLogger) Option {
	return func(g *Generator) { g.log = l }
}

// NewGenerator 创建关键词生成器
func NewGenerator(cm llm.ChatModel, opts ...Option) *Generator {
	g := &Generator{cm: cm, maxKeywords: DefaultMaxKeywords, log: logger.Log}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Generate 生成有序关键词，失败返回 model.ErrGeneration
func (g *Generator) Generate(ctx context.Context, topic string) ([]string, error) {
	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(fmt.Sprintf(userPromptTpl, topic)),
	}

	resp, err := g.cm.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrGeneration, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: empty response", model.ErrGeneration)
	}

	keywords := Parse(llm.CleanContent(resp.Content), g.maxKeywords)
	if len(keywords) == 0 {
		return nil, fmt.Errorf("%w: no usable keywords in %q", model.ErrGeneration, resp.Content)
	}

	g.log.WithField("topic", topic).Infof("生成关键词: %s", strings.Join(keywords, ", "))
	return keywords, nil
}

// Parse 按逗号拆分，去空白、转小写，丢弃空值和重复值，最多保留 limit 个 (limit <= 0 不限制)
func Parse(text string, limit int) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '，' || r == '\n'
	})

	seen := make(map[string]struct{}, len(fields))
	keywords := make([]string, 0, len(fields))
	for _, f := range fields {
		k := strings.ToLower(strings.TrimSpace(f))
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keywords = append(keywords, k)
		if limit > 0 && len(keywords) == limit {
			break
		}
	}
	return keywords
}
