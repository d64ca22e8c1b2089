package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/product_radar/app/product_radar/pkg/config"
)

// ChatModel 关键词生成与报告生成共用的对话模型
type ChatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// NewChatModel 根据配置创建对话模型
func NewChatModel(ctx context.Context, cfg config.LLMConfig) (ChatModel, error) {
	switch cfg.Provider {
	case "", "openai":
		cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("init openai chat model failed: %w", err)
		}
		return cm, nil

	case "gemini":
		return NewGeminiModel(ctx, cfg.APIKey, cfg.Model)

	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}

// NewLimiter 按 RPM/QPS 创建限流器，Limit 为 RPM/60，Burst 为 QPS
func NewLimiter(qps, rpm int) *rate.Limiter {
	if rpm <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	if qps <= 0 {
		qps = 1
	}
	return rate.NewLimiter(rate.Limit(float64(rpm)/60.0), qps)
}

// Limited 为每次调用加上限流和超时，不做重试
type Limited struct {
	cm      ChatModel
	limiter *rate.Limiter
	timeout time.Duration
}

// NewLimited 包装对话模型，limiter 可为 nil，timeout 为 0 时不设超时
func NewLimited(cm ChatModel, limiter *rate.Limiter, timeout time.Duration) *Limited {
	return &Limited{cm: cm, limiter: limiter, timeout: timeout}
}

// Generate implements ChatModel
func (l *Limited) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	if l.limiter != nil {
		if err := l.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("limiter wait error: %w", err)
		}
	}
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	return l.cm.Generate(ctx, input, opts...)
}

// CleanContent 去掉模型输出外层的空白和 markdown 代码块标记
func CleanContent(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = ""
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
