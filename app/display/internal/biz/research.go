package biz

import (
	"context"
	"errors"
	"strings"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/product_radar/app/product_radar/pkg/engine"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/model"
)

const (
	ReasonTopicRequired  = "TOPIC_REQUIRED"
	ReasonResearchFailed = "RESEARCH_FAILED"

	MsgTopicRequired = "请提供产品主题"
)

// Pipeline 调研流程，由 engine.Engine 实现
type Pipeline interface {
	Run(ctx context.Context, opts engine.RunOptions) (*model.ResearchResult, error)
}

// ResearchUseCase 产品调研用例
type ResearchUseCase struct {
	pipeline Pipeline
	log      *log.Helper
}

func NewResearchUseCase(p Pipeline, logger log.Logger) *ResearchUseCase {
	return &ResearchUseCase{pipeline: p, log: log.NewHelper(logger)}
}

// Research 执行一次调研，错误统一转换为 kratos 错误，详细信息只写日志
func (uc *ResearchUseCase) Research(ctx context.Context, topic string) (*model.ResearchResult, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, kerrors.BadRequest(ReasonTopicRequired, MsgTopicRequired)
	}

	res, err := uc.pipeline.Run(ctx, engine.RunOptions{Topic: topic})
	if err != nil {
		uc.log.WithContext(ctx).Errorf("research failed, topic=%s: %+v", topic, err)
		return nil, kerrors.InternalServer(ReasonResearchFailed, publicMessage(err))
	}
	return res, nil
}

func publicMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrInvalidTopic):
		return MsgTopicRequired
	case errors.Is(err, model.ErrGeneration):
		return "关键词生成失败，请稍后重试"
	case errors.Is(err, model.ErrAuth):
		return "产品目录服务暂不可用，请稍后重试"
	case errors.Is(err, model.ErrNoResults):
		return "未找到相关产品，请尝试其他主题"
	case errors.Is(err, model.ErrSynthesis):
		return "分析报告生成失败，请稍后重试"
	default:
		return "研究过程中发生错误"
	}
}
