package biz

import (
	"context"
	"fmt"
	"testing"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/product_radar/app/product_radar/pkg/engine"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/model"
)

// mockPipeline 模拟调研流程
type mockPipeline struct {
	res   *model.ResearchResult
	err   error
	calls int
	topic string
}

func (m *mockPipeline) Run(_ context.Context, opts engine.RunOptions) (*model.ResearchResult, error) {
	m.calls++
	m.topic = opts.Topic
	return m.res, m.err
}

func TestResearch(t *testing.T) {
	p := &mockPipeline{res: &model.ResearchResult{Content: "report", Keywords: []string{"ai"}}}
	uc := NewResearchUseCase(p, log.DefaultLogger)

	res, err := uc.Research(context.Background(), "  AI助手工具 ")
	require.NoError(t, err)
	assert.Equal(t, "report", res.Content)
	assert.Equal(t, "AI助手工具", p.topic)
}

func TestResearchBlankTopic(t *testing.T) {
	p := &mockPipeline{}
	uc := NewResearchUseCase(p, log.DefaultLogger)

	_, err := uc.Research(context.Background(), "   ")
	se := kerrors.FromError(err)
	assert.EqualValues(t, 400, se.Code)
	assert.Equal(t, MsgTopicRequired, se.Message)
	assert.Zero(t, p.calls)
}

func TestResearchFailureMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("%w: boom", model.ErrGeneration), "关键词生成失败，请稍后重试"},
		{fmt.Errorf("%w: first keyword: %w", model.ErrNoResults, model.ErrAuth), "产品目录服务暂不可用，请稍后重试"},
		{fmt.Errorf("%w: nothing", model.ErrNoResults), "未找到相关产品，请尝试其他主题"},
		{fmt.Errorf("%w: timeout", model.ErrSynthesis), "分析报告生成失败，请稍后重试"},
		{fmt.Errorf("unexpected"), "研究过程中发生错误"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			uc := NewResearchUseCase(&mockPipeline{err: tt.err}, log.DefaultLogger)
			_, err := uc.Research(context.Background(), "x")
			se := kerrors.FromError(err)
			assert.EqualValues(t, 500, se.Code)
			assert.Equal(t, tt.want, se.Message)
			assert.NotContains(t, se.Message, "boom")
		})
	}
}
