package engine

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/product_radar/app/product_radar/pkg/aggregate"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/cache"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/config"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/keyword"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/model"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/report"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/search"
)

// scriptedChatModel 根据 system prompt 区分关键词生成和报告生成
type scriptedChatModel struct {
	mu             sync.Mutex
	keywords       string
	report         string
	reportErr      error
	keywordCalls   int
	synthesisCalls int
}

func (m *scriptedChatModel) Generate(_ context.Context, input []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if strings.Contains(input[0].Content, "搜索标签") {
		m.keywordCalls++
		return schema.AssistantMessage(m.keywords, nil), nil
	}
	m.synthesisCalls++
	if m.reportErr != nil {
		return nil, m.reportErr
	}
	return schema.AssistantMessage(m.report, nil), nil
}

type mockProvider struct {
	mu       sync.Mutex
	products map[string][]model.Product
	calls    map[string]int
}

func (p *mockProvider) Fetch(_ context.Context, kw string) ([]model.Product, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.calls == nil {
		p.calls = make(map[string]int)
	}
	p.calls[kw]++
	return p.products[kw], nil
}

func (p *mockProvider) CacheKey(kw string) string { return "producthunt:VOTES:" + kw }

func (p *mockProvider) totalCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.calls {
		n += c
	}
	return n
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestEngine(cm *scriptedChatModel, p *mockProvider, policy string) *Engine {
	log := quietLogger()
	dir := search.NewDirectory(p, cache.NewMemory(time.Hour), search.WithLogger(log))
	return New(
		keyword.NewGenerator(cm, keyword.WithLogger(log)),
		aggregate.NewAggregator(dir, aggregate.WithPolicy(policy), aggregate.WithLogger(log)),
		report.NewSynthesizer(cm, report.WithLogger(log)),
		log,
	)
}

func prod(name string) model.Product {
	return model.Product{Name: name, Tagline: name + " tagline", Topics: []string{}}
}

func TestRunDistinctProductsKeepKeywordOrder(t *testing.T) {
	cm := &scriptedChatModel{keywords: "ai, assistant, productivity", report: "## 报告"}
	p := &mockProvider{products: map[string][]model.Product{
		"ai":           {prod("A1"), prod("A2")},
		"assistant":    {},
		"productivity": {prod("P1")},
	}}

	res, err := newTestEngine(cm, p, config.PolicyStrict).Run(context.Background(), RunOptions{Topic: "AI助手工具"})
	require.NoError(t, err)

	assert.Equal(t, []string{"ai", "assistant", "productivity"}, res.Keywords)
	assert.Equal(t, []model.Product{prod("A1"), prod("A2"), prod("P1")}, res.Products)
	assert.Equal(t, "## 报告", res.Content)
	assert.Equal(t, 1, cm.synthesisCalls)
}

func TestRunDuplicateAcrossKeywords(t *testing.T) {
	cm := &scriptedChatModel{keywords: "ai, assistant", report: "r"}
	p := &mockProvider{products: map[string][]model.Product{
		"ai":        {prod("Shared"), prod("A")},
		"assistant": {prod("B"), prod("Shared")},
	}}

	res, err := newTestEngine(cm, p, config.PolicyLenient).Run(context.Background(), RunOptions{Topic: "AI助手工具"})
	require.NoError(t, err)
	assert.Equal(t, []model.Product{prod("Shared"), prod("A"), prod("B")}, res.Products)
}

func TestRunStrictFirstKeywordEmpty(t *testing.T) {
	cm := &scriptedChatModel{keywords: "ai, assistant", report: "r"}
	p := &mockProvider{products: map[string][]model.Product{
		"assistant": {prod("B")},
	}}

	res, err := newTestEngine(cm, p, config.PolicyStrict).Run(context.Background(), RunOptions{Topic: "AI助手工具"})
	assert.ErrorIs(t, err, model.ErrNoResults)
	assert.Nil(t, res)
	assert.Zero(t, cm.synthesisCalls)
}

func TestRunSynthesisFailure(t *testing.T) {
	cm := &scriptedChatModel{keywords: "ai", reportErr: errors.New("provider down")}
	p := &mockProvider{products: map[string][]model.Product{"ai": {prod("A")}}}

	res, err := newTestEngine(cm, p, config.PolicyStrict).Run(context.Background(), RunOptions{Topic: "x"})
	assert.ErrorIs(t, err, model.ErrSynthesis)
	assert.Nil(t, res)
}

func TestRunGenerationFailure(t *testing.T) {
	cm := &scriptedChatModel{keywords: " , ,"}
	p := &mockProvider{}

	_, err := newTestEngine(cm, p, config.PolicyStrict).Run(context.Background(), RunOptions{Topic: "x"})
	assert.ErrorIs(t, err, model.ErrGeneration)
	assert.Zero(t, p.totalCalls())
	assert.Zero(t, cm.synthesisCalls)
}

func TestRunEmptyTopic(t *testing.T) {
	cm := &scriptedChatModel{}
	_, err := newTestEngine(cm, &mockProvider{}, config.PolicyStrict).Run(context.Background(), RunOptions{Topic: "  "})
	assert.ErrorIs(t, err, model.ErrInvalidTopic)
	assert.Zero(t, cm.keywordCalls)
}

func TestRunUsesCacheAcrossRuns(t *testing.T) {
	cm := &scriptedChatModel{keywords: "ai", report: "r"}
	p := &mockProvider{products: map[string][]model.Product{"ai": {prod("A")}}}
	e := newTestEngine(cm, p, config.PolicyStrict)

	_, err := e.Run(context.Background(), RunOptions{Topic: "x"})
	require.NoError(t, err)
	_, err = e.Run(context.Background(), RunOptions{Topic: "x"})
	require.NoError(t, err)
	assert.Equal(t, 1, p.totalCalls())
}

func TestRunProgressCallback(t *testing.T) {
	cm := &scriptedChatModel{keywords: "ai", report: "r"}
	p := &mockProvider{products: map[string][]model.Product{"ai": {prod("A")}}}

	var progress []int
	_, err := newTestEngine(cm, p, config.PolicyStrict).Run(context.Background(), RunOptions{
		Topic:            "x",
		ProgressCallback: func(_ string, n int) { progress = append(progress, n) },
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 20, 60, 100}, progress)
}
