package cache

import (
	"sync"
	"time"

	"github.com/iWorld-y/product_radar/app/product_radar/pkg/model"
)

// DefaultTTL 搜索结果默认有效期
const DefaultTTL = time.Hour

// Cache 关键词搜索结果缓存
type Cache interface {
	// Get 返回未过期的缓存值
	Get(key string) ([]model.Product, bool)
	// Put 写入或覆盖缓存值
	Put(key string, products []model.Product)
}

// Entry 缓存条目，写入后不再修改
type Entry struct {
	FetchedAt time.Time
	Products  []model.Product
}

// Memory 进程内缓存，过期条目在下次写入时被覆盖
type Memory struct {
	mu      sync.RWMutex
	entries map[string]Entry
	ttl     time.Duration
	now     func() time.Time
}

var _ Cache = (*Memory)(nil)

// Option Memory 选项
type Option func(*Memory)

// WithClock 替换时钟，测试用
func WithClock(now func() time.Time) Option {
	return func(m *Memory) { m.now = now }
}

// NewMemory 创建进程内缓存，ttl <= 0 时使用 DefaultTTL
func NewMemory(ttl time.Duration, opts ...Option) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Memory{
		entries: make(map[string]Entry),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Get implements Cache
func (m *Memory) Get(key string) ([]model.Product, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok || m.now().Sub(e.FetchedAt) >= m.ttl {
		return nil, false
	}
	return clone(e.Products), true
}

// Put implements Cache
func (m *Memory) Put(key string, products []model.Product) {
	e := Entry{FetchedAt: m.now(), Products: clone(products)}
	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
}

// Len 当前条目数 (含已过期)
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func clone(products []model.Product) []model.Product {
	out := make([]model.Product, len(products))
	copy(out, products)
	return out
}
