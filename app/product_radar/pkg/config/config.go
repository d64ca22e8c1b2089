package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/iWorld-y/product_radar/app/product_radar/pkg/model"
)

// 聚合策略
const (
	PolicyStrict  = "strict"  // 第一个关键词必须有结果
	PolicyLenient = "lenient" // 所有关键词都搜索，最后统一判断
)

// 产品目录凭证模式
const (
	AuthModeStatic = "static" // 固定 Developer Token
	AuthModeOAuth  = "oauth"  // client credentials 换取 token
)

// Config 项目配置结构体
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Search      SearchConfig      `yaml:"search"`
	Cache       CacheConfig       `yaml:"cache"`
	Keyword     KeywordConfig     `yaml:"keyword"`
	Aggregate   AggregateConfig   `yaml:"aggregate"`
	Report      ReportConfig      `yaml:"report"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	Provider string `yaml:"provider"` // openai or gemini
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	Timeout  int    `yaml:"timeout"` // 单次调用超时，秒
}

// SearchConfig 产品目录搜索配置
type SearchConfig struct {
	Provider    string            `yaml:"provider"`
	ProductHunt ProductHuntConfig `yaml:"producthunt"`
}

// ProductHuntConfig Product Hunt GraphQL 配置
type ProductHuntConfig struct {
	APIURL     string     `yaml:"api_url"`
	MaxResults int        `yaml:"max_results"`
	Order      string     `yaml:"order"`   // VOTES, RANKING or NEWEST
	Timeout    int        `yaml:"timeout"` // 秒
	Auth       AuthConfig `yaml:"auth"`
}

// AuthConfig 凭证配置
type AuthConfig struct {
	Mode         string `yaml:"mode"`
	APIKey       string `yaml:"api_key"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	TokenURL     string `yaml:"token_url"`
}

// CacheConfig 搜索结果缓存配置
type CacheConfig struct {
	TTLMillis int64 `yaml:"ttl_ms"`
}

// KeywordConfig 关键词生成配置
type KeywordConfig struct {
	MaxKeywords int `yaml:"max_keywords"`
}

// AggregateConfig 聚合配置
type AggregateConfig struct {
	Policy             string `yaml:"policy"`
	Concurrency        int    `yaml:"concurrency"`
	AllowEmptyProducts bool   `yaml:"allow_empty_products"`
}

// ReportConfig 报告生成配置
type ReportConfig struct {
	Enrich EnrichConfig `yaml:"enrich"`
}

// EnrichConfig 抓取产品官网正文补充报告素材
type EnrichConfig struct {
	Enabled  bool `yaml:"enabled"`
	MaxPages int  `yaml:"max_pages"`
	Timeout  int  `yaml:"timeout"` // 秒
	MaxChars int  `yaml:"max_chars"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig LLM 调用限流配置
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// Default 返回带默认值的配置
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
			Timeout:  30,
		},
		Search: SearchConfig{
			Provider: "producthunt",
			ProductHunt: ProductHuntConfig{
				APIURL:     "https://api.producthunt.com/v2/api/graphql",
				MaxResults: 10,
				Order:      "VOTES",
				Timeout:    30,
				Auth: AuthConfig{
					Mode:     AuthModeStatic,
					TokenURL: "https://api.producthunt.com/v2/oauth/token",
				},
			},
		},
		Cache:   CacheConfig{TTLMillis: 3_600_000},
		Keyword: KeywordConfig{MaxKeywords: 10},
		Aggregate: AggregateConfig{
			Policy:      PolicyStrict,
			Concurrency: 4,
		},
		Report: ReportConfig{
			Enrich: EnrichConfig{MaxPages: 5, Timeout: 15, MaxChars: 2000},
		},
		Log:         LogConfig{Level: "info"},
		Concurrency: ConcurrencyConfig{QPS: 2, RPM: 60},
	}
}

// LoadConfig 从指定路径加载配置，未设置的字段使用默认值
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config failed: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config failed: %w", err)
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// LoadDotEnv 加载 .env 文件中的密钥，文件不存在时忽略
func LoadDotEnv(paths ...string) {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
		}
	}
}

// ApplyEnv 用环境变量覆盖密钥类配置
func (c *Config) ApplyEnv() {
	if c.LLM.Provider == "gemini" {
		envOverride(&c.LLM.APIKey, "GEMINI_API_KEY")
	} else {
		envOverride(&c.LLM.APIKey, "OPENAI_API_KEY")
		envOverride(&c.LLM.BaseURL, "OPENAI_BASE_URL")
	}
	envOverride(&c.Search.ProductHunt.Auth.APIKey, "PRODUCTHUNT_API_KEY")
	envOverride(&c.Search.ProductHunt.Auth.ClientID, "PRODUCTHUNT_CLIENT_ID")
	envOverride(&c.Search.ProductHunt.Auth.ClientSecret, "PRODUCTHUNT_CLIENT_SECRET")
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate 检查必填配置，失败返回 model.ErrConfig
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("%w: llm api_key is missing", model.ErrConfig)
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("%w: llm model is missing", model.ErrConfig)
	}

	auth := c.Search.ProductHunt.Auth
	switch auth.Mode {
	case AuthModeStatic:
		if auth.APIKey == "" {
			return fmt.Errorf("%w: producthunt api_key is missing", model.ErrConfig)
		}
	case AuthModeOAuth:
		if auth.ClientID == "" || auth.ClientSecret == "" {
			return fmt.Errorf("%w: producthunt client_id/client_secret are missing", model.ErrConfig)
		}
	default:
		return fmt.Errorf("%w: unknown producthunt auth mode %q", model.ErrConfig, auth.Mode)
	}

	switch c.Aggregate.Policy {
	case PolicyStrict, PolicyLenient:
	default:
		return fmt.Errorf("%w: unknown aggregate policy %q", model.ErrConfig, c.Aggregate.Policy)
	}
	return nil
}

// CacheTTL 缓存有效期
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLMillis) * time.Millisecond
}

// Seconds 将秒数配置转换为时长，0 时使用 fallback
func Seconds(n int, fallback time.Duration) time.Duration {
	if n <= 0 {
		return fallback
	}
	return time.Duration(n) * time.Second
}
