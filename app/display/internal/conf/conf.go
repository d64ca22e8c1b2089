package conf

type Bootstrap struct {
	Server *Server
	Radar  *Radar
}

type Server struct {
	Http *HTTP
}

type HTTP struct {
	Addr    string
	Timeout string
}

// Radar 调研流程配置，未填写的字段使用 pipeline 默认值
type Radar struct {
	Llm         *LLM         `json:"llm"`
	Search      *Search      `json:"search"`
	Cache       *Cache       `json:"cache"`
	Keyword     *Keyword     `json:"keyword"`
	Aggregate   *Aggregate   `json:"aggregate"`
	Enrich      *Enrich      `json:"enrich"`
	Log         *Log         `json:"log"`
	Concurrency *Concurrency `json:"concurrency"`
}

type LLM struct {
	Provider string `json:"provider"`
	BaseUrl  string `json:"base_url"`
	ApiKey   string `json:"api_key"`
	Model    string `json:"model"`
	Timeout  int32  `json:"timeout"`
}

type Search struct {
	Provider    string       `json:"provider"`
	Producthunt *ProductHunt `json:"producthunt"`
}

type ProductHunt struct {
	ApiUrl       string `json:"api_url"`
	MaxResults   int32  `json:"max_results"`
	Order        string `json:"order"`
	Timeout      int32  `json:"timeout"`
	AuthMode     string `json:"auth_mode"`
	ApiKey       string `json:"api_key"`
	ClientId     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	TokenUrl     string `json:"token_url"`
}

type Cache struct {
	TtlMs int64 `json:"ttl_ms"`
}

type Keyword struct {
	MaxKeywords int32 `json:"max_keywords"`
}

type Aggregate struct {
	Policy             string `json:"policy"`
	Concurrency        int32  `json:"concurrency"`
	AllowEmptyProducts bool   `json:"allow_empty_products"`
}

type Enrich struct {
	Enabled  bool  `json:"enabled"`
	MaxPages int32 `json:"max_pages"`
	Timeout  int32 `json:"timeout"`
	MaxChars int32 `json:"max_chars"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type Concurrency struct {
	Qps int32 `json:"qps"`
	Rpm int32 `json:"rpm"`
}
