package server

import (
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/product_radar/app/display/internal/conf"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/cache"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/config"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/engine"
	prLogger "github.com/iWorld-y/product_radar/app/product_radar/pkg/logger"
)

// NewRadarEngine 初始化 product_radar 引擎，搜索缓存在进程内共享
func NewRadarEngine(c *conf.Radar, logger log.Logger) (*engine.Engine, func(), error) {
	helper := log.NewHelper(logger)

	prCfg := RadarConfig(c)

	// 初始化日志
	if err := prLogger.InitLogger(prCfg.Log.Level, prCfg.Log.File); err != nil {
		helper.Errorf("Failed to init product_radar logger: %v", err)
		_ = prLogger.InitLogger("info", "") // 降级处理
	}

	if err := prCfg.Validate(); err != nil {
		helper.Errorf("Invalid radar config: %v", err)
		return nil, nil, err
	}

	eng, err := engine.NewEngine(prCfg, cache.NewMemory(prCfg.CacheTTL()))
	if err != nil {
		helper.Errorf("Failed to init engine: %v", err)
		return nil, nil, err
	}

	cleanup := func() {
		helper.Info("Cleaning up product_radar engine")
	}
	return eng, cleanup, nil
}

// RadarConfig 将 conf.Radar 转换为 pkg/config.Config，零值字段保留默认值，密钥可由环境变量覆盖
func RadarConfig(c *conf.Radar) *config.Config {
	cfg := config.Default()
	if c == nil {
		cfg.ApplyEnv()
		return cfg
	}

	if l := c.Llm; l != nil {
		setString(&cfg.LLM.Provider, l.Provider)
		setString(&cfg.LLM.BaseURL, l.BaseUrl)
		setString(&cfg.LLM.APIKey, l.ApiKey)
		setString(&cfg.LLM.Model, l.Model)
		setInt(&cfg.LLM.Timeout, l.Timeout)
	}
	if s := c.Search; s != nil {
		setString(&cfg.Search.Provider, s.Provider)
		if ph := s.Producthunt; ph != nil {
			dst := &cfg.Search.ProductHunt
			setString(&dst.APIURL, ph.ApiUrl)
			setInt(&dst.MaxResults, ph.MaxResults)
			setString(&dst.Order, ph.Order)
			setInt(&dst.Timeout, ph.Timeout)
			setString(&dst.Auth.Mode, ph.AuthMode)
			setString(&dst.Auth.APIKey, ph.ApiKey)
			setString(&dst.Auth.ClientID, ph.ClientId)
			setString(&dst.Auth.ClientSecret, ph.ClientSecret)
			setString(&dst.Auth.TokenURL, ph.TokenUrl)
		}
	}
	if c.Cache != nil && c.Cache.TtlMs > 0 {
		cfg.Cache.TTLMillis = c.Cache.TtlMs
	}
	if c.Keyword != nil {
		setInt(&cfg.Keyword.MaxKeywords, c.Keyword.MaxKeywords)
	}
	if a := c.Aggregate; a != nil {
		setString(&cfg.Aggregate.Policy, a.Policy)
		setInt(&cfg.Aggregate.Concurrency, a.Concurrency)
		cfg.Aggregate.AllowEmptyProducts = a.AllowEmptyProducts
	}
	if e := c.Enrich; e != nil {
		cfg.Report.Enrich.Enabled = e.Enabled
		setInt(&cfg.Report.Enrich.MaxPages, e.MaxPages)
		setInt(&cfg.Report.Enrich.Timeout, e.Timeout)
		setInt(&cfg.Report.Enrich.MaxChars, e.MaxChars)
	}
	if l := c.Log; l != nil {
		setString(&cfg.Log.Level, l.Level)
		setString(&cfg.Log.File, l.File)
	}
	if cc := c.Concurrency; cc != nil {
		setInt(&cfg.Concurrency.QPS, cc.Qps)
		setInt(&cfg.Concurrency.RPM, cc.Rpm)
	}

	cfg.ApplyEnv()
	return cfg
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int32) {
	if v > 0 {
		*dst = int(v)
	}
}
