package server

import (
	"context"
	"errors"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/market_radar/app/display/internal/conf"
	"github.com/iWorld-y/market_radar/app/display/internal/service"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/config"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/engine"
	mrLogger "github.com/iWorld-y/market_radar/app/market_radar/pkg/logger"
)

// RadarConfig 将 conf.Radar 转换为 pkg/config.Config，未配置的字段走默认值与环境变量
func RadarConfig(c *conf.Radar) (*config.Config, error) {
	cfg := &config.Config{}
	if c != nil {
		if c.Llm != nil {
			cfg.LLM = config.LLMConfig{
				BaseURL: c.Llm.BaseUrl,
				APIKey:  c.Llm.ApiKey,
				Model:   c.Llm.Model,
				Timeout: int(c.Llm.Timeout),
			}
		}
		if s := c.Search; s != nil {
			cfg.Search.Provider = s.Provider
			if s.Newsapi != nil {
				cfg.Search.NewsAPI = config.NewsAPIConfig{
					BaseURL:  s.Newsapi.BaseUrl,
					APIKey:   s.Newsapi.ApiKey,
					Language: s.Newsapi.Language,
					PageSize: int(s.Newsapi.PageSize),
				}
			}
			if s.Tavily != nil {
				cfg.Search.Tavily.APIKey = s.Tavily.ApiKey
			}
			if s.Searxng != nil {
				cfg.Search.SearXNG = config.SearXNGConfig{
					BaseURL: s.Searxng.BaseUrl,
					Timeout: int(s.Searxng.Timeout),
				}
			}
		}
		if c.Log != nil {
			cfg.Log = config.LogConfig{Level: c.Log.Level, File: c.Log.File}
		}
		if c.Concurrency != nil {
			cfg.Concurrency = config.ConcurrencyConfig{
				QPS: int(c.Concurrency.Qps),
				RPM: int(c.Concurrency.Rpm),
			}
		}
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewRadarEngine 初始化选股引擎
func NewRadarEngine(c *conf.Radar, logger log.Logger) (*engine.Engine, func(), error) {
	helper := log.NewHelper(logger)

	cfg, err := RadarConfig(c)
	if err != nil {
		helper.Errorf("Invalid radar config: %v", err)
		return nil, nil, err
	}

	// 初始化日志
	if err := mrLogger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		helper.Errorf("Failed to init market_radar logger: %v", err)
		_ = mrLogger.InitLogger("info", "") // 降级处理
	}

	if cfg.Search.Provider == "newsapi" && cfg.Search.NewsAPI.APIKey == "" {
		helper.Warn("NEWS_API_KEY is empty, news requests will be rejected by newsapi.org")
	}

	eng, err := engine.NewEngine(context.Background(), cfg)
	if err != nil {
		helper.Errorf("Failed to init engine: %v", err)
		return nil, nil, err
	}

	cleanup := func() {
		helper.Info("Cleaning up market_radar engine")
	}
	return eng, cleanup, nil
}

// NewModelName 页面上展示的模型名
func NewModelName(eng *engine.Engine) (service.ModelName, error) {
	if eng == nil {
		return "", errors.New("engine is not initialized")
	}
	return service.ModelName(eng.ModelName()), nil
}
