package factory

import (
	"fmt"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/config"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/news"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/news/newsapi"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/news/searxng"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/news/tavily"
)

// NewSearcher 根据配置创建检索实例，默认使用 newsapi
func NewSearcher(cfg *config.Config) (news.Searcher, error) {
	provider := cfg.Search.Provider
	if provider == "" {
		provider = "newsapi"
	}

	switch provider {
	case "newsapi":
		c := cfg.Search.NewsAPI
		return newsapi.NewClient(c.APIKey,
			newsapi.WithBaseURL(c.BaseURL),
			newsapi.WithLanguage(c.Language),
			newsapi.WithSortBy(c.SortBy),
		), nil

	case "tavily":
		if cfg.Search.Tavily.APIKey == "" {
			return nil, fmt.Errorf("tavily api key is missing")
		}
		return tavily.NewClient(cfg.Search.Tavily.APIKey), nil

	case "searxng":
		baseURL := cfg.Search.SearXNG.BaseURL
		if baseURL == "" {
			return nil, fmt.Errorf("searxng base url is missing")
		}
		return searxng.NewClient(baseURL, cfg.Search.SearXNG.Timeout), nil

	default:
		return nil, fmt.Errorf("unknown search provider: %s", provider)
	}
}
