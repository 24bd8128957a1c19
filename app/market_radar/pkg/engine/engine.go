package engine

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cloudwego/eino/components/model"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/config"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/llm"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/market"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/news"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/news/factory"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/news/scrape"
)

// Engine 串起 "获取 → 组装 → 调用模型 → 展示" 两条流水线，不保留任何状态
type Engine struct {
	cfg      *config.Config
	advisor  *llm.Advisor
	searcher news.Searcher
	sources  []news.Source
	prices   market.PriceSource
	now      func() time.Time
}

// Option 替换引擎依赖，主要用于测试
type Option func(*options)

type options struct {
	chatModel model.BaseChatModel
	searcher  news.Searcher
	sources   []news.Source
	prices    market.PriceSource
	now       func() time.Time
}

// WithChatModel 使用指定的聊天模型
func WithChatModel(cm model.BaseChatModel) Option {
	return func(o *options) { o.chatModel = cm }
}

// WithSearcher 使用指定的新闻检索
func WithSearcher(s news.Searcher) Option {
	return func(o *options) { o.searcher = s }
}

// WithSources 使用指定的抓取来源
func WithSources(sources ...news.Source) Option {
	return func(o *options) { o.sources = append([]news.Source{}, sources...) }
}

// WithPriceSource 使用指定的行情来源
func WithPriceSource(p market.PriceSource) Option {
	return func(o *options) { o.prices = p }
}

// WithClock 替换当前时间
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// NewEngine 创建引擎实例，未注入的依赖按配置创建
func NewEngine(ctx context.Context, cfg *config.Config, opts ...Option) (*Engine, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if o.chatModel == nil {
		cm, err := llm.NewChatModel(ctx, cfg.LLM)
		if err != nil {
			return nil, err
		}
		o.chatModel = cm
	}
	advisor, err := llm.NewAdvisor(ctx, o.chatModel, cfg.LLM.Model, llm.NewLimiter(cfg.Concurrency))
	if err != nil {
		return nil, err
	}

	if o.searcher == nil {
		s, err := factory.NewSearcher(cfg)
		if err != nil {
			return nil, fmt.Errorf("检索客户端初始化失败: %w", err)
		}
		o.searcher = s
	}
	if o.sources == nil {
		o.sources = scrape.NewPages(cfg.Scrape)
	}
	if o.prices == nil {
		o.prices = market.NewYahooClient(cfg.Forecast.BaseURL, http.DefaultClient)
	}
	if o.now == nil {
		o.now = time.Now
	}

	return &Engine{
		cfg:      cfg,
		advisor:  advisor,
		searcher: o.searcher,
		sources:  o.sources,
		prices:   o.prices,
		now:      o.now,
	}, nil
}

// SourceNames 返回抓取来源名
func (e *Engine) SourceNames() []string {
	names := make([]string, 0, len(e.sources))
	for _, s := range e.sources {
		names = append(names, s.Name())
	}
	return names
}

// ModelName 配置的模型名
func (e *Engine) ModelName() string {
	return e.advisor.ModelName()
}
