package engine

import (
	"context"
	"fmt"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/logger"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/news"
)

// CombineNews 拼接近期与历史新闻，两段之间不去重
func CombineNews(recent, past string) string {
	return fmt.Sprintf("### Recent News:\n%s\n\n### Historical News:\n%s", recent, past)
}

// Recommend 依次检索近期、历史新闻，再交给模型给出选股，检索或模型错误直接返回
func (e *Engine) Recommend(ctx context.Context, req model.RecommendRequest) (*model.Recommendation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	search := e.cfg.Search.NewsAPI
	query := req.Query()
	now := e.now()

	logger.Log.Infof("检索近期新闻: %s (%d 天)", query, req.RecentDays)
	recent, err := news.FetchText(ctx, e.searcher, query, now, req.RecentDays, search.Language, search.PageSize)
	if err != nil {
		return nil, fmt.Errorf("fetch recent news: %w", err)
	}

	logger.Log.Infof("检索历史新闻: %s (%d 天)", query, req.PastDays)
	past, err := news.FetchText(ctx, e.searcher, query, now, req.PastDays, search.Language, search.PageSize)
	if err != nil {
		return nil, fmt.Errorf("fetch historical news: %w", err)
	}

	full := CombineNews(recent, past)

	picks, err := e.advisor.RecommendStocks(ctx, full)
	if err != nil {
		return nil, fmt.Errorf("recommend stocks: %w", err)
	}

	return &model.Recommendation{
		Request:     req,
		NewsContext: full,
		Picks:       picks,
		ModelUsed:   e.advisor.ModelName(),
		CreatedAt:   now,
	}, nil
}
