package engine

import (
	"context"
	"fmt"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/forecast"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/logger"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/news"
)

// Brief 抓取各来源标题（失败的来源跳过）并让模型总结，标题为空时仍然调用模型
func (e *Engine) Brief(ctx context.Context) (*model.Briefing, error) {
	headlines := news.Collect(ctx, e.sources...)
	logger.Log.Infof("共抓取 %d 条标题", len(headlines))

	summary, err := e.advisor.SummarizeHeadlines(ctx, headlines)
	if err != nil {
		return nil, fmt.Errorf("summarize headlines: %w", err)
	}

	return &model.Briefing{
		Headlines: headlines,
		Summary:   summary,
		ModelUsed: e.advisor.ModelName(),
		CreatedAt: e.now(),
	}, nil
}

// Forecast 下载历史收盘价，拟合加性模型并返回预测尾部
func (e *Engine) Forecast(ctx context.Context) (*model.ForecastReport, error) {
	fc := e.cfg.Forecast

	points, err := e.prices.History(ctx, fc.Ticker, fc.Range, fc.Interval)
	if err != nil {
		return nil, fmt.Errorf("download %s history: %w", fc.Ticker, err)
	}
	logger.Log.Infof("%s 有效日线 %d 条", fc.Ticker, len(points))

	opts := forecast.DefaultOptions()
	opts.IntervalWidth = fc.IntervalWidth
	m := forecast.NewModel(opts)
	if err := m.Fit(points); err != nil {
		return nil, fmt.Errorf("fit %s: %w", fc.Ticker, err)
	}

	preds := m.Predict(m.MakeFutureDates(fc.Periods))
	return &model.ForecastReport{
		Ticker:       fc.Ticker,
		Observations: len(points),
		Tail:         forecast.Tail(preds, fc.Tail),
	}, nil
}
