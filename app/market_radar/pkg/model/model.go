package model

import "time"

// Headline 新闻标题，描述可为空
type Headline struct {
	Title       string
	Description string
	URL         string
	Source      string
	PublishedAt time.Time
}

// Recommendation 一次选股推荐的结果
type Recommendation struct {
	Request     RecommendRequest
	NewsContext string // 近期与历史新闻拼接后的上下文
	Picks       string // 模型原样输出
	ModelUsed   string
	CreatedAt   time.Time
}

// Briefing 抓取的标题与市场摘要
type Briefing struct {
	Headlines []string
	Summary   string
	ModelUsed string
	CreatedAt time.Time
}

// PricePoint 日线收盘价
type PricePoint struct {
	Date  time.Time
	Close float64
}

// Prediction 单日预测值及上下界
type Prediction struct {
	Date      time.Time
	Yhat      float64
	YhatLower float64
	YhatUpper float64
}

// ForecastReport 价格预测结果
type ForecastReport struct {
	Ticker       string
	Observations int
	Tail         []Prediction
}

// Last 返回预测序列最后一行
func (r *ForecastReport) Last() (Prediction, bool) {
	if r == nil || len(r.Tail) == 0 {
		return Prediction{}, false
	}
	return r.Tail[len(r.Tail)-1], true
}
