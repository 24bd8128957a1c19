package domain

// Recommendation 归档的选股推荐
type Recommendation struct {
	Segment     string `json:"segment"`
	RecentDays  int    `json:"recent_days"`
	PastDays    int    `json:"past_days"`
	NewsContext string `json:"news_context"`
	Picks       string `json:"picks"`
	ModelUsed   string `json:"model"`
	CreatedAt   string `json:"created_at"`
}
