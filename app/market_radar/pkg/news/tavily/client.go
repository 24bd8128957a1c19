package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/news"
)

const defaultEndpoint = "https://api.tavily.com/search"

// Client Tavily API 客户端
type Client struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewClient 创建一个新的 Tavily 客户端
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:   apiKey,
		endpoint: defaultEndpoint,
		client:   http.DefaultClient,
	}
}

// Ensure Client implements news.Searcher
var _ news.Searcher = (*Client)(nil)

// searchRequest Tavily 搜索请求参数
type searchRequest struct {
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth,omitempty"` // basic or advanced
	Topic       string `json:"topic,omitempty"`        // general or news
	MaxResults  int    `json:"max_results,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
}

type searchResponse struct {
	Query   string         `json:"query"`
	Results []searchResult `json:"results"`
}

type searchResult struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	Content       string  `json:"content"`
	Score         float64 `json:"score"`
	PublishedDate string  `json:"published_date"`
}

// Search 以 news 话题检索，Content 作为新闻描述
func (c *Client) Search(ctx context.Context, req *news.Request) (*news.Response, error) {
	tr := searchRequest{
		Query:       req.Query,
		SearchDepth: "basic",
		Topic:       "news",
		MaxResults:  req.MaxResults,
	}
	if tr.MaxResults == 0 {
		tr.MaxResults = 5
	}
	if !req.From.IsZero() {
		tr.StartDate = req.From.Format(time.DateOnly)
	}
	if !req.To.IsZero() {
		tr.EndDate = req.To.Format(time.DateOnly)
	}

	payload, err := json.Marshal(tr)
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Add("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Add("Content-Type", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily api error (status %d): %s", res.StatusCode, string(body))
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("unmarshal response failed: %w", err)
	}

	headlines := make([]model.Headline, 0, len(sr.Results))
	for _, r := range sr.Results {
		h := model.Headline{
			Title:       r.Title,
			Description: r.Content,
			URL:         r.URL,
			Source:      "tavily",
		}
		if t, err := time.Parse(time.RFC1123, r.PublishedDate); err == nil {
			h.PublishedAt = t
		}
		headlines = append(headlines, h)
	}
	return &news.Response{Headlines: headlines}, nil
}
