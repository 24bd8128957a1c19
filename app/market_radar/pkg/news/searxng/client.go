package searxng

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/news"
)

// Client SearXNG API 客户端
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient 创建一个新的 SearXNG 客户端，timeout 单位为秒
func NewClient(baseURL string, timeout int) *Client {
	t := time.Duration(timeout) * time.Second
	if t == 0 {
		t = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: t},
	}
}

// Ensure Client implements news.Searcher
var _ news.Searcher = (*Client)(nil)

type searchResponse struct {
	Query   string         `json:"query"`
	Results []searchResult `json:"results"`
}

type searchResult struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Content       string `json:"content"`
	PublishedDate string `json:"publishedDate"`
	Engine        string `json:"engine"`
}

// timeRange 把起始日期映射到 SearXNG 的 time_range 档位
func timeRange(from time.Time, now time.Time) string {
	if from.IsZero() {
		return ""
	}
	days := now.Sub(from).Hours() / 24
	switch {
	case days <= 1:
		return "day"
	case days <= 31:
		return "month"
	default:
		return "year"
	}
}

// Search 执行新闻检索
func (c *Client) Search(ctx context.Context, req *news.Request) (*news.Response, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = "/search"

	q := u.Query()
	q.Set("q", req.Query)
	q.Set("format", "json")
	q.Set("categories", "news")
	if req.Language != "" {
		q.Set("language", req.Language)
	}
	if tr := timeRange(req.From, time.Now()); tr != "" {
		q.Set("time_range", tr)
	}
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("searxng api error (status %d): %s", res.StatusCode, string(body))
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode response failed: %w", err)
	}

	headlines := make([]model.Headline, 0, len(sr.Results))
	for _, r := range sr.Results {
		if req.MaxResults > 0 && len(headlines) >= req.MaxResults {
			break
		}
		h := model.Headline{
			Title:       r.Title,
			Description: r.Content,
			URL:         r.URL,
			Source:      r.Engine,
		}
		if t, err := time.Parse(time.RFC3339, r.PublishedDate); err == nil {
			h.PublishedAt = t
		}
		headlines = append(headlines, h)
	}
	return &news.Response{Headlines: headlines}, nil
}
