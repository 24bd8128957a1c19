package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/logger"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/news"
)

const defaultBaseURL = "https://newsapi.org"

// Client newsapi.org 客户端，只调用 /v2/everything
type Client struct {
	baseURL  string
	apiKey   string
	language string
	sortBy   string
	client   *http.Client
}

// Option 配置 Client
type Option func(*Client)

// WithBaseURL 替换接口地址
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithHTTPClient 替换底层 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithLanguage 默认语言
func WithLanguage(lang string) Option {
	return func(c *Client) { c.language = lang }
}

// WithSortBy 默认排序方式
func WithSortBy(sortBy string) Option {
	return func(c *Client) { c.sortBy = sortBy }
}

// NewClient 创建一个新的 NewsAPI 客户端
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:  defaultBaseURL,
		apiKey:   apiKey,
		language: "en",
		sortBy:   "relevancy",
		client:   http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ensure Client implements news.Searcher
var _ news.Searcher = (*Client)(nil)

type everythingResponse struct {
	Status   string    `json:"status"`
	Code     string    `json:"code"`
	Message  string    `json:"message"`
	Articles []article `json:"articles"`
}

type article struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

// Search 执行检索。接口返回 status=error 时记录告警并返回空结果
func (c *Client) Search(ctx context.Context, req *news.Request) (*news.Response, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = "/v2/everything"

	language := req.Language
	if language == "" {
		language = c.language
	}
	sortBy := req.SortBy
	if sortBy == "" {
		sortBy = c.sortBy
	}

	q := u.Query()
	q.Set("q", req.Query)
	if !req.From.IsZero() {
		q.Set("from", req.From.Format(time.DateOnly))
	}
	if !req.To.IsZero() {
		q.Set("to", req.To.Format(time.DateOnly))
	}
	q.Set("language", language)
	q.Set("sortBy", sortBy)
	if req.MaxResults > 0 {
		q.Set("pageSize", strconv.Itoa(req.MaxResults))
	}
	q.Set("apiKey", c.apiKey)
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("newsapi request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}

	var raw everythingResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("newsapi decode (status %d): %w", res.StatusCode, err)
	}

	if raw.Status == "error" {
		logger.Log.Warnf("NewsAPI 返回错误 [%s]: %s", raw.Code, raw.Message)
		return &news.Response{}, nil
	}

	headlines := make([]model.Headline, 0, len(raw.Articles))
	for _, a := range raw.Articles {
		publishedAt, err := time.Parse(time.RFC3339, a.PublishedAt)
		if err != nil {
			publishedAt = time.Time{}
		}
		headlines = append(headlines, model.Headline{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Source:      a.Source.Name,
			PublishedAt: publishedAt,
		})
	}

	return &news.Response{Headlines: headlines}, nil
}
