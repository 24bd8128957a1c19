package scrape

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/config"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/news"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Page 单个新闻列表页，按选择器取前 Limit 个元素的文本
type Page struct {
	name     string
	url      string
	selector string
	limit    int
	client   *http.Client
}

// Ensure Page implements news.Source
var _ news.Source = (*Page)(nil)

// NewPage 创建列表页抓取器，client 为空时使用 http.DefaultClient
func NewPage(name, url, selector string, limit int, client *http.Client) *Page {
	if selector == "" {
		selector = "h3"
	}
	if limit <= 0 {
		limit = 5
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Page{name: name, url: url, selector: selector, limit: limit, client: client}
}

// NewPages 按配置创建全部来源
func NewPages(cfg config.ScrapeConfig) []news.Source {
	client := http.DefaultClient
	if cfg.Timeout > 0 {
		client = &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second}
	}
	sources := make([]news.Source, 0, len(cfg.Sources))
	for _, s := range cfg.Sources {
		sources = append(sources, NewPage(s.Name, s.URL, s.Selector, s.Limit, client))
	}
	return sources
}

// Name 来源名，同时作为标题前缀
func (p *Page) Name() string {
	return p.name
}

// Fetch 抓取页面并返回 "<Name>: <text>" 形式的标题
func (p *Page) Fetch(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status code error: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	headlines := []string{}
	doc.Find(p.selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= p.limit {
			return false
		}
		headlines = append(headlines, p.name+": "+strings.TrimSpace(s.Text()))
		return true
	})
	return headlines, nil
}
