// Package news 负责新闻获取：检索接口与网页标题抓取。
package news

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
)

// Searcher 定义通用的新闻检索接口
type Searcher interface {
	Search(ctx context.Context, req *Request) (*Response, error)
}

// Request 通用检索请求
type Request struct {
	Query      string
	Language   string
	From       time.Time // 按天比较，零值表示不限
	To         time.Time
	MaxResults int
	SortBy     string
}

// Response 通用检索响应
type Response struct {
	Headlines []model.Headline
}

// FormatHeadline 输出 "{title} - {description}"，标题为空时返回 false
func FormatHeadline(h model.Headline) (string, bool) {
	if h.Title == "" {
		return "", false
	}
	return fmt.Sprintf("%s - %s", h.Title, h.Description), true
}

// FormatHeadlines 按原顺序格式化并以换行拼接
func FormatHeadlines(headlines []model.Headline) string {
	lines := make([]string, 0, len(headlines))
	for _, h := range headlines {
		if line, ok := FormatHeadline(h); ok {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// FetchText 检索 now 之前 daysAgo 天以来的新闻并返回拼接后的文本，错误直接返回给调用方
func FetchText(ctx context.Context, s Searcher, query string, now time.Time, daysAgo int, language string, maxResults int) (string, error) {
	req := &Request{
		Query:      query,
		Language:   language,
		From:       now.AddDate(0, 0, -daysAgo),
		MaxResults: maxResults,
	}
	resp, err := s.Search(ctx, req)
	if err != nil {
		return "", err
	}
	return FormatHeadlines(resp.Headlines), nil
}
