// Package market 下载日线行情并清洗收盘价。
package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// ErrNoData 行情接口没有返回任何数据
var ErrNoData = errors.New("no price data returned")

// PriceSource 行情数据来源
type PriceSource interface {
	History(ctx context.Context, ticker, rng, interval string) ([]model.PricePoint, error)
}

// YahooClient Yahoo Finance chart 接口客户端
type YahooClient struct {
	baseURL string
	client  *http.Client
}

// NewYahooClient baseURL 为空时使用官方地址
func NewYahooClient(baseURL string, client *http.Client) *YahooClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &YahooClient{baseURL: baseURL, client: client}
}

var _ PriceSource = (*YahooClient)(nil)

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			// 收盘价可能为 null 或非数值，逐个解析
			Close []json.RawMessage `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

// History 下载 rng 区间、interval 粒度的收盘价，并丢弃缺失或非数值行
func (c *YahooClient) History(ctx context.Context, ticker, rng, interval string) ([]model.PricePoint, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = "/v8/finance/chart/" + url.PathEscape(ticker)
	q := u.Query()
	q.Set("range", rng)
	q.Set("interval", interval)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo api error (status %d): %s", res.StatusCode, string(body))
	}

	var cr chartResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if cr.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart error %s: %s", cr.Chart.Error.Code, cr.Chart.Error.Description)
	}
	if len(cr.Chart.Result) == 0 || len(cr.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%s: %w", ticker, ErrNoData)
	}

	r := cr.Chart.Result[0]
	return Clean(r.Timestamp, r.Indicators.Quote[0].Close), nil
}

// Clean 把时间戳与原始收盘价对齐成 (日期, 收盘价) 表，
// 缺失、null、无法解析或非有限值的行被丢弃，结果按日期升序
func Clean(timestamps []int64, closes []json.RawMessage) []model.PricePoint {
	points := make([]model.PricePoint, 0, len(timestamps))
	for i, ts := range timestamps {
		if i >= len(closes) {
			break
		}
		v, ok := parseClose(closes[i])
		if !ok {
			continue
		}
		points = append(points, model.PricePoint{
			Date:  time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Close: v,
		})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points
}

func parseClose(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}

	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		// 字符串形式的数值也接受
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		v, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
