package engine

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/config"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/forecast"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/llm/llmtest"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/news"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/news/newsapi"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	return cfg
}

func TestRecommend_EndToEnd(t *testing.T) {
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query().Get("q")+"|"+r.URL.Query().Get("from"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "ok",
			"articles": []map[string]interface{}{
				{"title": "Nifty hits record", "description": "Midcaps outperform."},
				{"title": "RBI keeps repo rate", "description": nil},
			},
		})
	}))
	defer srv.Close()

	const reply = "1. **ACME Ltd** - order book up 40%\n2. ..."
	cm := &llmtest.ChatModel{Reply: reply}
	cfg := testConfig(t)
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	e, err := NewEngine(context.Background(), cfg,
		WithChatModel(cm),
		WithSearcher(newsapi.NewClient("key", newsapi.WithBaseURL(srv.URL), newsapi.WithHTTPClient(srv.Client()))),
		WithSources(),
		WithClock(func() time.Time { return now }),
	)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	rec, err := e.Recommend(context.Background(), model.RecommendRequest{Segment: model.SegmentIndia, RecentDays: 1, PastDays: 30})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if rec.Picks != reply {
		t.Errorf("Picks = %q, want verbatim model reply", rec.Picks)
	}
	block := "Nifty hits record - Midcaps outperform.\nRBI keeps repo rate - "
	if want := CombineNews(block, block); rec.NewsContext != want {
		t.Errorf("NewsContext = %q, want %q", rec.NewsContext, want)
	}
	if len(queries) != 2 || !strings.HasPrefix(queries[0], "indian stock market|") {
		t.Errorf("queries = %v", queries)
	}
	want := []string{"indian stock market|2026-10-15", "indian stock market|2026-09-16"}
	if len(queries) == 2 && (queries[0] != want[0] || queries[1] != want[1]) {
		t.Errorf("query windows = %v, want %v", queries, want)
	}
	if !strings.Contains(cm.LastPrompt(), rec.NewsContext) {
		t.Error("model prompt does not contain the combined news")
	}
	if rec.ModelUsed != "mixtral" || !rec.CreatedAt.Equal(now) {
		t.Errorf("metadata = %q %v", rec.ModelUsed, rec.CreatedAt)
	}
}

type failingSearcher struct{}

func (failingSearcher) Search(context.Context, *news.Request) (*news.Response, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func TestRecommend_SearchErrorPropagates(t *testing.T) {
	cm := &llmtest.ChatModel{Reply: "unused"}
	e, err := NewEngine(context.Background(), testConfig(t), WithChatModel(cm), WithSearcher(failingSearcher{}), WithSources())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Recommend(context.Background(), model.NewRecommendRequest()); err == nil {
		t.Error("expected search error")
	}
	if cm.Calls() != 0 {
		t.Error("model should not be called when news fetch fails")
	}
}

func TestRecommend_InvalidRequest(t *testing.T) {
	e, err := NewEngine(context.Background(), testConfig(t), WithChatModel(&llmtest.ChatModel{}), WithSearcher(failingSearcher{}), WithSources())
	if err != nil {
		t.Fatal(err)
	}
	_, err = e.Recommend(context.Background(), model.RecommendRequest{Segment: model.SegmentAll, RecentDays: 91, PastDays: 30})
	if !errors.Is(err, model.ErrInvalidRequest) {
		t.Errorf("error = %v, want ErrInvalidRequest", err)
	}
}

type emptySource struct{ name string }

func (s emptySource) Name() string { return s.name }

func (s emptySource) Fetch(context.Context) ([]string, error) { return []string{}, nil }

func TestBrief_EmptyScrape(t *testing.T) {
	cm := &llmtest.ChatModel{Reply: "Nothing to report."}
	e, err := NewEngine(context.Background(), testConfig(t),
		WithChatModel(cm),
		WithSearcher(failingSearcher{}),
		WithSources(emptySource{"ET"}, emptySource{"WSJ"}),
	)
	if err != nil {
		t.Fatal(err)
	}

	b, err := e.Brief(context.Background())
	if err != nil {
		t.Fatalf("Brief() error = %v", err)
	}
	if cm.Calls() != 1 {
		t.Errorf("summarization called %d times, want 1", cm.Calls())
	}
	if len(b.Headlines) != 0 || b.Summary != "Nothing to report." {
		t.Errorf("Briefing = %+v", b)
	}
	if got := e.SourceNames(); len(got) != 2 || got[0] != "ET" {
		t.Errorf("SourceNames() = %v", got)
	}
}

type stubPrices struct {
	points []model.PricePoint
	err    error
}

func (s stubPrices) History(context.Context, string, string, string) ([]model.PricePoint, error) {
	return s.points, s.err
}

func TestForecast(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	points := make([]model.PricePoint, 60)
	for i := range points {
		points[i] = model.PricePoint{Date: start.AddDate(0, 0, i), Close: 60000 + 100*float64(i)}
	}

	e, err := NewEngine(context.Background(), testConfig(t),
		WithChatModel(&llmtest.ChatModel{}),
		WithSearcher(failingSearcher{}),
		WithSources(),
		WithPriceSource(stubPrices{points: points}),
	)
	if err != nil {
		t.Fatal(err)
	}

	report, err := e.Forecast(context.Background())
	if err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}
	if report.Ticker != "BTC-USD" || report.Observations != 60 || len(report.Tail) != 5 {
		t.Fatalf("report = %+v", report)
	}
	last, _ := report.Last()
	if want := start.AddDate(0, 0, 59+30); !last.Date.Equal(want) {
		t.Errorf("last date = %v, want %v", last.Date, want)
	}
}

func TestForecast_EmptyData(t *testing.T) {
	e, err := NewEngine(context.Background(), testConfig(t),
		WithChatModel(&llmtest.ChatModel{}),
		WithSearcher(failingSearcher{}),
		WithSources(),
		WithPriceSource(stubPrices{}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Forecast(context.Background()); !errors.Is(err, forecast.ErrNotEnoughData) {
		t.Errorf("error = %v, want ErrNotEnoughData", err)
	}
}
