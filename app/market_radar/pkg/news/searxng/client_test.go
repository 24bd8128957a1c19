package searxng

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/news"
)

func TestTimeRange(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		from time.Time
		want string
	}{
		{time.Time{}, ""},
		{now.AddDate(0, 0, -1), "day"},
		{now.AddDate(0, 0, -30), "month"},
		{now.AddDate(0, 0, -400), "year"},
	}
	for _, tt := range tests {
		if got := timeRange(tt.from, now); got != tt.want {
			t.Errorf("timeRange(%v) = %q, want %q", tt.from, got, tt.want)
		}
	}
}

func TestSearchLimitsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("categories") != "news" || r.URL.Query().Get("format") != "json" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"results":[{"title":"a","content":"x","engine":"bing news"},{"title":"b"},{"title":"c"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5)
	resp, err := c.Search(context.Background(), &news.Request{Query: "us stock market", MaxResults: 2})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(resp.Headlines) != 2 {
		t.Fatalf("got %d headlines, want 2", len(resp.Headlines))
	}
	if resp.Headlines[0].Source != "bing news" || resp.Headlines[0].Description != "x" {
		t.Errorf("first headline = %+v", resp.Headlines[0])
	}
}
