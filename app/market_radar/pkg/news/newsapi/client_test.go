package newsapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/news"
)

func TestSearch(t *testing.T) {
	payload := map[string]interface{}{
		"status":       "ok",
		"totalResults": 3,
		"articles": []map[string]interface{}{
			{
				"source":      map[string]interface{}{"id": nil, "name": "Mint"},
				"title":       "Sensex jumps 500 points",
				"description": "Banking stocks led the rally.",
				"url":         "https://example.com/sensex",
				"publishedAt": "2026-10-15T09:30:00Z",
			},
			{
				"source":      map[string]interface{}{"name": "Reuters"},
				"title":       nil,
				"description": "Untitled item",
			},
			{
				"source":      map[string]interface{}{"name": "CNBC"},
				"title":       "Rupee steady",
				"description": nil,
			},
		},
	}

	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	from := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	resp, err := client.Search(context.Background(), &news.Request{
		Query:      "indian stock market",
		From:       from,
		MaxResults: 5,
	})

	assert.Equal(t, nil, err)
	assert.Equal(t, "/v2/everything", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, "indian stock market", q.Get("q"))
	assert.Equal(t, "2026-10-01", q.Get("from"))
	assert.Equal(t, "en", q.Get("language"))
	assert.Equal(t, "relevancy", q.Get("sortBy"))
	assert.Equal(t, "5", q.Get("pageSize"))
	assert.Equal(t, "test-key", q.Get("apiKey"))

	assert.Equal(t, 3, len(resp.Headlines))
	assert.Equal(t, "Sensex jumps 500 points", resp.Headlines[0].Title)
	assert.Equal(t, "Mint", resp.Headlines[0].Source)
	assert.Equal(t, 2026, resp.Headlines[0].PublishedAt.Year())

	assert.Equal(t, "Sensex jumps 500 points - Banking stocks led the rally.\nRupee steady - ", news.FormatHeadlines(resp.Headlines))
}

func TestSearchAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid."}`))
	}))
	defer srv.Close()

	client := NewClient("bad-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	resp, err := client.Search(context.Background(), &news.Request{Query: "bitcoin"})

	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(resp.Headlines))
}

func TestSearchTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient("key", WithBaseURL(srv.URL))
	if _, err := client.Search(context.Background(), &news.Request{Query: "bitcoin"}); err == nil {
		t.Error("expected error from closed server")
	}
}

func TestSearchMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway timeout</html>"))
	}))
	defer srv.Close()

	client := NewClient("key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	if _, err := client.Search(context.Background(), &news.Request{Query: "bitcoin"}); err == nil {
		t.Error("expected decode error")
	}
}
