package market

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func raws(vals ...string) []json.RawMessage {
	out := make([]json.RawMessage, len(vals))
	for i, v := range vals {
		out[i] = json.RawMessage(v)
	}
	return out
}

func TestClean_DropsMissingAndNonNumeric(t *testing.T) {
	day := int64(86400)
	base := int64(1760000000) - int64(1760000000)%day

	ts := []int64{base, base + day, base + 2*day, base + 3*day, base + 4*day, base + 5*day}
	closes := raws(`100.5`, `null`, `"abc"`, `"101.25"`, `{}`, `102`)

	got := Clean(ts, closes)

	assert.Equal(t, 3, len(got))
	assert.Equal(t, 100.5, got[0].Close)
	assert.Equal(t, 101.25, got[1].Close)
	assert.Equal(t, 102.0, got[2].Close)
	assert.Equal(t, time.Unix(base+3*day, 0).UTC(), got[1].Date)
}

func TestClean_ShortCloseColumn(t *testing.T) {
	got := Clean([]int64{0, 86400, 172800}, raws(`1`))
	assert.Equal(t, 1, len(got))
}

func TestHistory(t *testing.T) {
	var path, rng, interval string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		rng = r.URL.Query().Get("range")
		interval = r.URL.Query().Get("interval")
		w.Write([]byte(`{"chart":{"result":[{"timestamp":[1760486400,1760572800,1760659200],
			"indicators":{"quote":[{"close":[67000.5,null,68000.25]}]}}],"error":null}}`))
	}))
	defer srv.Close()

	c := NewYahooClient(srv.URL, srv.Client())
	got, err := c.History(context.Background(), "BTC-USD", "2y", "1d")

	assert.Equal(t, nil, err)
	assert.Equal(t, "/v8/finance/chart/BTC-USD", path)
	assert.Equal(t, "2y", rng)
	assert.Equal(t, "1d", interval)
	assert.Equal(t, 2, len(got))
	assert.Equal(t, 68000.25, got[1].Close)
}

func TestHistory_ChartError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer srv.Close()

	if _, err := NewYahooClient(srv.URL, srv.Client()).History(context.Background(), "NOPE", "2y", "1d"); err == nil {
		t.Error("expected chart error")
	}
}

func TestHistory_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	}))
	defer srv.Close()

	_, err := NewYahooClient(srv.URL, srv.Client()).History(context.Background(), "BTC-USD", "2y", "1d")
	if !errors.Is(err, ErrNoData) {
		t.Errorf("error = %v, want ErrNoData", err)
	}
}
