package stockdata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const chartJSON = `{"chart":{"result":[{
  "meta":{"symbol":"TCS.NS","gmtoffset":19800},
  "timestamp":[1704253500,1704080700,1704167100,1704253500],
  "indicators":{"quote":[{
    "open":[12.5,10.0,null,12.0],
    "high":[13.5,11.0,12.0,13.0],
    "low":[11.5,9.5,10.5,11.0],
    "close":[13.0,10.5,11.5,12.5],
    "volume":[1200,1000,1100,1300]
  }]}
}],"error":null}}`

func TestYahooFetcherFetchDailyBars(t *testing.T) {
	var gotPath, gotInterval string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotInterval = r.URL.Query().Get("interval")
		w.Write([]byte(chartJSON))
	}))
	defer srv.Close()

	f := NewYahooFetcher(srv.URL+"/", "", time.Second)
	start := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
	bars, err := f.FetchDailyBars(context.Background(), "TCS.NS", start, start.AddDate(0, 2, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/v8/finance/chart/TCS.NS" || gotInterval != "1d" {
		t.Fatalf("unexpected request path=%s interval=%s", gotPath, gotInterval)
	}

	// null 行被丢弃，重复日期保留最后一条
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d: %+v", len(bars), bars)
	}
	if want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC); !bars[0].Date.Equal(want) {
		t.Errorf("expected first date %s, got %s", want, bars[0].Date)
	}
	if bars[0].Close != 10.5 {
		t.Errorf("expected first close 10.5, got %v", bars[0].Close)
	}
	if bars[1].Close != 12.5 || bars[1].Volume != 1300 {
		t.Errorf("expected duplicate day to keep last row, got %+v", bars[1])
	}
}

func TestYahooFetcherNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher(srv.URL, "", time.Second)
	_, err := f.FetchDailyBars(context.Background(), "NOPE.NS", time.Now().AddDate(-1, 0, 0), time.Now())
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestYahooFetcherServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	f := NewYahooFetcher(srv.URL, "", time.Second)
	_, err := f.FetchDailyBars(context.Background(), "TCS.NS", time.Now().AddDate(-1, 0, 0), time.Now())
	if err == nil || errors.Is(err, ErrNoData) {
		t.Fatalf("expected plain error, got %v", err)
	}
	if !strings.Contains(err.Error(), "502") {
		t.Fatalf("expected status in error, got %v", err)
	}
}

func TestYahooFetcherEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[{"meta":{},"timestamp":[],"indicators":{"quote":[{}]}}],"error":null}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher(srv.URL, "", time.Second)
	_, err := f.FetchDailyBars(context.Background(), "TCS.NS", time.Now().AddDate(-1, 0, 0), time.Now())
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}
