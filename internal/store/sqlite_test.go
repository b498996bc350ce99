package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"price-forecast/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "prices.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndLoadBars(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	bars := []model.Bar{
		{Date: day(2024, 1, 2), Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 100},
		{Date: day(2024, 1, 1), Open: 1, High: 2, Low: 0.5, Close: 1.2, Volume: 90},
		{Date: day(2024, 1, 3), Open: 1, High: 2, Low: 0.5, Close: 1.8, Volume: 110},
	}
	if err := s.SaveBars(ctx, "TCS.NS", bars); err != nil {
		t.Fatalf("save: %v", err)
	}
	// 覆盖同一天
	if err := s.SaveBars(ctx, "TCS.NS", []model.Bar{{Date: day(2024, 1, 3), Close: 2.0}}); err != nil {
		t.Fatalf("save overwrite: %v", err)
	}
	if err := s.SaveBars(ctx, "INFY.NS", bars[:1]); err != nil {
		t.Fatalf("save other symbol: %v", err)
	}

	got, err := s.LoadBars(ctx, "TCS.NS", day(2024, 1, 2))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 bars since Jan 2, got %d", len(got))
	}
	if !got[0].Date.Equal(day(2024, 1, 2)) || got[0].Volume != 100 {
		t.Fatalf("unexpected first bar %+v", got[0])
	}
	if got[1].Close != 2.0 {
		t.Fatalf("expected overwritten close 2.0, got %v", got[1].Close)
	}

	last, ok, err := s.LastDate(ctx, "TCS.NS")
	if err != nil || !ok || !last.Equal(day(2024, 1, 3)) {
		t.Fatalf("unexpected last date %v ok=%v err=%v", last, ok, err)
	}

	sums, err := s.Summaries(ctx)
	if err != nil {
		t.Fatalf("summaries: %v", err)
	}
	if len(sums) != 2 || sums[1].Symbol != "TCS.NS" || sums[1].Bars != 3 {
		t.Fatalf("unexpected summaries %+v", sums)
	}
	if !sums[1].First.Equal(day(2024, 1, 1)) || !sums[1].Last.Equal(day(2024, 1, 3)) {
		t.Fatalf("unexpected range %+v", sums[1])
	}
}

func TestLoadBarsUnknownSymbol(t *testing.T) {
	s := openTestStore(t)
	got, err := s.LoadBars(context.Background(), "NOPE.NS", time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no bars, got %d", len(got))
	}
	if _, ok, err := s.LastDate(context.Background(), "NOPE.NS"); err != nil || ok {
		t.Fatalf("expected no last date, ok=%v err=%v", ok, err)
	}
}

func TestResolvePath(t *testing.T) {
	dir := t.TempDir()
	if got := ResolvePath(dir); got != filepath.Join(dir, DefaultDBFileName) {
		t.Fatalf("expected default file name in dir, got %s", got)
	}
	if got := ResolvePath(" data/x.db "); got != "data/x.db" {
		t.Fatalf("unexpected path %s", got)
	}
}
