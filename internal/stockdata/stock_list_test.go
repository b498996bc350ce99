package stockdata

import (
	"testing"

	"price-forecast/internal/model"
)

func TestStockListDefaults(t *testing.T) {
	l := NewStockList(nil)
	if len(l.All()) != len(defaultStocks) {
		t.Fatalf("expected %d stocks, got %d", len(defaultStocks), len(l.All()))
	}
	if s, ok := l.LookupStock(" reliance.ns "); !ok || s.Name != "Reliance Industries" {
		t.Fatalf("lookup failed: %+v %v", s, ok)
	}
}

func TestStockListSearch(t *testing.T) {
	l := NewStockList([]model.Stock{
		{Symbol: "tcs.ns", Name: "Tata Consultancy Services"},
		{Symbol: "TATASTEEL.NS", Name: "Tata Steel", Ticker: "TATASTEEL"},
		{Symbol: "INFY.NS", Name: "Infosys", Ticker: "INFY"},
		{Symbol: "INFY.NS", Name: "duplicate"},
		{Symbol: " "},
	})

	if got := l.SearchStocks(""); len(got) != 3 {
		t.Fatalf("expected 3 stocks, got %d", len(got))
	}
	if got := l.SearchStocks("tata"); len(got) != 2 {
		t.Fatalf("expected 2 matches for tata, got %+v", got)
	}
	got := l.SearchStocks("tcs")
	if len(got) != 1 || got[0].Ticker != "TCS" || got[0].Symbol != "TCS.NS" {
		t.Fatalf("expected normalized TCS entry, got %+v", got)
	}
	if got := l.SearchStocks("zzz"); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", got)
	}
	if syms := l.Symbols(); len(syms) != 3 || syms[2] != "INFY.NS" {
		t.Fatalf("unexpected symbols %v", syms)
	}
}
