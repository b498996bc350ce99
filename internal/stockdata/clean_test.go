package stockdata

import (
	"math"
	"testing"
	"time"

	"price-forecast/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCleanBars(t *testing.T) {
	bars := []model.Bar{
		{Date: day(2024, 1, 3), Close: 3},
		{Date: day(2024, 1, 1), Close: 1},
		{Date: day(2024, 1, 2), Close: math.NaN()},
		{Date: day(2024, 1, 3).Add(5 * time.Hour), Close: 33},
		{Date: day(2024, 1, 2), Close: 2, Volume: math.Inf(1)},
	}

	got := CleanBars(bars)
	if len(got) != 2 {
		t.Fatalf("expected 2 bars, got %d: %+v", len(got), got)
	}
	if got[0].Close != 1 || got[1].Close != 33 {
		t.Fatalf("unexpected order or dedupe result: %+v", got)
	}
	if !got[1].Date.Equal(day(2024, 1, 3)) {
		t.Fatalf("expected date truncated to day, got %s", got[1].Date)
	}
}

func TestSeriesFromBars(t *testing.T) {
	bars := []model.Bar{
		{Date: day(2024, 1, 1), Close: 10},
		{Date: day(2024, 1, 2), Close: 11},
	}
	series, err := SeriesFromBars(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 2 || series[1].Close != 11 {
		t.Fatalf("unexpected series %+v", series)
	}

	bars = append(bars, model.Bar{Date: day(2024, 1, 2), Close: 12})
	if _, err := SeriesFromBars(bars); err == nil {
		t.Fatal("expected error for repeated date")
	}
}
