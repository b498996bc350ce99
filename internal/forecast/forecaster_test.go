package forecast

import (
	"errors"
	"math"
	"testing"
	"time"

	"price-forecast/internal/model"
)

func makeSeries(start time.Time, closes []float64) []model.PricePoint {
	series := make([]model.PricePoint, len(closes))
	for i, c := range closes {
		series[i] = model.PricePoint{Date: start.AddDate(0, 0, i), Close: c}
	}
	return series
}

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestFitAndForecastReturnsHorizonConsecutiveDays(t *testing.T) {
	start := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	closes := make([]float64, 80)
	for i := range closes {
		closes[i] = 100 + 10*math.Sin(float64(i)/5)
	}
	series := makeSeries(start, closes)

	f, err := New(20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	points, err := f.FitAndForecast(series, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 14 {
		t.Fatalf("expected 14 points, got %d", len(points))
	}

	last := series[len(series)-1].Date
	for i, p := range points {
		want := last.AddDate(0, 0, i+1)
		if !p.Date.Equal(want) {
			t.Fatalf("point %d: expected date %s, got %s", i, want.Format(model.DateLayout), p.Date.Format(model.DateLayout))
		}
	}
}

func TestFitAndForecastIsDeterministic(t *testing.T) {
	closes := make([]float64, 120)
	for i := range closes {
		closes[i] = 50 + float64(i%7)*1.3 + math.Cos(float64(i))*2
	}
	series := makeSeries(time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), closes)

	f, _ := New(10)
	first, err := f.FitAndForecast(series, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := f.FitAndForecast(series, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("point %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestFitAndForecastConstantSeries(t *testing.T) {
	series := makeSeries(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), constant(100, 100.0))

	f, _ := New(10)
	points, err := f.FitAndForecast(series, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, p := range points {
		if p.PredictedClose != 100.0 {
			t.Fatalf("point %d: expected 100, got %v", i, p.PredictedClose)
		}
	}
}

func TestFitAndForecastLinearTrendKeepsRising(t *testing.T) {
	closes := make([]float64, 100)
	for i := range closes {
		closes[i] = 1 + float64(i)
	}
	series := makeSeries(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), closes)

	f, _ := New(5)
	points, err := f.FitAndForecast(series, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prev := closes[len(closes)-1]
	for i, p := range points {
		if p.PredictedClose <= prev {
			t.Fatalf("point %d: expected value above %v, got %v", i, prev, p.PredictedClose)
		}
		prev = p.PredictedClose
	}
}

func TestFitAndForecastMinimumLength(t *testing.T) {
	const w = 8
	closes := make([]float64, w+1)
	for i := range closes {
		closes[i] = 20 + float64(i)*0.5
	}
	series := makeSeries(time.Date(2024, 2, 27, 0, 0, 0, 0, time.UTC), closes)

	f, _ := New(w)
	points, err := f.FitAndForecast(series, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}
	if want := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC); !points[0].Date.Equal(want) {
		t.Fatalf("expected %s, got %s", want, points[0].Date)
	}
}

func TestFitAndForecastInsufficientData(t *testing.T) {
	f, _ := New(10)
	for _, n := range []int{0, 1, 9, 10} {
		series := makeSeries(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), constant(n, 3))
		_, err := f.FitAndForecast(series, 5)
		var insufficient *InsufficientDataError
		if !errors.As(err, &insufficient) {
			t.Fatalf("len %d: expected InsufficientDataError, got %v", n, err)
		}
		if insufficient.Have != n || insufficient.Need != 11 {
			t.Fatalf("len %d: unexpected error fields %+v", n, insufficient)
		}
	}
}

func TestFitAndForecastInvalidHorizon(t *testing.T) {
	series := makeSeries(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), constant(30, 3))
	f, _ := New(10)
	for _, h := range []int{0, -1, -30} {
		_, err := f.FitAndForecast(series, h)
		var invalid *InvalidHorizonError
		if !errors.As(err, &invalid) {
			t.Fatalf("horizon %d: expected InvalidHorizonError, got %v", h, err)
		}
	}
}

func TestNewRejectsNonPositiveLookback(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Fatal("expected error for zero lookback")
	}
	f, err := New(DefaultLookback)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Lookback() != 60 {
		t.Fatalf("expected lookback 60, got %d", f.Lookback())
	}
}
