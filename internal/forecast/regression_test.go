package forecast

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestScalingTransformRoundTrip(t *testing.T) {
	prices := []float64{1834.55, 1790.1, 2011.75, 1999.999, 1801.3}
	scaler, err := NewScalingTransform(prices)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scaler.Scale(scaler.Min) != 0 || scaler.Scale(scaler.Max) != 1 {
		t.Fatalf("expected min->0 and max->1, got %v and %v", scaler.Scale(scaler.Min), scaler.Scale(scaler.Max))
	}
	for i := 0; i <= 100; i++ {
		p := scaler.Min + (scaler.Max-scaler.Min)*float64(i)/100
		if got := scaler.Unscale(scaler.Scale(p)); math.Abs(got-p) > 1e-9 {
			t.Fatalf("round trip of %v gave %v", p, got)
		}
	}
}

func TestScalingTransformZeroRange(t *testing.T) {
	scaler, _ := NewScalingTransform([]float64{42, 42, 42})
	if got := scaler.Scale(42); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
	if got := scaler.Unscale(0); got != 42 {
		t.Fatalf("expected 42, got %v", got)
	}
}

func TestScalingTransformEmpty(t *testing.T) {
	if _, err := NewScalingTransform(nil); err == nil {
		t.Fatal("expected error for empty prices")
	}
}

func TestBuildWindows(t *testing.T) {
	x, y, err := BuildWindows([]float64{0, 0.1, 0.2, 0.3, 0.4}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows, cols := x.Dims()
	if rows != 2 || cols != 3 {
		t.Fatalf("expected 2x3, got %dx%d", rows, cols)
	}
	want := mat.NewDense(2, 3, []float64{0, 0.1, 0.2, 0.1, 0.2, 0.3})
	if !mat.Equal(x, want) {
		t.Fatalf("unexpected features:\n%v", mat.Formatted(x))
	}
	if y[0] != 0.3 || y[1] != 0.4 {
		t.Fatalf("unexpected targets: %v", y)
	}

	if _, _, err := BuildWindows([]float64{1, 2, 3}, 3); err == nil {
		t.Fatal("expected error when series is not longer than the window")
	}
}

func TestFitOLSRecoversExactCoefficients(t *testing.T) {
	// y = 2 + 3a - b
	data := []float64{
		1, 0,
		0, 1,
		2, 3,
		4, 1,
		5, 7,
		-1, 2,
	}
	x := mat.NewDense(6, 2, data)
	y := make([]float64, 6)
	for i := range y {
		y[i] = 2 + 3*data[2*i] - data[2*i+1]
	}

	reg, err := FitOLS(x, y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(reg.Intercept-2) > 1e-9 {
		t.Fatalf("expected intercept 2, got %v", reg.Intercept)
	}
	if math.Abs(reg.Coef[0]-3) > 1e-9 || math.Abs(reg.Coef[1]+1) > 1e-9 {
		t.Fatalf("unexpected coefficients %v", reg.Coef)
	}
	if got := reg.Predict([]float64{10, 4}); math.Abs(got-28) > 1e-9 {
		t.Fatalf("expected 28, got %v", got)
	}
}

func TestFitOLSRankDeficient(t *testing.T) {
	x := mat.NewDense(4, 2, []float64{1, 1, 1, 1, 1, 1, 1, 1})
	reg, err := FitOLS(x, []float64{5, 5, 5, 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reg.Coef[0] != 0 || reg.Coef[1] != 0 || reg.Intercept != 5 {
		t.Fatalf("expected zero coefficients and intercept 5, got %+v", reg)
	}
}

func TestFitOLSShapeMismatch(t *testing.T) {
	x := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	if _, err := FitOLS(x, []float64{1}); err == nil {
		t.Fatal("expected error for mismatched targets")
	}
}
