package quant

import (
	"math"
	"testing"
)

func fp(v float64) *float64 { return &v }

func TestDiv(t *testing.T) {
	if got := Div(fp(10), fp(4)); got == nil || *got != 2.5 {
		t.Fatalf("Div(10,4) = %v, want 2.5", got)
	}
	if got := Div(fp(10), fp(0)); got != nil {
		t.Errorf("Div by zero should be nil, got %v", *got)
	}
	if got := Div(nil, fp(4)); got != nil {
		t.Errorf("Div with nil numerator should be nil")
	}
	if got := Div(fp(10), nil); got != nil {
		t.Errorf("Div with nil denominator should be nil")
	}
}

func TestGrowth(t *testing.T) {
	if got := Growth([]float64{120, 100}); got == nil || math.Abs(*got-0.2) > 1e-9 {
		t.Fatalf("Growth([120,100]) = %v, want 0.2", got)
	}
	// negative prior period: growth is relative to its magnitude
	if got := Growth([]float64{50, -100}); got == nil || math.Abs(*got-1.5) > 1e-9 {
		t.Fatalf("Growth([50,-100]) = %v, want 1.5", got)
	}
	if got := Growth([]float64{100}); got != nil {
		t.Error("Growth with one period should be nil")
	}
	if got := Growth(nil); got != nil {
		t.Error("Growth with no periods should be nil")
	}
	if got := Growth([]float64{100, 0}); got != nil {
		t.Error("Growth with zero prior should be nil")
	}
}

func TestRound(t *testing.T) {
	if got := Round(1.23456, 2); got != 1.23 {
		t.Errorf("Round(1.23456, 2) = %v", got)
	}
	if got := Round(1.235, 1); got != 1.2 {
		t.Errorf("Round(1.235, 1) = %v", got)
	}
	if got := RoundPtr(nil, 2); got != nil {
		t.Error("RoundPtr(nil) should stay nil")
	}
}

func TestClamp(t *testing.T) {
	cases := []struct{ v, lo, hi, want float64 }{
		{-5, 0, 100, 0},
		{105, 0, 100, 100},
		{50, 0, 100, 50},
	}
	for _, c := range cases {
		if got := Clamp(c.v, c.lo, c.hi); got != c.want {
			t.Errorf("Clamp(%v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestStdDevAndMean(t *testing.T) {
	vals := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	if got := Mean(vals); got != 5 {
		t.Errorf("Mean = %v, want 5", got)
	}
	if got := StdDev(vals); got != 2 {
		t.Errorf("StdDev = %v, want 2", got)
	}
	if got := StdDev(nil); got != 0 {
		t.Errorf("StdDev(nil) = %v, want 0", got)
	}
}

func TestPercentile(t *testing.T) {
	vals := []float64{5, 1, 3, 2, 4}
	if got := Percentile(vals, 50); got != 3 {
		t.Errorf("P50 = %v, want 3", got)
	}
	if got := Percentile(vals, 0); got != 1 {
		t.Errorf("P0 = %v, want 1", got)
	}
	if got := Percentile(vals, 100); got != 5 {
		t.Errorf("P100 = %v, want 5", got)
	}
	if got := Percentile(vals, 25); got != 2 {
		t.Errorf("P25 = %v, want 2", got)
	}
}

func TestCovariance(t *testing.T) {
	a := []float64{1, 2, 3, 4}
	b := []float64{2, 4, 6, 8}
	// cov(a, 2a) = 2*var(a); population var of 1..4 is 1.25
	if got := Covariance(a, b); math.Abs(got-2.5) > 1e-9 {
		t.Errorf("Covariance = %v, want 2.5", got)
	}
	if got := Covariance(a, []float64{1}); got != 0 {
		t.Errorf("mismatched lengths should give 0, got %v", got)
	}
}
