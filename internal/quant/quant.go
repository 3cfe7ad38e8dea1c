// Package quant holds the guarded arithmetic shared by the analyzers.
// Operations return nil instead of faulting when an operand is missing or
// would divide by zero, so every scoring rule can skip cleanly.
package quant

import (
	"math"
	"sort"
)

// Div divides a by b. Nil when either operand is missing or b is zero.
func Div(a, b *float64) *float64 {
	if a == nil || b == nil || *b == 0 {
		return nil
	}
	v := *a / *b
	return &v
}

// Growth computes period-over-period growth for a newest-first series:
// (s[0]-s[1])/|s[1]|. Nil when fewer than two periods or the prior is zero.
func Growth(series []float64) *float64 {
	if len(series) < 2 || series[1] == 0 {
		return nil
	}
	v := (series[0] - series[1]) / math.Abs(series[1])
	return &v
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// RoundPtr rounds through a pointer, keeping nil nil.
func RoundPtr(v *float64, places int) *float64 {
	if v == nil {
		return nil
	}
	r := Round(*v, places)
	return &r
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Mean of a slice. Zero on empty input; callers guard length themselves.
func Mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// StdDev is the population standard deviation.
func StdDev(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	m := Mean(vals)
	s := 0.0
	for _, v := range vals {
		d := v - m
		s += d * d
	}
	return math.Sqrt(s / float64(len(vals)))
}

// Percentile returns the p-th percentile (0-100) by linear interpolation
// over the sorted copy of vals.
func Percentile(vals []float64, p float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Covariance of two equal-length slices (population).
func Covariance(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	ma, mb := Mean(a), Mean(b)
	s := 0.0
	for i := range a {
		s += (a[i] - ma) * (b[i] - mb)
	}
	return s / float64(len(a))
}
