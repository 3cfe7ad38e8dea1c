// Package ta implements the indicator math on raw close/volume slices.
// Functions return math.NaN() when there is not enough history.
package ta

import "math"

func SMA(closes []float64, n int) float64 {
	if len(closes) < n || n <= 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := len(closes) - n; i < len(closes); i++ {
		sum += closes[i]
	}
	return sum / float64(n)
}

// EMASeries returns the exponential moving average over the whole input,
// seeded with the simple average of the first period values. Entries before
// index period-1 are NaN.
func EMASeries(vals []float64, period int) []float64 {
	if len(vals) < period || period <= 0 {
		return nil
	}
	out := make([]float64, len(vals))
	for i := 0; i < period-1; i++ {
		out[i] = math.NaN()
	}
	sum := 0.0
	for i := 0; i < period; i++ {
		sum += vals[i]
	}
	out[period-1] = sum / float64(period)
	mult := 2.0 / float64(period+1)
	for i := period; i < len(vals); i++ {
		out[i] = (vals[i]-out[i-1])*mult + out[i-1]
	}
	return out
}

func EMA(closes []float64, period int) float64 {
	s := EMASeries(closes, period)
	if s == nil {
		return math.NaN()
	}
	return s[len(s)-1]
}

func RSI(closes []float64, period int) float64 {
	if len(closes) < period+1 || period <= 0 {
		return math.NaN()
	}
	gain, loss := 0.0, 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	if loss == 0 {
		return 100.0
	}
	rs := (gain / float64(period)) / (loss / float64(period))
	return 100.0 - (100.0 / (1.0 + rs))
}

// MACD computes the 12/26/9 convergence-divergence triple: the MACD line
// (EMA12-EMA26), its 9-period signal line, and the histogram (line-signal).
func MACD(closes []float64) (line, signal, histogram float64) {
	const (
		fast   = 12
		slow   = 26
		smooth = 9
	)
	if len(closes) < slow+smooth {
		return math.NaN(), math.NaN(), math.NaN()
	}
	emaFast := EMASeries(closes, fast)
	emaSlow := EMASeries(closes, slow)
	diff := make([]float64, 0, len(closes)-slow+1)
	for i := slow - 1; i < len(closes); i++ {
		diff = append(diff, emaFast[i]-emaSlow[i])
	}
	sig := EMASeries(diff, smooth)
	line = diff[len(diff)-1]
	signal = sig[len(sig)-1]
	histogram = line - signal
	return line, signal, histogram
}

func StdDev(vals []float64, n int) float64 {
	if len(vals) < n || n <= 0 {
		return math.NaN()
	}
	m := SMA(vals, n)
	s := 0.0
	for i := len(vals) - n; i < len(vals); i++ {
		d := vals[i] - m
		s += d * d
	}
	return math.Sqrt(s / float64(n))
}

func Bollinger(closes []float64, n int, k float64) (mid, up, low float64) {
	mid = SMA(closes, n)
	sd := StdDev(closes, n)
	up = mid + k*sd
	low = mid - k*sd
	return
}
