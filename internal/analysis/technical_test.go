package analysis

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"wsb-analyst/internal/types"
)

func barsFromCloses(closes []float64, volume int64) []types.Bar {
	bars := make([]types.Bar, len(closes))
	for i, c := range closes {
		bars[i] = types.Bar{
			Date:   fmt.Sprintf("2024-01-%02d", i%28+1),
			Open:   c,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: volume,
		}
	}
	return bars
}

func TestTechnicalsInsufficientHistory(t *testing.T) {
	data := types.StockData{History: barsFromCloses([]float64{1, 2, 3}, 100)}
	rep := Technicals("SHRT", data)
	if rep.Score != 50 {
		t.Errorf("score = %v, want 50", rep.Score)
	}
	if !strings.Contains(rep.Summary, "Insufficient") {
		t.Errorf("summary should mark insufficient history, got %q", rep.Summary)
	}
	if rep.SMA20 != nil || rep.RSI14 != nil || rep.MACD != nil || rep.CurrentPrice != nil {
		t.Error("indicator fields should be unset on insufficient history")
	}
}

func TestTechnicalsUptrend(t *testing.T) {
	// An accelerating ramp keeps the MACD line above its signal line, so the
	// golden cross and the positive histogram outvote the pegged RSI and the
	// tag majority lands bullish. A constant-slope ramp would not: its
	// histogram decays to zero while RSI stays overbought.
	closes := make([]float64, 250)
	for i := range closes {
		closes[i] = 100 + 0.2*float64(i) + 0.004*float64(i)*float64(i)
	}
	rep := Technicals("UPUP", types.StockData{History: barsFromCloses(closes, 1000)})

	if rep.SMA20 == nil || rep.SMA50 == nil || rep.SMA200 == nil {
		t.Fatal("all SMAs should be defined with 250 bars")
	}
	if rep.MACDHistogram == nil {
		t.Fatal("MACD should be defined")
	}
	if *rep.MACDHistogram <= 0 {
		t.Fatalf("histogram = %v, want positive while gains accelerate", *rep.MACDHistogram)
	}
	if rep.TrendSignal != TrendBullish {
		t.Errorf("trend = %q, want bullish", rep.TrendSignal)
	}
	if rep.RSI14 == nil || *rep.RSI14 <= 70 {
		t.Errorf("RSI = %v, want overbought on a monotonic rise", rep.RSI14)
	}
	if rep.Score <= 50 || rep.Score > 100 {
		t.Errorf("score = %v, want above neutral", rep.Score)
	}
}

func TestTechnicalsDowntrend(t *testing.T) {
	closes := make([]float64, 250)
	for i := range closes {
		closes[i] = 300 - float64(i)*0.5
	}
	rep := Technicals("DOWN", types.StockData{History: barsFromCloses(closes, 1000)})
	if rep.TrendSignal != TrendBearish {
		t.Errorf("trend = %q, want bearish", rep.TrendSignal)
	}
	if rep.Score < 0 || rep.Score > 100 {
		t.Errorf("score %v out of range", rep.Score)
	}
}

func TestTechnicalsGatesLongWindows(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i%5)
	}
	rep := Technicals("MIDL", types.StockData{History: barsFromCloses(closes, 500)})
	if rep.SMA20 == nil {
		t.Error("SMA20 should be defined with 30 bars")
	}
	if rep.SMA50 != nil || rep.SMA200 != nil {
		t.Error("SMA50/200 should be undefined with 30 bars")
	}
	if rep.EMA26 == nil {
		t.Error("EMA26 should be defined with 30 bars")
	}
	if rep.MACD != nil {
		t.Error("MACD needs 35 bars and should be undefined with 30")
	}
}

func TestTechnicalsIdempotent(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 50 + float64(i%7)
	}
	data := types.StockData{History: barsFromCloses(closes, 2000)}
	a := Technicals("REPT", data)
	b := Technicals("REPT", data)
	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs should produce identical reports")
	}
}
