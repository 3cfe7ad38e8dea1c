package analysis

import (
	"fmt"
	"math"
	"strings"

	"wsb-analyst/internal/quant"
	"wsb-analyst/internal/ta"
	"wsb-analyst/internal/types"
)

const minBarsForTechnical = 20

const (
	TrendBullish = "bullish"
	TrendBearish = "bearish"
	TrendNeutral = "neutral"
)

// ptr converts a possibly-NaN indicator value to an optional report field.
func ptr(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// Technicals scores the price/volume trend from the OHLCV history. Fails
// closed with a neutral score on fewer than 20 bars.
func Technicals(ticker string, data types.StockData) types.TechnicalReport {
	if len(data.History) < minBarsForTechnical {
		return types.TechnicalReport{
			Ticker:  ticker,
			Score:   50.0,
			Summary: ticker + ": Insufficient price history for technical analysis",
		}
	}

	closes := make([]float64, len(data.History))
	volumes := make([]float64, len(data.History))
	for i, bar := range data.History {
		closes[i] = bar.Close
		volumes[i] = float64(bar.Volume)
	}
	currentPrice := closes[len(closes)-1]

	sma20 := ptr(ta.SMA(closes, 20))
	sma50 := ptr(ta.SMA(closes, 50))
	sma200 := ptr(ta.SMA(closes, 200))
	ema12 := ptr(ta.EMA(closes, 12))
	ema26 := ptr(ta.EMA(closes, 26))
	rsi14 := ptr(ta.RSI(closes, 14))

	macdLine, macdSignal, macdHist := ta.MACD(closes)
	bbMid, bbUpper, bbLower := ta.Bollinger(closes, 20, 2)

	avgVolume := ptr(ta.SMA(volumes, 20))
	currentVolume := volumes[len(volumes)-1]
	var volRatio *float64
	if avgVolume != nil && *avgVolume > 0 {
		r := currentVolume / *avgVolume
		volRatio = &r
	}

	// Discrete signal tags feeding the trend verdict.
	var signals []string
	if sma50 != nil && sma200 != nil {
		if *sma50 > *sma200 {
			signals = append(signals, "golden_cross")
		} else {
			signals = append(signals, "death_cross")
		}
	}
	if rsi14 != nil {
		if *rsi14 > 70 {
			signals = append(signals, "overbought")
		} else if *rsi14 < 30 {
			signals = append(signals, "oversold")
		}
	}
	if !math.IsNaN(macdHist) {
		if macdHist > 0 {
			signals = append(signals, "macd_bullish")
		} else {
			signals = append(signals, "macd_bearish")
		}
	}
	if currentPrice > bbUpper {
		signals = append(signals, "above_upper_bb")
	} else if currentPrice < bbLower {
		signals = append(signals, "below_lower_bb")
	}

	bullish := countTags(signals, "golden_cross", "oversold", "macd_bullish", "below_lower_bb")
	bearish := countTags(signals, "death_cross", "overbought", "macd_bearish", "above_upper_bb")

	trend := TrendNeutral
	if bullish > bearish {
		trend = TrendBullish
	} else if bearish > bullish {
		trend = TrendBearish
	}

	score := 50.0
	if sma20 != nil && currentPrice > *sma20 {
		score += 5
	}
	if sma50 != nil && currentPrice > *sma50 {
		score += 5
	}
	if sma200 != nil && currentPrice > *sma200 {
		score += 5
	}
	if rsi14 != nil {
		switch r := *rsi14; {
		case r > 70:
			score -= 10
		case r < 30:
			score += 5 // oversold bounce potential
		case r < 50:
			score += 5 // room to run
		}
	}
	if !math.IsNaN(macdHist) {
		if macdHist > 0 {
			score += 5
		} else {
			score -= 5
		}
	}
	if hasTag(signals, "golden_cross") {
		score += 10
	} else if hasTag(signals, "death_cross") {
		score -= 10
	}
	if volRatio != nil && *volRatio > 2.0 {
		score += 5 // unusual volume
	}
	score = quant.Clamp(score, 0, 100)

	parts := []string{"Trend: " + trend}
	if rsi14 != nil {
		parts = append(parts, fmt.Sprintf("RSI %.1f", *rsi14))
	}
	if !math.IsNaN(macdHist) {
		if macdHist > 0 {
			parts = append(parts, "MACD bullish")
		} else {
			parts = append(parts, "MACD bearish")
		}
	}
	if volRatio != nil {
		parts = append(parts, fmt.Sprintf("Vol ratio %.1fx", *volRatio))
	}

	return types.TechnicalReport{
		Ticker:         ticker,
		SMA20:          quant.RoundPtr(sma20, 2),
		SMA50:          quant.RoundPtr(sma50, 2),
		SMA200:         quant.RoundPtr(sma200, 2),
		EMA12:          quant.RoundPtr(ema12, 2),
		EMA26:          quant.RoundPtr(ema26, 2),
		RSI14:          quant.RoundPtr(rsi14, 2),
		MACD:           quant.RoundPtr(ptr(macdLine), 4),
		MACDSignal:     quant.RoundPtr(ptr(macdSignal), 4),
		MACDHistogram:  quant.RoundPtr(ptr(macdHist), 4),
		BollingerUpper: quant.RoundPtr(ptr(bbUpper), 2),
		BollingerLower: quant.RoundPtr(ptr(bbLower), 2),
		BollingerMid:   quant.RoundPtr(ptr(bbMid), 2),
		AvgVolume20D:   quant.RoundPtr(avgVolume, 0),
		CurrentVolume:  &currentVolume,
		VolumeRatio:    quant.RoundPtr(volRatio, 2),
		CurrentPrice:   &currentPrice,
		TrendSignal:    trend,
		Score:          score,
		Summary:        ticker + ": " + strings.Join(parts, ", "),
	}
}

func countTags(signals []string, tags ...string) int {
	n := 0
	for _, s := range signals {
		for _, t := range tags {
			if s == t {
				n++
			}
		}
	}
	return n
}

func hasTag(signals []string, tag string) bool {
	for _, s := range signals {
		if s == tag {
			return true
		}
	}
	return false
}
