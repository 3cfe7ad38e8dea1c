package analysis

import (
	"fmt"
	"math"
	"strings"

	"wsb-analyst/internal/quant"
	"wsb-analyst/internal/types"
)

const (
	minReturnsForRisk  = 20
	tradingDaysPerYear = 252
	riskFreeRateAnnual = 0.05
)

// LogReturns computes daily log returns from closing prices.
func LogReturns(bars []types.Bar) []float64 {
	if len(bars) < 2 {
		return nil
	}
	out := make([]float64, 0, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		if bars[i-1].Close <= 0 || bars[i].Close <= 0 {
			continue
		}
		out = append(out, math.Log(bars[i].Close/bars[i-1].Close))
	}
	return out
}

// Risk scores volatility-adjusted return quality against a benchmark
// series. Fails closed with a neutral score on fewer than 20 observations.
func Risk(ticker string, data types.StockData, benchmark []types.Bar) types.RiskReport {
	returns := LogReturns(data.History)

	if len(returns) < minReturnsForRisk {
		return types.RiskReport{
			Ticker:  ticker,
			Score:   50.0,
			Summary: ticker + ": Insufficient data for risk analysis",
		}
	}

	sqrtDays := math.Sqrt(tradingDaysPerYear)
	dailyVol := quant.StdDev(returns)
	annualVol := quant.Round(dailyVol*sqrtDays, 4)

	riskFreeDaily := riskFreeRateAnnual / tradingDaysPerYear
	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - riskFreeDaily
	}

	var sharpe *float64
	if dailyVol > 0 {
		s := quant.Round(quant.Mean(excess)/quant.StdDev(excess)*sqrtDays, 4)
		sharpe = &s
	}

	var sortino *float64
	var downside []float64
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}
	if len(downside) > 0 {
		if downsideVol := quant.StdDev(downside); downsideVol > 0 {
			s := quant.Round(quant.Mean(excess)/downsideVol*sqrtDays, 4)
			sortino = &s
		}
	}

	maxDrawdown := 0.0
	runningMax := math.Inf(-1)
	for _, bar := range data.History {
		if bar.Close > runningMax {
			runningMax = bar.Close
		}
		if dd := (bar.Close - runningMax) / runningMax; dd < maxDrawdown {
			maxDrawdown = dd
		}
	}
	maxDrawdown = quant.Round(maxDrawdown, 4)

	var95 := quant.Round(quant.Percentile(returns, 5), 4)

	var beta *float64
	benchReturns := LogReturns(benchmark)
	if minLen := min(len(returns), len(benchReturns)); minLen >= minReturnsForRisk {
		stockTail := returns[len(returns)-minLen:]
		benchTail := benchReturns[len(benchReturns)-minLen:]
		benchVar := quant.Covariance(benchTail, benchTail)
		if benchVar != 0 {
			b := quant.Round(quant.Covariance(stockTail, benchTail)/benchVar, 4)
			beta = &b
		}
	}

	score := 50.0
	switch {
	case annualVol < 0.20:
		score += 10
	case annualVol < 0.35:
		score += 5
	case annualVol > 0.60:
		score -= 15
	case annualVol > 0.45:
		score -= 10
	}
	if sharpe != nil {
		switch s := *sharpe; {
		case s > 1.5:
			score += 15
		case s > 1.0:
			score += 10
		case s > 0.5:
			score += 5
		case s < 0:
			score -= 10
		}
	}
	if maxDrawdown > -0.15 {
		score += 5
	} else if maxDrawdown < -0.40 {
		score -= 10
	}
	if beta != nil {
		if *beta < 0.8 {
			score += 5
		} else if *beta > 1.5 {
			score -= 10
		}
	}
	score = quant.Clamp(score, 0, 100)

	parts := []string{fmt.Sprintf("Vol %.1f%%", annualVol*100)}
	if sharpe != nil {
		parts = append(parts, fmt.Sprintf("Sharpe %.2f", *sharpe))
	}
	if beta != nil {
		parts = append(parts, fmt.Sprintf("Beta %.2f", *beta))
	}
	parts = append(parts, fmt.Sprintf("Max DD %.1f%%", maxDrawdown*100))
	parts = append(parts, fmt.Sprintf("VaR95 %.2f%%", var95*100))

	return types.RiskReport{
		Ticker:           ticker,
		Beta:             beta,
		SharpeRatio:      sharpe,
		SortinoRatio:     sortino,
		MaxDrawdown:      &maxDrawdown,
		VolatilityAnnual: &annualVol,
		VaR951Day:        &var95,
		Score:            score,
		Summary:          ticker + ": " + strings.Join(parts, ", "),
	}
}
