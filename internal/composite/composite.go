// Package composite merges the four per-ticker reports into one
// recommendation: weighted score, buy/sell signal, templated thesis and
// bull/bear cases, and risk flags.
package composite

import (
	"fmt"
	"strings"

	"wsb-analyst/internal/analysis"
	"wsb-analyst/internal/quant"
	"wsb-analyst/internal/types"
)

// Blend weights; fundamentals matter most.
const (
	weightFundamental = 0.35
	weightTechnical   = 0.25
	weightRisk        = 0.20
	weightSentiment   = 0.20
)

// SignalFor maps a composite score onto the buy/sell scale.
func SignalFor(score float64) types.Signal {
	switch {
	case score >= 75:
		return types.SignalStrongBuy
	case score >= 60:
		return types.SignalBuy
	case score >= 40:
		return types.SignalHold
	case score >= 25:
		return types.SignalSell
	default:
		return types.SignalStrongSell
	}
}

// sentimentScore converts the verdict into a 0-100 contribution, docking
// pure meme hype.
func sentimentScore(s *types.SentimentReport) float64 {
	score := 50.0
	switch s.Sentiment {
	case types.SentimentBullish:
		score = 70.0
	case types.SentimentBearish:
		score = 30.0
	}
	if s.IsMemeHype && !s.IsGenuineDD {
		score -= 10
	}
	return score
}

// Synthesize builds the recommendation for one ticker from its component
// reports and WSB mention rank.
func Synthesize(
	ticker string,
	fundamental types.FundamentalReport,
	technical types.TechnicalReport,
	risk types.RiskReport,
	sentiment types.SentimentReport,
	mentionRank int,
) types.Recommendation {
	score := fundamental.Score*weightFundamental +
		technical.Score*weightTechnical +
		risk.Score*weightRisk +
		sentimentScore(&sentiment)*weightSentiment
	score = quant.Clamp(quant.Round(score, 1), 0, 100)

	return types.Recommendation{
		Ticker:           ticker,
		Signal:           SignalFor(score),
		Score:            score,
		InvestmentThesis: thesis(ticker, &fundamental, &technical, &risk),
		BullCase:         bullCase(&fundamental, &technical, &sentiment),
		BearCase:         bearCase(&fundamental, &technical, &risk, &sentiment),
		RiskFlags:        riskFlags(&fundamental, &risk, &sentiment),
		Fundamental:      &fundamental,
		Technical:        &technical,
		Risk:             &risk,
		Sentiment:        &sentiment,
		WSBMentionRank:   mentionRank,
	}
}

func thesis(ticker string, f *types.FundamentalReport, t *types.TechnicalReport, r *types.RiskReport) string {
	var parts []string
	if f.TrailingPE != nil {
		parts = append(parts, fmt.Sprintf("P/E of %.1f", *f.TrailingPE))
	}
	if f.RevenueGrowthYoY != nil {
		direction := "declining"
		if *f.RevenueGrowthYoY > 0 {
			direction = "growing"
		}
		parts = append(parts, fmt.Sprintf("revenue %s %.1f%% YoY", direction, abs(*f.RevenueGrowthYoY)*100))
	}
	if t.TrendSignal != "" {
		parts = append(parts, "technical trend is "+t.TrendSignal)
	}
	if r.SharpeRatio != nil {
		quality := "poor"
		if *r.SharpeRatio > 1 {
			quality = "good"
		} else if *r.SharpeRatio > 0.5 {
			quality = "moderate"
		}
		parts = append(parts, fmt.Sprintf("%s risk-adjusted returns (Sharpe %.2f)", quality, *r.SharpeRatio))
	}
	if len(parts) == 0 {
		return ticker + ": Limited data available."
	}
	return ticker + ": " + strings.Join(parts, ", ") + "."
}

func bullCase(f *types.FundamentalReport, t *types.TechnicalReport, s *types.SentimentReport) string {
	var parts []string
	if f.DCFUpsidePct != nil && *f.DCFUpsidePct > 0 {
		parts = append(parts, fmt.Sprintf("DCF suggests %.0f%% upside", *f.DCFUpsidePct*100))
	}
	if f.RevenueGrowthYoY != nil && *f.RevenueGrowthYoY > 0.1 {
		parts = append(parts, fmt.Sprintf("strong revenue growth (%.1f%%)", *f.RevenueGrowthYoY*100))
	}
	if t.TrendSignal == analysis.TrendBullish {
		parts = append(parts, "bullish technical trend")
	}
	if s.Sentiment == types.SentimentBullish {
		parts = append(parts, "strong WSB bullish sentiment")
	}
	if len(parts) == 0 {
		return "Limited bullish signals."
	}
	return strings.Join(parts, ". ")
}

func bearCase(f *types.FundamentalReport, t *types.TechnicalReport, r *types.RiskReport, s *types.SentimentReport) string {
	var parts []string
	if f.TrailingPE != nil && *f.TrailingPE > 40 {
		parts = append(parts, fmt.Sprintf("expensive valuation (P/E %.0f)", *f.TrailingPE))
	}
	if f.DebtToEquity != nil && *f.DebtToEquity > 2 {
		parts = append(parts, fmt.Sprintf("high debt (D/E %.1f)", *f.DebtToEquity))
	}
	if t.TrendSignal == analysis.TrendBearish {
		parts = append(parts, "bearish technical trend")
	}
	if r.VolatilityAnnual != nil && *r.VolatilityAnnual > 0.5 {
		parts = append(parts, fmt.Sprintf("very volatile (%.0f%% annual)", *r.VolatilityAnnual*100))
	}
	if s.IsMemeHype {
		parts = append(parts, "WSB hype may be meme-driven")
	}
	if len(parts) == 0 {
		return "Limited bearish signals."
	}
	return strings.Join(parts, ". ")
}

func riskFlags(f *types.FundamentalReport, r *types.RiskReport, s *types.SentimentReport) []string {
	flags := []string{}
	if s.IsMemeHype {
		flags = append(flags, "Meme stock hype")
	}
	if r.VolatilityAnnual != nil && *r.VolatilityAnnual > 0.5 {
		flags = append(flags, "High volatility")
	}
	if f.TrailingPE != nil && *f.TrailingPE > 50 {
		flags = append(flags, "Extreme valuation")
	}
	if f.DebtToEquity != nil && *f.DebtToEquity > 3 {
		flags = append(flags, "Heavy debt load")
	}
	if r.MaxDrawdown != nil && *r.MaxDrawdown < -0.3 {
		flags = append(flags, fmt.Sprintf("Large recent drawdown (%.0f%%)", *r.MaxDrawdown*100))
	}
	return flags
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
