// Package analysis contains the three scoring analyzers. Each one turns raw
// market data into a 0-100 score plus structured metrics, degrading to fewer
// populated fields when inputs are missing rather than failing.
package analysis

import (
	"fmt"
	"math"
	"strings"

	"wsb-analyst/internal/quant"
	"wsb-analyst/internal/types"
)

const (
	dcfYears          = 5
	dcfDiscountRate   = 0.10
	dcfTerminalGrowth = 0.03
	dcfDefaultGrowth  = 0.05
	dcfGrowthFloor    = -0.10
	dcfGrowthCeil     = 0.30
)

// DCFFairValue projects free cash flow forward and discounts it back to a
// per-share fair value. Nil when FCF is non-positive or shares are unknown.
func DCFFairValue(fcf *float64, growthRate float64, shares *float64) *float64 {
	if fcf == nil || *fcf <= 0 || shares == nil || *shares <= 0 {
		return nil
	}

	pvFCFs := 0.0
	projected := *fcf
	for year := 1; year <= dcfYears; year++ {
		projected *= 1 + growthRate
		pvFCFs += projected / math.Pow(1+dcfDiscountRate, float64(year))
	}

	terminalFCF := projected * (1 + dcfTerminalGrowth)
	terminalValue := terminalFCF / (dcfDiscountRate - dcfTerminalGrowth)
	pvTerminal := terminalValue / math.Pow(1+dcfDiscountRate, float64(dcfYears))

	enterpriseValue := pvFCFs + pvTerminal
	fair := quant.Round(enterpriseValue / *shares, 2)
	return &fair
}

// Fundamentals scores valuation, growth and leverage from the financial
// statement snapshot. Every missing input just skips its scoring rule.
func Fundamentals(ticker string, data types.StockData, fin types.FinancialStatements) types.FundamentalReport {
	info := data.Info

	revenueGrowth := quant.RoundPtr(quant.Growth(fin.Revenue), 4)
	earningsGrowth := quant.RoundPtr(quant.Growth(fin.NetIncome), 4)
	debtToEquity := quant.RoundPtr(quant.Div(fin.TotalDebt, fin.TotalEquity), 4)

	// Shares outstanding backed out of market cap; the feed has no direct field.
	var shares *float64
	if info.MarketCap != nil && info.CurrentPrice != nil && *info.CurrentPrice > 0 {
		s := *info.MarketCap / *info.CurrentPrice
		shares = &s
	}

	growthForDCF := dcfDefaultGrowth
	if revenueGrowth != nil {
		growthForDCF = quant.Clamp(*revenueGrowth, dcfGrowthFloor, dcfGrowthCeil)
	}
	dcfValue := DCFFairValue(fin.FreeCashFlow, growthForDCF, shares)

	var dcfUpside *float64
	if dcfValue != nil && info.CurrentPrice != nil && *info.CurrentPrice > 0 {
		u := quant.Round((*dcfValue-*info.CurrentPrice) / *info.CurrentPrice, 4)
		dcfUpside = &u
	}

	score := 50.0
	if fin.TrailingPE != nil {
		switch pe := *fin.TrailingPE; {
		case pe < 15:
			score += 10
		case pe < 25:
			score += 5
		case pe > 50:
			score -= 10
		}
	}
	if revenueGrowth != nil {
		switch g := *revenueGrowth; {
		case g > 0.20:
			score += 10
		case g > 0.05:
			score += 5
		case g < 0:
			score -= 10
		}
	}
	if debtToEquity != nil {
		switch de := *debtToEquity; {
		case de < 0.5:
			score += 5
		case de > 2.0:
			score -= 10
		}
	}
	if dcfUpside != nil {
		switch u := *dcfUpside; {
		case u > 0.30:
			score += 10
		case u > 0:
			score += 5
		case u < -0.30:
			score -= 10
		}
	}
	if fin.ProfitMargin != nil {
		switch m := *fin.ProfitMargin; {
		case m > 0.20:
			score += 5
		case m < 0:
			score -= 10
		}
	}
	score = quant.Clamp(score, 0, 100)

	var parts []string
	if fin.TrailingPE != nil {
		parts = append(parts, fmt.Sprintf("P/E %.1f", *fin.TrailingPE))
	}
	if revenueGrowth != nil {
		parts = append(parts, fmt.Sprintf("Rev growth %+.1f%%", *revenueGrowth*100))
	}
	if debtToEquity != nil {
		parts = append(parts, fmt.Sprintf("D/E %.2f", *debtToEquity))
	}
	if dcfUpside != nil {
		parts = append(parts, fmt.Sprintf("DCF upside %+.1f%%", *dcfUpside*100))
	}
	summary := ticker + ": Limited data"
	if len(parts) > 0 {
		summary = ticker + ": " + strings.Join(parts, ", ")
	}

	return types.FundamentalReport{
		Ticker:            ticker,
		TrailingPE:        fin.TrailingPE,
		ForwardPE:         fin.ForwardPE,
		PriceToBook:       fin.PriceToBook,
		RevenueGrowthYoY:  revenueGrowth,
		EarningsGrowthYoY: earningsGrowth,
		DebtToEquity:      debtToEquity,
		FreeCashFlow:      fin.FreeCashFlow,
		ProfitMargin:      fin.ProfitMargin,
		OperatingMargin:   fin.OperatingMargin,
		DCFFairValue:      dcfValue,
		CurrentPrice:      info.CurrentPrice,
		DCFUpsidePct:      dcfUpside,
		Score:             score,
		Summary:           summary,
	}
}
