package market

import (
	"context"
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"wsb-analyst/internal/api"
	"wsb-analyst/internal/logger"
	"wsb-analyst/internal/quant"
	"wsb-analyst/internal/types"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// Yahoo fetches price history and financial statements from Yahoo
// Finance's public JSON endpoints.
type Yahoo struct {
	client          *api.Client
	benchmarkTicker string
}

func NewYahoo(benchmarkTicker string, opts ...api.ClientOption) *Yahoo {
	base := []api.ClientOption{
		api.WithBaseURL(defaultBaseURL),
		api.WithTimeout(20 * time.Second),
	}
	return &Yahoo{
		client:          api.NewClient(append(base, opts...)...),
		benchmarkTicker: benchmarkTicker,
	}
}

// optFloat converts a gjson value to an optional float. Missing and null
// values stay nil so downstream scoring can skip them.
func optFloat(v gjson.Result) *float64 {
	if !v.Exists() || v.Type == gjson.Null {
		return nil
	}
	f := v.Float()
	return &f
}

func (y *Yahoo) fetchChart(ctx context.Context, ticker, period string) (gjson.Result, error) {
	path := fmt.Sprintf("/v8/finance/chart/%s?range=%s&interval=1d", ticker, period)
	resp, err := y.client.GETWithRetry(ctx, path, nil, api.YahooFinanceHeaders())
	if err != nil {
		return gjson.Result{}, fmt.Errorf("yahoo chart %s: %w", ticker, err)
	}

	root := gjson.GetBytes(resp.Body, "chart.result.0")
	if !root.Exists() {
		errMsg := gjson.GetBytes(resp.Body, "chart.error.description").String()
		return gjson.Result{}, fmt.Errorf("yahoo chart %s: no result (%s)", ticker, errMsg)
	}
	return root, nil
}

func barsFromChart(result gjson.Result) []types.Bar {
	timestamps := result.Get("timestamp").Array()
	quote := result.Get("indicators.quote.0")
	opens := quote.Get("open").Array()
	highs := quote.Get("high").Array()
	lows := quote.Get("low").Array()
	closes := quote.Get("close").Array()
	volumes := quote.Get("volume").Array()

	at := func(vals []gjson.Result, i int) float64 {
		if i < len(vals) {
			return vals[i].Float()
		}
		return 0
	}

	var bars []types.Bar
	for i, ts := range timestamps {
		// Null closes mark holidays and half-session gaps.
		if i >= len(closes) || !closes[i].Exists() || closes[i].Type == gjson.Null || closes[i].Float() == 0 {
			continue
		}
		bars = append(bars, types.Bar{
			Date:   time.Unix(ts.Int(), 0).UTC().Format("2006-01-02"),
			Open:   quant.Round(at(opens, i), 2),
			High:   quant.Round(at(highs, i), 2),
			Low:    quant.Round(at(lows, i), 2),
			Close:  quant.Round(at(closes, i), 2),
			Volume: int64(at(volumes, i)),
		})
	}
	return bars
}

// PriceHistory returns daily OHLCV bars plus company info for a ticker.
// Profile details come from a secondary endpoint and degrade to blanks
// when that call fails; the bars are the part scoring depends on.
func (y *Yahoo) PriceHistory(ctx context.Context, ticker, period string) (types.StockData, error) {
	result, err := y.fetchChart(ctx, ticker, period)
	if err != nil {
		return types.StockData{}, err
	}

	meta := result.Get("meta")
	name := meta.Get("longName").String()
	if name == "" {
		name = meta.Get("shortName").String()
	}
	if name == "" {
		name = ticker
	}

	info := types.StockInfo{
		Ticker:           ticker,
		Name:             name,
		CurrentPrice:     optFloat(meta.Get("regularMarketPrice")),
		FiftyTwoWeekHigh: optFloat(meta.Get("fiftyTwoWeekHigh")),
		FiftyTwoWeekLow:  optFloat(meta.Get("fiftyTwoWeekLow")),
	}

	if summary, err := y.fetchQuoteSummary(ctx, ticker, "assetProfile,price"); err != nil {
		logger.Warn(ctx, "yahoo profile fetch failed, continuing with chart metadata",
			"ticker", ticker, "error", err)
	} else {
		info.Sector = summary.Get("assetProfile.sector").String()
		info.Industry = summary.Get("assetProfile.industry").String()
		info.MarketCap = optFloat(summary.Get("price.marketCap.raw"))
		if info.CurrentPrice == nil {
			info.CurrentPrice = optFloat(summary.Get("price.regularMarketPrice.raw"))
		}
	}

	return types.StockData{
		Info:    info,
		History: barsFromChart(result),
	}, nil
}

func (y *Yahoo) fetchQuoteSummary(ctx context.Context, ticker, modules string) (gjson.Result, error) {
	path := fmt.Sprintf("/v10/finance/quoteSummary/%s?modules=%s", ticker, modules)
	resp, err := y.client.GET(ctx, path, api.YahooFinanceHeaders())
	if err != nil {
		return gjson.Result{}, fmt.Errorf("yahoo quoteSummary %s: %w", ticker, err)
	}

	root := gjson.GetBytes(resp.Body, "quoteSummary.result.0")
	if !root.Exists() {
		errMsg := gjson.GetBytes(resp.Body, "quoteSummary.error.description").String()
		return gjson.Result{}, fmt.Errorf("yahoo quoteSummary %s: no result (%s)", ticker, errMsg)
	}
	return root, nil
}

// FinancialStatements pulls the filings-derived figures used by the
// fundamental analyzer. Annual statement lists come back newest first.
func (y *Yahoo) FinancialStatements(ctx context.Context, ticker string) (types.FinancialStatements, error) {
	const modules = "incomeStatementHistory,balanceSheetHistory,financialData,defaultKeyStatistics,summaryDetail"
	summary, err := y.fetchQuoteSummary(ctx, ticker, modules)
	if err != nil {
		return types.FinancialStatements{}, err
	}

	fin := types.FinancialStatements{Ticker: ticker}
	for _, stmt := range summary.Get("incomeStatementHistory.incomeStatementHistory").Array() {
		if rev := stmt.Get("totalRevenue.raw"); rev.Exists() && rev.Type != gjson.Null {
			fin.Revenue = append(fin.Revenue, rev.Float())
		}
		if ni := stmt.Get("netIncome.raw"); ni.Exists() && ni.Type != gjson.Null {
			fin.NetIncome = append(fin.NetIncome, ni.Float())
		}
	}

	fin.TotalDebt = optFloat(summary.Get("financialData.totalDebt.raw"))
	fin.TotalEquity = optFloat(summary.Get("balanceSheetHistory.balanceSheetStatements.0.totalStockholderEquity.raw"))
	fin.FreeCashFlow = optFloat(summary.Get("financialData.freeCashflow.raw"))
	fin.EarningsPerShare = optFloat(summary.Get("defaultKeyStatistics.trailingEps.raw"))
	fin.ForwardEPS = optFloat(summary.Get("defaultKeyStatistics.forwardEps.raw"))
	fin.TrailingPE = optFloat(summary.Get("summaryDetail.trailingPE.raw"))
	fin.ForwardPE = optFloat(summary.Get("summaryDetail.forwardPE.raw"))
	fin.PriceToBook = optFloat(summary.Get("defaultKeyStatistics.priceToBook.raw"))
	fin.ProfitMargin = optFloat(summary.Get("financialData.profitMargins.raw"))
	fin.OperatingMargin = optFloat(summary.Get("financialData.operatingMargins.raw"))

	return fin, nil
}

// Benchmark returns index-proxy bars used for beta.
func (y *Yahoo) Benchmark(ctx context.Context, period string) ([]types.Bar, error) {
	result, err := y.fetchChart(ctx, y.benchmarkTicker, period)
	if err != nil {
		return nil, err
	}
	return barsFromChart(result), nil
}
