package market

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wsb-analyst/internal/api"
)

const chartFixture = `{
  "chart": {
    "result": [{
      "meta": {
        "symbol": "GME",
        "longName": "GameStop Corp.",
        "regularMarketPrice": 25.5,
        "fiftyTwoWeekHigh": 64.83,
        "fiftyTwoWeekLow": 9.95
      },
      "timestamp": [1755561000, 1755647400, 1755733800],
      "indicators": {
        "quote": [{
          "open":   [24.101, 24.95, null],
          "high":   [25.204, 25.60, null],
          "low":    [23.887, 24.70, null],
          "close":  [24.903, 25.50, null],
          "volume": [1000000, 1200000, null]
        }]
      }
    }],
    "error": null
  }
}`

const quoteSummaryFixture = `{
  "quoteSummary": {
    "result": [{
      "assetProfile": {"sector": "Consumer Cyclical", "industry": "Specialty Retail"},
      "price": {"marketCap": {"raw": 11400000000}, "regularMarketPrice": {"raw": 25.5}},
      "summaryDetail": {"trailingPE": {"raw": 58.2}},
      "defaultKeyStatistics": {"trailingEps": {"raw": 0.44}, "priceToBook": {"raw": 2.3}},
      "financialData": {
        "totalDebt": {"raw": 410000000},
        "freeCashflow": {"raw": 120000000},
        "profitMargins": {"raw": 0.025},
        "operatingMargins": {"raw": 0.011}
      },
      "incomeStatementHistory": {
        "incomeStatementHistory": [
          {"totalRevenue": {"raw": 3823000000}, "netIncome": {"raw": 131300000}},
          {"totalRevenue": {"raw": 5272800000}, "netIncome": {"raw": 6700000}}
        ]
      },
      "balanceSheetHistory": {
        "balanceSheetStatements": [
          {"totalStockholderEquity": {"raw": 4900000000}}
        ]
      }
    }],
    "error": null
  }
}`

func testYahoo(t *testing.T, handler http.Handler) *Yahoo {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewYahoo("SPY", api.WithBaseURL(srv.URL))
}

func fixtureMux(t *testing.T) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v8/finance/chart/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartFixture)
	})
	mux.HandleFunc("/v10/finance/quoteSummary/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, quoteSummaryFixture)
	})
	return mux
}

func TestPriceHistoryParsesBarsAndInfo(t *testing.T) {
	y := testYahoo(t, fixtureMux(t))

	data, err := y.PriceHistory(context.Background(), "GME", "1y")
	if err != nil {
		t.Fatalf("PriceHistory: %v", err)
	}

	// Third bar has a null close and must be dropped.
	if len(data.History) != 2 {
		t.Fatalf("got %d bars, want 2", len(data.History))
	}
	first := data.History[0]
	if first.Open != 24.1 || first.Close != 24.9 {
		t.Errorf("first bar = %+v, want open 24.1 close 24.9 (rounded)", first)
	}
	if first.Volume != 1000000 {
		t.Errorf("first bar volume = %d, want 1000000", first.Volume)
	}
	if first.Date == "" {
		t.Error("bar date should be set")
	}

	info := data.Info
	if info.Name != "GameStop Corp." {
		t.Errorf("name = %q", info.Name)
	}
	if info.CurrentPrice == nil || *info.CurrentPrice != 25.5 {
		t.Errorf("current price = %v, want 25.5", info.CurrentPrice)
	}
	if info.Sector != "Consumer Cyclical" {
		t.Errorf("sector = %q, want Consumer Cyclical", info.Sector)
	}
	if info.MarketCap == nil || *info.MarketCap != 11400000000 {
		t.Errorf("market cap = %v", info.MarketCap)
	}
}

func TestPriceHistorySurvivesProfileFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v8/finance/chart/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartFixture)
	})
	mux.HandleFunc("/v10/finance/quoteSummary/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})
	y := testYahoo(t, mux)

	data, err := y.PriceHistory(context.Background(), "GME", "1y")
	if err != nil {
		t.Fatalf("PriceHistory: %v", err)
	}
	if len(data.History) != 2 {
		t.Fatalf("got %d bars, want 2", len(data.History))
	}
	if data.Info.Sector != "" {
		t.Errorf("sector should be blank when profile fetch fails, got %q", data.Info.Sector)
	}
	if data.Info.CurrentPrice == nil || *data.Info.CurrentPrice != 25.5 {
		t.Errorf("chart-meta price should survive, got %v", data.Info.CurrentPrice)
	}
}

func TestPriceHistoryUnknownTicker(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v8/finance/chart/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
	})
	y := testYahoo(t, mux)

	_, err := y.PriceHistory(context.Background(), "ZZZZZ", "1y")
	if err == nil {
		t.Fatal("expected error for unknown ticker")
	}
	if !strings.Contains(err.Error(), "no result") {
		t.Errorf("error = %v, want no-result error", err)
	}
}

func TestFinancialStatementsParsing(t *testing.T) {
	y := testYahoo(t, fixtureMux(t))

	fin, err := y.FinancialStatements(context.Background(), "GME")
	if err != nil {
		t.Fatalf("FinancialStatements: %v", err)
	}

	if len(fin.Revenue) != 2 || fin.Revenue[0] != 3823000000 {
		t.Errorf("revenue = %v, want newest-first pair", fin.Revenue)
	}
	if len(fin.NetIncome) != 2 || fin.NetIncome[0] != 131300000 {
		t.Errorf("net income = %v", fin.NetIncome)
	}
	if fin.TotalDebt == nil || *fin.TotalDebt != 410000000 {
		t.Errorf("total debt = %v", fin.TotalDebt)
	}
	if fin.TotalEquity == nil || *fin.TotalEquity != 4900000000 {
		t.Errorf("total equity = %v", fin.TotalEquity)
	}
	if fin.TrailingPE == nil || *fin.TrailingPE != 58.2 {
		t.Errorf("trailing PE = %v", fin.TrailingPE)
	}
	if fin.ForwardPE != nil {
		t.Errorf("forward PE should be nil when absent, got %v", *fin.ForwardPE)
	}
	if fin.ProfitMargin == nil || *fin.ProfitMargin != 0.025 {
		t.Errorf("profit margin = %v", fin.ProfitMargin)
	}
}

func TestBenchmarkUsesConfiguredTicker(t *testing.T) {
	var requested string
	mux := http.NewServeMux()
	mux.HandleFunc("/v8/finance/chart/", func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.Path
		fmt.Fprint(w, chartFixture)
	})
	y := testYahoo(t, mux)

	bars, err := y.Benchmark(context.Background(), "1y")
	if err != nil {
		t.Fatalf("Benchmark: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("got %d bars, want 2", len(bars))
	}
	if !strings.HasSuffix(requested, "/SPY") {
		t.Errorf("requested path = %q, want SPY chart", requested)
	}
}
