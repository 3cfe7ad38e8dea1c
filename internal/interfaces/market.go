package interfaces

import (
	"context"

	"wsb-analyst/internal/types"
)

// MarketDataSource fetches price history and fundamentals for a ticker.
// Both calls may return empty results for symbols that are not real
// tickers; callers tolerate and skip.
type MarketDataSource interface {
	PriceHistory(ctx context.Context, ticker, period string) (types.StockData, error)
	FinancialStatements(ctx context.Context, ticker string) (types.FinancialStatements, error)
	Benchmark(ctx context.Context, period string) ([]types.Bar, error)
}
