package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"wsb-analyst/internal/analysis"
	"wsb-analyst/internal/interfaces"
	"wsb-analyst/internal/llm/claude"
	"wsb-analyst/internal/logger"
	"wsb-analyst/internal/sentiment"
)

const (
	toolTrending    = "get_wsb_trending"
	toolMarketData  = "get_financial_data"
	toolFundamental = "run_fundamental_analysis"
	toolTechnical   = "run_technical_analysis"
	toolRisk        = "run_risk_analysis"
	toolSentiment   = "analyze_wsb_sentiment"

	// Tool results feed straight back into the model's context, so large
	// payloads are trimmed before serialization.
	trendingToolLimit = 15
	historyToolBars   = 20
)

func tickerProp() map[string]any {
	return map[string]any{
		"type":        "string",
		"description": "Stock ticker symbol (e.g. AAPL, TSLA, GME)",
	}
}

func toolDefs() []claude.Tool {
	return []claude.Tool{
		{
			Name: toolTrending,
			Description: "Get the most talked-about stock tickers on r/WallStreetBets right now. " +
				"Returns tickers ranked by a weighted score of mention frequency, upvotes, " +
				"and comment engagement. Each ticker includes sample posts.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"time_filter": map[string]any{
						"type":        "string",
						"enum":        []string{"hour", "day", "week"},
						"description": "Time filter for top posts. Default: day",
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Max posts to scan. Default: 100",
					},
				},
			},
		},
		{
			Name: toolMarketData,
			Description: "Fetch stock price history (1 year OHLCV) and company info for a ticker. " +
				"Returns current price, market cap, sector, 52-week range, and recent price history.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"ticker": tickerProp(),
					"period": map[string]any{
						"type":        "string",
						"enum":        []string{"3mo", "6mo", "1y", "2y"},
						"description": "Price history period. Default: 1y",
					},
				},
				"required": []string{"ticker"},
			},
		},
		{
			Name: toolFundamental,
			Description: "Run fundamental analysis on a stock. Returns P/E ratios, revenue growth, " +
				"earnings growth, debt-to-equity, free cash flow, profit margins, and a " +
				"simple DCF fair value estimate with upside/downside percentage.",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{"ticker": tickerProp()},
				"required":   []string{"ticker"},
			},
		},
		{
			Name: toolTechnical,
			Description: "Run technical analysis on a stock. Returns SMA (20/50/200), EMA (12/26), " +
				"RSI, MACD with signal & histogram, Bollinger Bands, volume analysis, " +
				"and an overall trend signal (bullish/bearish/neutral).",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{"ticker": tickerProp()},
				"required":   []string{"ticker"},
			},
		},
		{
			Name: toolRisk,
			Description: "Calculate risk metrics for a stock vs the index benchmark. Returns beta, " +
				"Sharpe ratio, Sortino ratio, max drawdown, annualized volatility, " +
				"and Value at Risk (95% confidence, 1-day).",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{"ticker": tickerProp()},
				"required":   []string{"ticker"},
			},
		},
		{
			Name: toolSentiment,
			Description: "Analyze the sentiment of recent WallStreetBets posts about a specific ticker. " +
				"Uses AI to detect sarcasm, meme hype vs genuine DD, bullish/bearish signals, " +
				"key themes, and catalysts. Returns a sentiment report with confidence score.",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{"ticker": tickerProp()},
				"required":   []string{"ticker"},
			},
		},
	}
}

// toolExecutor runs one tool invocation against the live data sources.
// Failures are serialized into the result payload instead of returned,
// so the model can see the error and route around it.
type toolExecutor struct {
	trending       interfaces.TrendingSource
	posts          interfaces.PostsSource
	market         interfaces.MarketDataSource
	classifier     sentiment.Classifier
	timeFilter     string
	scanLimit      int
	period         string
	postsPerTicker int
}

func (e *toolExecutor) execute(ctx context.Context, name string, input json.RawMessage) string {
	result, err := e.dispatch(ctx, name, input)
	if err != nil {
		logger.ErrorWithErr(ctx, "tool execution failed", err, "tool", name)
		return errorPayload(err)
	}
	out, err := json.Marshal(result)
	if err != nil {
		return errorPayload(err)
	}
	return string(out)
}

func errorPayload(err error) string {
	out, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(out)
}

func (e *toolExecutor) dispatch(ctx context.Context, name string, input json.RawMessage) (any, error) {
	args := gjson.ParseBytes(input)

	switch name {
	case toolTrending:
		timeFilter := args.Get("time_filter").String()
		if timeFilter == "" {
			timeFilter = e.timeFilter
		}
		limit := int(args.Get("limit").Int())
		if limit == 0 {
			limit = e.scanLimit
		}
		mentions, err := e.trending.Trending(ctx, timeFilter, limit)
		if err != nil {
			return nil, err
		}
		if len(mentions) > trendingToolLimit {
			mentions = mentions[:trendingToolLimit]
		}
		return mentions, nil

	case toolMarketData:
		ticker, err := requiredTicker(args)
		if err != nil {
			return nil, err
		}
		period := args.Get("period").String()
		if period == "" {
			period = e.period
		}
		data, err := e.market.PriceHistory(ctx, ticker, period)
		if err != nil {
			return nil, err
		}
		if len(data.History) > historyToolBars {
			data.History = data.History[len(data.History)-historyToolBars:]
		}
		return data, nil

	case toolFundamental:
		ticker, err := requiredTicker(args)
		if err != nil {
			return nil, err
		}
		data, err := e.market.PriceHistory(ctx, ticker, e.period)
		if err != nil {
			return nil, err
		}
		fin, err := e.market.FinancialStatements(ctx, ticker)
		if err != nil {
			return nil, err
		}
		return analysis.Fundamentals(ticker, data, fin), nil

	case toolTechnical:
		ticker, err := requiredTicker(args)
		if err != nil {
			return nil, err
		}
		data, err := e.market.PriceHistory(ctx, ticker, e.period)
		if err != nil {
			return nil, err
		}
		return analysis.Technicals(ticker, data), nil

	case toolRisk:
		ticker, err := requiredTicker(args)
		if err != nil {
			return nil, err
		}
		data, err := e.market.PriceHistory(ctx, ticker, e.period)
		if err != nil {
			return nil, err
		}
		benchmark, err := e.market.Benchmark(ctx, e.period)
		if err != nil {
			logger.Warn(ctx, "benchmark fetch failed, beta will be undefined",
				"ticker", ticker, "error", err)
			benchmark = nil
		}
		return analysis.Risk(ticker, data, benchmark), nil

	case toolSentiment:
		ticker, err := requiredTicker(args)
		if err != nil {
			return nil, err
		}
		posts, err := e.posts.Posts(ctx, ticker, e.postsPerTicker)
		if err != nil {
			return nil, err
		}
		return e.classifier.Classify(ctx, ticker, posts), nil

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

func requiredTicker(args gjson.Result) (string, error) {
	ticker := args.Get("ticker").String()
	if ticker == "" {
		return "", fmt.Errorf("ticker is required")
	}
	return ticker, nil
}
