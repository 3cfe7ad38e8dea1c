package types

import "time"

// RedditPost is a single scraped submission.
type RedditPost struct {
	PostID      string  `json:"post_id"`
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	UpvoteRatio float64 `json:"upvote_ratio"`
	CreatedUTC  float64 `json:"created_utc"`
	URL         string  `json:"url"`
	Flair       string  `json:"flair,omitempty"`
}

// TickerMention aggregates how often a ticker shows up across posts.
type TickerMention struct {
	Ticker        string       `json:"ticker"`
	MentionCount  int          `json:"mention_count"`
	TotalScore    int          `json:"total_score"`
	TotalComments int          `json:"total_comments"`
	WeightedScore float64      `json:"weighted_score"`
	SamplePosts   []RedditPost `json:"sample_posts"`
}

// Bar is one daily OHLCV candle.
type Bar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

type StockInfo struct {
	Ticker           string   `json:"ticker"`
	Name             string   `json:"name"`
	Sector           string   `json:"sector"`
	Industry         string   `json:"industry"`
	MarketCap        *float64 `json:"market_cap,omitempty"`
	CurrentPrice     *float64 `json:"current_price,omitempty"`
	FiftyTwoWeekHigh *float64 `json:"fifty_two_week_high,omitempty"`
	FiftyTwoWeekLow  *float64 `json:"fifty_two_week_low,omitempty"`
}

// StockData bundles company info with price history.
type StockData struct {
	Info    StockInfo `json:"info"`
	History []Bar     `json:"history"`
}

// FinancialStatements is a point-in-time snapshot of the filings data we
// score against. Revenue and NetIncome are ordered newest first.
type FinancialStatements struct {
	Ticker           string    `json:"ticker"`
	Revenue          []float64 `json:"revenue"`
	NetIncome        []float64 `json:"net_income"`
	TotalDebt        *float64  `json:"total_debt,omitempty"`
	TotalEquity      *float64  `json:"total_equity,omitempty"`
	FreeCashFlow     *float64  `json:"free_cash_flow,omitempty"`
	EarningsPerShare *float64  `json:"earnings_per_share,omitempty"`
	ForwardEPS       *float64  `json:"forward_eps,omitempty"`
	TrailingPE       *float64  `json:"trailing_pe,omitempty"`
	ForwardPE        *float64  `json:"forward_pe,omitempty"`
	PriceToBook      *float64  `json:"price_to_book,omitempty"`
	ProfitMargin     *float64  `json:"profit_margin,omitempty"`
	OperatingMargin  *float64  `json:"operating_margin,omitempty"`
}

// FundamentalReport is the fundamental analyzer output. Metrics that could
// not be computed stay nil and are omitted from JSON.
type FundamentalReport struct {
	Ticker            string   `json:"ticker"`
	TrailingPE        *float64 `json:"trailing_pe,omitempty"`
	ForwardPE         *float64 `json:"forward_pe,omitempty"`
	PriceToBook       *float64 `json:"price_to_book,omitempty"`
	RevenueGrowthYoY  *float64 `json:"revenue_growth_yoy,omitempty"`
	EarningsGrowthYoY *float64 `json:"earnings_growth_yoy,omitempty"`
	DebtToEquity      *float64 `json:"debt_to_equity,omitempty"`
	FreeCashFlow      *float64 `json:"free_cash_flow,omitempty"`
	ProfitMargin      *float64 `json:"profit_margin,omitempty"`
	OperatingMargin   *float64 `json:"operating_margin,omitempty"`
	DCFFairValue      *float64 `json:"dcf_fair_value,omitempty"`
	CurrentPrice      *float64 `json:"current_price,omitempty"`
	DCFUpsidePct      *float64 `json:"dcf_upside_pct,omitempty"`
	Score             float64  `json:"score"`
	Summary           string   `json:"summary"`
}

type TechnicalReport struct {
	Ticker         string   `json:"ticker"`
	SMA20          *float64 `json:"sma_20,omitempty"`
	SMA50          *float64 `json:"sma_50,omitempty"`
	SMA200         *float64 `json:"sma_200,omitempty"`
	EMA12          *float64 `json:"ema_12,omitempty"`
	EMA26          *float64 `json:"ema_26,omitempty"`
	RSI14          *float64 `json:"rsi_14,omitempty"`
	MACD           *float64 `json:"macd,omitempty"`
	MACDSignal     *float64 `json:"macd_signal,omitempty"`
	MACDHistogram  *float64 `json:"macd_histogram,omitempty"`
	BollingerUpper *float64 `json:"bollinger_upper,omitempty"`
	BollingerLower *float64 `json:"bollinger_lower,omitempty"`
	BollingerMid   *float64 `json:"bollinger_mid,omitempty"`
	AvgVolume20D   *float64 `json:"avg_volume_20d,omitempty"`
	CurrentVolume  *float64 `json:"current_volume,omitempty"`
	VolumeRatio    *float64 `json:"volume_ratio,omitempty"`
	CurrentPrice   *float64 `json:"current_price,omitempty"`
	TrendSignal    string   `json:"trend_signal"`
	Score          float64  `json:"score"`
	Summary        string   `json:"summary"`
}

type RiskReport struct {
	Ticker           string   `json:"ticker"`
	Beta             *float64 `json:"beta,omitempty"`
	SharpeRatio      *float64 `json:"sharpe_ratio,omitempty"`
	SortinoRatio     *float64 `json:"sortino_ratio,omitempty"`
	MaxDrawdown      *float64 `json:"max_drawdown,omitempty"`
	VolatilityAnnual *float64 `json:"volatility_annual,omitempty"`
	VaR951Day        *float64 `json:"var_95_1day,omitempty"`
	Score            float64  `json:"score"`
	Summary          string   `json:"summary"`
}

// Sentiment is the verdict bucket for a collection of posts.
type Sentiment string

const (
	SentimentBullish Sentiment = "bullish"
	SentimentBearish Sentiment = "bearish"
	SentimentMixed   Sentiment = "mixed"
	SentimentNeutral Sentiment = "neutral"
)

type SentimentReport struct {
	Ticker            string    `json:"ticker"`
	Sentiment         Sentiment `json:"sentiment"`
	Confidence        float64   `json:"confidence"`
	IsMemeHype        bool      `json:"is_meme_hype"`
	IsGenuineDD       bool      `json:"is_genuine_dd"`
	KeyThemes         []string  `json:"key_themes"`
	Catalysts         []string  `json:"catalysts"`
	PostCountAnalyzed int       `json:"post_count_analyzed"`
	Summary           string    `json:"summary"`
}

// Signal is the buy/sell verdict derived from a composite score.
type Signal string

const (
	SignalStrongBuy  Signal = "strong_buy"
	SignalBuy        Signal = "buy"
	SignalHold       Signal = "hold"
	SignalSell       Signal = "sell"
	SignalStrongSell Signal = "strong_sell"
)

// Recommendation merges the four component reports for one ticker.
type Recommendation struct {
	Ticker           string             `json:"ticker"`
	Signal           Signal             `json:"signal"`
	Score            float64            `json:"score"`
	InvestmentThesis string             `json:"investment_thesis"`
	BullCase         string             `json:"bull_case"`
	BearCase         string             `json:"bear_case"`
	RiskFlags        []string           `json:"risk_flags"`
	Fundamental      *FundamentalReport `json:"fundamental,omitempty"`
	Technical        *TechnicalReport   `json:"technical,omitempty"`
	Risk             *RiskReport        `json:"risk,omitempty"`
	Sentiment        *SentimentReport   `json:"sentiment,omitempty"`
	WSBMentionRank   int                `json:"wsb_mention_rank"`
}

// RunStatus is the lifecycle state of an analysis run.
type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunError     RunStatus = "error"
)

// AnalysisRun is the terminal output of one orchestrated run. It is written
// once by the worker that owns the run id and never mutated afterwards.
type AnalysisRun struct {
	JobID           string           `json:"job_id"`
	Status          RunStatus        `json:"status"`
	CreatedAt       time.Time        `json:"created_at"`
	CompletedAt     *time.Time       `json:"completed_at,omitempty"`
	TrendingTickers []TickerMention  `json:"trending_tickers"`
	Recommendations []Recommendation `json:"recommendations"`
	MarketSummary   string           `json:"market_summary"`
	Error           string           `json:"error,omitempty"`
}

// Float returns a pointer to v. Convenience for optional report fields.
func Float(v float64) *float64 { return &v }
