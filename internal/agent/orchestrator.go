package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"wsb-analyst/internal/analysis"
	"wsb-analyst/internal/composite"
	"wsb-analyst/internal/interfaces"
	"wsb-analyst/internal/llm"
	"wsb-analyst/internal/llm/claude"
	"wsb-analyst/internal/logger"
	"wsb-analyst/internal/sentiment"
	"wsb-analyst/internal/store"
	"wsb-analyst/internal/types"
)

// Reasoner is the slice of the model client the orchestrator drives. The
// sentiment classifier holds its own narrower view of the same client.
type Reasoner interface {
	Probe(ctx context.Context) error
	Create(ctx context.Context, req claude.Request) (*claude.Response, error)
}

// loopState tracks where the assisted tool loop is between iterations.
type loopState int

const (
	stateAwaitingModel loopState = iota
	stateDone
	stateFailed
)

// Controller owns run execution end to end. A run either completes with a
// ranked recommendation list or lands in a terminal error state; it is never
// left running.
type Controller struct {
	cfg       store.Config
	runs      *store.RunStore
	trending  interfaces.TrendingSource
	posts     interfaces.PostsSource
	market    interfaces.MarketDataSource
	reasoner  Reasoner
	heuristic sentiment.Classifier
	assisted  sentiment.Classifier

	// pacing sleeps between per-ticker post fetches in local mode.
	pacing time.Duration
}

func NewController(
	cfg store.Config,
	runs *store.RunStore,
	trending interfaces.TrendingSource,
	posts interfaces.PostsSource,
	market interfaces.MarketDataSource,
	reasoner Reasoner,
) *Controller {
	c := &Controller{
		cfg:       cfg,
		runs:      runs,
		trending:  trending,
		posts:     posts,
		market:    market,
		reasoner:  reasoner,
		heuristic: sentiment.NewHeuristic(),
		pacing:    time.Duration(cfg.Reddit.PacingSeconds) * time.Second,
	}
	if reasoner != nil {
		if completer, ok := reasoner.(sentiment.Completer); ok {
			c.assisted = sentiment.NewAssisted(completer)
		}
	}
	return c
}

// Execute runs the job to completion and records the terminal state. It is
// the worker-boundary catch point: panics and errors both land in the run's
// error field instead of escaping.
func (c *Controller) Execute(ctx context.Context, jobID string) {
	run, ok := c.runs.Get(jobID)
	if !ok {
		logger.Error(ctx, "execute called for unknown job", "job_id", jobID)
		return
	}

	op := logger.StartOperation(ctx, "analysis-run", "job_id", jobID)
	// Closes after the recover below, so a panic's terminal state is already
	// in the store when the span ends.
	defer func() {
		if final, ok := c.runs.Get(jobID); ok && final.Status == types.RunError {
			op.EndWithError(errors.New(final.Error))
			return
		}
		op.End()
	}()
	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "run panicked", "job_id", jobID, "panic", fmt.Sprint(r))
			c.finishError(*run, fmt.Sprintf("internal error: %v", r))
		}
	}()
	ctx = op.GetContext()

	working := *run
	working.Status = types.RunRunning
	c.runs.Put(&working)

	if c.useAssisted(ctx) {
		logger.Info(ctx, "reasoning service available, running assisted analysis", "job_id", jobID)
		c.runAssisted(ctx, working)
	} else {
		logger.Info(ctx, "reasoning service unavailable, running local analysis", "job_id", jobID)
		c.runLocal(ctx, working)
	}
}

// useAssisted probes the reasoning service once per run. An unreachable
// service is not an error; the run silently falls back to local mode.
func (c *Controller) useAssisted(ctx context.Context) bool {
	if c.reasoner == nil {
		return false
	}
	if err := c.reasoner.Probe(ctx); err != nil {
		logger.Warn(ctx, "reasoning service probe failed", "error", err)
		return false
	}
	return true
}

func (c *Controller) finishCompleted(run types.AnalysisRun) {
	now := time.Now().UTC()
	run.Status = types.RunCompleted
	run.CompletedAt = &now
	c.runs.Put(&run)
}

func (c *Controller) finishError(run types.AnalysisRun, msg string) {
	now := time.Now().UTC()
	run.Status = types.RunError
	run.Error = msg
	run.CompletedAt = &now
	c.runs.Put(&run)
}

// runLocal fans out over the top trending tickers with the rule-based
// pipeline. Per-ticker failures are logged and skipped; the run itself
// still completes.
func (c *Controller) runLocal(ctx context.Context, run types.AnalysisRun) {
	trending, err := c.trending.Trending(ctx, c.cfg.Reddit.TimeFilter, c.cfg.Reddit.ScanLimit)
	if err != nil || len(trending) == 0 {
		c.finishError(run, "Could not fetch trending tickers from Reddit")
		return
	}
	run.TrendingTickers = trending

	top := trending
	if len(top) > c.cfg.Analysis.TopTickers {
		top = top[:c.cfg.Analysis.TopTickers]
	}

	var recommendations []types.Recommendation
	for rank, mention := range top {
		rec, ok := c.analyzeTicker(ctx, mention.Ticker, rank+1)
		if !ok {
			continue
		}
		recommendations = append(recommendations, rec)
		logger.Recommendation(ctx, mention.Ticker, string(rec.Signal), rec.Score, "rank", rank+1)
	}

	// Highest conviction first. The fan-out already produced stable ranks,
	// so a stable sort keeps mention order for ties.
	sortRecommendations(recommendations)

	run.Recommendations = recommendations
	run.MarketSummary = localMarketSummary(recommendations, trending)
	c.finishCompleted(run)
}

func (c *Controller) analyzeTicker(ctx context.Context, ticker string, rank int) (types.Recommendation, bool) {
	defer func() {
		// A single bad ticker must not sink the whole run.
		if r := recover(); r != nil {
			logger.Warn(ctx, "skipping ticker after panic", "ticker", ticker, "panic", fmt.Sprint(r))
		}
	}()

	data, err := c.market.PriceHistory(ctx, ticker, c.cfg.Market.Period)
	if err != nil || len(data.History) == 0 {
		logger.Warn(ctx, "skipping ticker, no price data", "ticker", ticker, "error", err)
		return types.Recommendation{}, false
	}

	fin, err := c.market.FinancialStatements(ctx, ticker)
	if err != nil {
		logger.Warn(ctx, "financials unavailable, scoring on price data only",
			"ticker", ticker, "error", err)
		fin = types.FinancialStatements{Ticker: ticker}
	}

	benchmark, err := c.market.Benchmark(ctx, c.cfg.Market.Period)
	if err != nil {
		logger.Warn(ctx, "benchmark unavailable, beta will be undefined", "error", err)
		benchmark = nil
	}

	fundamental := analysis.Fundamentals(ticker, data, fin)
	technical := analysis.Technicals(ticker, data)
	risk := analysis.Risk(ticker, data, benchmark)

	// Pace the extra Reddit round trip.
	select {
	case <-ctx.Done():
		return types.Recommendation{}, false
	case <-time.After(c.pacing):
	}

	posts, err := c.posts.Posts(ctx, ticker, c.cfg.Reddit.PostsPerTicker)
	if err != nil {
		logger.Warn(ctx, "post fetch failed, sentiment from empty set", "ticker", ticker, "error", err)
		posts = nil
	}
	sent := c.heuristic.Classify(ctx, ticker, posts)

	return composite.Synthesize(ticker, fundamental, technical, risk, sent, rank), true
}

func sortRecommendations(recs []types.Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
}

func localMarketSummary(recs []types.Recommendation, trending []types.TickerMention) string {
	topMentions := trending
	if len(topMentions) > 5 {
		topMentions = topMentions[:5]
	}
	names := make([]string, len(topMentions))
	for i, m := range topMentions {
		names[i] = m.Ticker
	}
	return fmt.Sprintf(
		"Analyzed %d WSB trending stocks using quantitative analysis. Top mentions: %s. "+
			"(Running in local mode, add reasoning-service credits for AI-powered sentiment analysis and investment theses.)",
		len(recs), strings.Join(names, ", "))
}

// runAssisted drives the bounded tool loop against the reasoning service.
// Exhausting the iteration cap without a completion signal is fatal for
// the run and is not retried.
func (c *Controller) runAssisted(ctx context.Context, run types.AnalysisRun) {
	classifier := c.assisted
	if classifier == nil {
		classifier = c.heuristic
	}
	executor := &toolExecutor{
		trending:       c.trending,
		posts:          c.posts,
		market:         c.market,
		classifier:     classifier,
		timeFilter:     c.cfg.Reddit.TimeFilter,
		scanLimit:      c.cfg.Reddit.ScanLimit,
		period:         c.cfg.Market.Period,
		postsPerTicker: c.cfg.Reddit.PostsPerTicker,
	}

	messages := []claude.Message{
		{Role: "user", Content: []claude.ContentBlock{claude.TextBlock(kickoffMessage)}},
	}

	state := stateAwaitingModel
	var finalText string

	for iteration := 1; iteration <= c.cfg.LLM.MaxIterations && state == stateAwaitingModel; iteration++ {
		logger.Info(ctx, "agent iteration", "job_id", run.JobID, "iteration", iteration)

		resp, err := c.reasoner.Create(ctx, claude.Request{
			Model:     c.cfg.LLM.Model,
			MaxTokens: c.cfg.LLM.MaxTokens,
			System:    orchestratorSystemPrompt,
			Tools:     toolDefs(),
			Messages:  messages,
		})
		if err != nil {
			c.finishError(run, fmt.Sprintf("reasoning service call failed: %v", err))
			return
		}

		switch resp.StopReason {
		case claude.StopToolUse:
			var results []claude.ContentBlock
			for _, use := range resp.ToolUses() {
				logger.Info(ctx, "tool call", "job_id", run.JobID, "tool", use.Name)
				results = append(results, claude.ToolResultBlock(use.ID, executor.execute(ctx, use.Name, use.Input)))
			}
			messages = append(messages,
				claude.Message{Role: "assistant", Content: resp.Content},
				claude.Message{Role: "user", Content: results},
			)

		case claude.StopEndTurn:
			finalText = resp.Text()
			state = stateDone

		default:
			logger.Warn(ctx, "unexpected stop reason", "stop_reason", resp.StopReason)
			state = stateFailed
		}
	}

	if state != stateDone {
		c.finishError(run, "Agent exceeded maximum iterations")
		return
	}

	summary, recommendations := parseFinalResponse(ctx, finalText)
	run.MarketSummary = summary
	run.Recommendations = recommendations
	c.finishCompleted(run)
}

// finalPayload is the JSON contract the system prompt pins for the model's
// closing message.
type finalPayload struct {
	MarketSummary   string `json:"market_summary"`
	Recommendations []struct {
		Ticker           string   `json:"ticker"`
		Signal           string   `json:"signal"`
		Score            *float64 `json:"score"`
		InvestmentThesis string   `json:"investment_thesis"`
		BullCase         string   `json:"bull_case"`
		BearCase         string   `json:"bear_case"`
		RiskFlags        []string `json:"risk_flags"`
		WSBMentionRank   int      `json:"wsb_mention_rank"`
	} `json:"recommendations"`
}

var validSignals = map[string]types.Signal{
	"strong_buy":  types.SignalStrongBuy,
	"buy":         types.SignalBuy,
	"hold":        types.SignalHold,
	"sell":        types.SignalSell,
	"strong_sell": types.SignalStrongSell,
}

// parseFinalResponse extracts the recommendation set from the model's last
// message. Unparsable output degrades to a summary-only result rather than
// failing the run.
func parseFinalResponse(ctx context.Context, text string) (string, []types.Recommendation) {
	raw, ok := llm.ExtractObject(text)
	if !ok {
		logger.Error(ctx, "no JSON object in final agent response")
		return llm.Truncate(text, 500), []types.Recommendation{}
	}

	var payload finalPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		logger.ErrorWithErr(ctx, "failed to parse final agent response", err)
		return llm.Truncate(text, 500), []types.Recommendation{}
	}

	recs := make([]types.Recommendation, 0, len(payload.Recommendations))
	for i, r := range payload.Recommendations {
		signal, ok := validSignals[r.Signal]
		if !ok {
			signal = types.SignalHold
		}
		score := 50.0
		if r.Score != nil {
			score = *r.Score
		}
		rank := r.WSBMentionRank
		if rank == 0 {
			rank = i + 1
		}
		recs = append(recs, types.Recommendation{
			Ticker:           r.Ticker,
			Signal:           signal,
			Score:            score,
			InvestmentThesis: r.InvestmentThesis,
			BullCase:         r.BullCase,
			BearCase:         r.BearCase,
			RiskFlags:        r.RiskFlags,
			WSBMentionRank:   rank,
		})
	}
	return payload.MarketSummary, recs
}
