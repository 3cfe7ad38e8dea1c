package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"wsb-analyst/internal/llm"
	"wsb-analyst/internal/logger"
	"wsb-analyst/internal/types"
)

const maxExcerptLen = 500

const systemPrompt = `You are an expert at analyzing Reddit WallStreetBets posts to determine true market sentiment. You understand WSB culture — the memes, the sarcasm, the diamond hands emoji, "to the moon", "apes together strong", loss porn, gain porn, YOLO plays, etc.

Analyze the following WSB posts about %s and determine:

1. Overall sentiment: bullish, bearish, mixed, or neutral
2. Confidence: 0.0 to 1.0 — how confident are you in the sentiment reading?
3. Is this meme hype? Is the enthusiasm based on memes/FOMO or genuine analysis?
4. Is there genuine DD? Are people posting actual due diligence with numbers?
5. Key themes: the main talking points (e.g. earnings, short squeeze, new product, CEO drama)
6. Catalysts: upcoming events mentioned (earnings date, FDA approval, etc.)
7. Summary: 2-3 sentence summary of WSB's take on this stock.

Output your analysis as JSON:
{
  "sentiment": "bullish|bearish|mixed|neutral",
  "confidence": 0.75,
  "is_meme_hype": false,
  "is_genuine_dd": true,
  "key_themes": ["theme1", "theme2"],
  "catalysts": ["catalyst1"],
  "summary": "WSB is..."
}`

// Completer is the one model capability the assisted classifier needs.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Assisted delegates classification to a reasoning model and parses
// whatever comes back, falling to a heuristic verdict when parsing fails.
type Assisted struct {
	model Completer
}

func NewAssisted(model Completer) *Assisted {
	return &Assisted{model: model}
}

// verdictPayload is the JSON shape we ask the model for.
type verdictPayload struct {
	Sentiment   string   `json:"sentiment"`
	Confidence  *float64 `json:"confidence"`
	IsMemeHype  bool     `json:"is_meme_hype"`
	IsGenuineDD bool     `json:"is_genuine_dd"`
	KeyThemes   []string `json:"key_themes"`
	Catalysts   []string `json:"catalysts"`
	Summary     string   `json:"summary"`
}

// Classify sends post excerpts to the model. Malformed or unreachable model
// output degrades to a low-confidence mixed verdict; it never errors out.
func (a *Assisted) Classify(ctx context.Context, ticker string, posts []types.RedditPost) types.SentimentReport {
	if len(posts) == 0 {
		return emptyReport(ticker)
	}

	excerpts := make([]string, 0, len(posts))
	for _, p := range posts {
		excerpts = append(excerpts, fmt.Sprintf(
			"**%s** (score: %d, comments: %d)\n%s",
			p.Title, p.Score, p.NumComments, llm.Truncate(p.Selftext, maxExcerptLen),
		))
	}
	user := fmt.Sprintf(
		"Analyze the sentiment of these %d WSB posts about %s:\n\n%s",
		len(posts), ticker, strings.Join(excerpts, "\n\n---\n\n"),
	)

	raw, err := a.model.Complete(ctx, fmt.Sprintf(systemPrompt, ticker), user)
	if err != nil {
		logger.ErrorWithErr(ctx, "Sentiment model call failed", err, "ticker", ticker)
		return fallbackReport(ticker, len(posts), err.Error())
	}

	obj, ok := llm.ExtractObject(raw)
	if !ok {
		return fallbackReport(ticker, len(posts), raw)
	}
	var payload verdictPayload
	if err := json.Unmarshal([]byte(obj), &payload); err != nil {
		logger.Warn(ctx, "Unparsable sentiment verdict", "ticker", ticker, "error", err)
		return fallbackReport(ticker, len(posts), raw)
	}

	verdict := types.Sentiment(payload.Sentiment)
	switch verdict {
	case types.SentimentBullish, types.SentimentBearish, types.SentimentMixed, types.SentimentNeutral:
	default:
		verdict = types.SentimentNeutral
	}
	confidence := 0.5
	if payload.Confidence != nil {
		confidence = *payload.Confidence
	}
	themes := payload.KeyThemes
	if themes == nil {
		themes = []string{}
	}
	catalysts := payload.Catalysts
	if catalysts == nil {
		catalysts = []string{}
	}

	return types.SentimentReport{
		Ticker:            ticker,
		Sentiment:         verdict,
		Confidence:        confidence,
		IsMemeHype:        payload.IsMemeHype,
		IsGenuineDD:       payload.IsGenuineDD,
		KeyThemes:         themes,
		Catalysts:         catalysts,
		PostCountAnalyzed: len(posts),
		Summary:           payload.Summary,
	}
}

func fallbackReport(ticker string, postCount int, raw string) types.SentimentReport {
	return types.SentimentReport{
		Ticker:            ticker,
		Sentiment:         types.SentimentMixed,
		Confidence:        0.3,
		KeyThemes:         []string{},
		Catalysts:         []string{},
		PostCountAnalyzed: postCount,
		Summary:           llm.Truncate(raw, 300),
	}
}
