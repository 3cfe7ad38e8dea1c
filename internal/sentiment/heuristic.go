package sentiment

import (
	"context"
	"fmt"
	"strings"

	"wsb-analyst/internal/quant"
	"wsb-analyst/internal/types"
)

var bullishWords = wordSet(
	"moon", "rocket", "buy", "calls", "bull", "long", "undervalued",
	"squeeze", "green", "tendies", "gain", "up", "rip", "breakout",
	"diamond", "hands", "apes", "strong",
)

var bearishWords = wordSet(
	"puts", "short", "bear", "sell", "crash", "dump", "overvalued",
	"red", "loss", "down", "rip", "drill", "dead", "bag", "holding",
	"fucked", "worthless", "scam",
)

// Meme-hype markers, matched as substrings of the combined text.
var memeWords = []string{
	"moon", "rocket", "apes", "yolo", "diamond", "hands", "tendies", "squeeze",
}

// Due-diligence markers: someone actually talking about the business.
var ddSignals = []string{
	"revenue", "earnings", "p/e", "growth", "margin", "valuation",
	"balance sheet", "cash flow", "dcf", "analysis",
}

func wordSet(words ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

// Heuristic is the offline keyword classifier.
type Heuristic struct{}

func NewHeuristic() *Heuristic { return &Heuristic{} }

// Classify counts lexicon hits per post (each distinct word once per post)
// and derives the verdict from the bull/bear balance.
func (h *Heuristic) Classify(_ context.Context, ticker string, posts []types.RedditPost) types.SentimentReport {
	if len(posts) == 0 {
		return emptyReport(ticker)
	}

	bullCount, bearCount, totalScore := 0, 0, 0
	var combined strings.Builder
	for _, post := range posts {
		text := strings.ToLower(post.Title + " " + post.Selftext)
		combined.WriteString(text)
		combined.WriteString(" ")

		seen := make(map[string]struct{})
		for _, w := range strings.Fields(text) {
			if _, dup := seen[w]; dup {
				continue
			}
			seen[w] = struct{}{}
			if _, ok := bullishWords[w]; ok {
				bullCount++
			}
			if _, ok := bearishWords[w]; ok {
				bearCount++
			}
		}
		totalScore += post.Score
	}

	verdict := types.SentimentNeutral
	confidence := 0.2
	total := bullCount + bearCount
	switch {
	case total == 0:
		// stays neutral
	case float64(bullCount) > float64(bearCount)*1.5:
		verdict = types.SentimentBullish
		confidence = min(0.8, float64(bullCount)/float64(total))
	case float64(bearCount) > float64(bullCount)*1.5:
		verdict = types.SentimentBearish
		confidence = min(0.8, float64(bearCount)/float64(total))
	default:
		verdict = types.SentimentMixed
		confidence = 0.4
	}

	allText := combined.String()
	memeCount := 0
	for _, w := range memeWords {
		if strings.Contains(allText, w) {
			memeCount++
		}
	}
	isMeme := memeCount >= 3

	ddCount := 0
	for _, w := range ddSignals {
		if strings.Contains(allText, w) {
			ddCount++
		}
	}
	isDD := ddCount >= 2

	flavor := "mixed discussion"
	if isMeme {
		flavor = "mostly meme hype"
	} else if isDD {
		flavor = "some DD present"
	}

	return types.SentimentReport{
		Ticker:            ticker,
		Sentiment:         verdict,
		Confidence:        quant.Round(confidence, 2),
		IsMemeHype:        isMeme,
		IsGenuineDD:       isDD,
		KeyThemes:         []string{},
		Catalysts:         []string{},
		PostCountAnalyzed: len(posts),
		Summary: fmt.Sprintf(
			"WSB mentions: %d posts, avg score %d. Keyword sentiment: %s (%s).",
			len(posts), totalScore/len(posts), verdict, flavor,
		),
	}
}
