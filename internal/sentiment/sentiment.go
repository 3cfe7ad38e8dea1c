// Package sentiment turns a pile of subreddit posts into a verdict. Two
// interchangeable classifiers exist: a keyword heuristic that works offline
// and a model-assisted one. Both always return a usable report.
package sentiment

import (
	"context"

	"wsb-analyst/internal/types"
)

// Classifier is the single capability both strategies implement. The
// orchestrator picks one at run start based on model availability.
type Classifier interface {
	Classify(ctx context.Context, ticker string, posts []types.RedditPost) types.SentimentReport
}

func emptyReport(ticker string) types.SentimentReport {
	return types.SentimentReport{
		Ticker:     ticker,
		Sentiment:  types.SentimentNeutral,
		Confidence: 0.0,
		KeyThemes:  []string{},
		Catalysts:  []string{},
		Summary:    "No recent WSB posts found for " + ticker,
	}
}
