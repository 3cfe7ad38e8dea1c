// Package interfaces defines the collaborator contracts the orchestrator
// consumes, so tests can swap in fakes without touching process state.
package interfaces

import (
	"context"

	"wsb-analyst/internal/types"
)

// TrendingSource lists the most-mentioned tickers, ranked descending by
// weighted score.
type TrendingSource interface {
	Trending(ctx context.Context, timeFilter string, limit int) ([]types.TickerMention, error)
}

// PostsSource returns recent posts mentioning a specific ticker.
type PostsSource interface {
	Posts(ctx context.Context, ticker string, limit int) ([]types.RedditPost, error)
}
