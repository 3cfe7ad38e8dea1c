package reddit

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/tidwall/gjson"

	"wsb-analyst/internal/logger"
	"wsb-analyst/internal/quant"
	"wsb-analyst/internal/types"
)

const (
	// Reddit blocks default client UAs with 429s, so present as a browser.
	browserUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	maxTrendingTickers = 20
	maxSamplePosts     = 5
	trendingExcerptLen = 500
	tickerExcerptLen   = 1000
)

// Scraper reads subreddit listings through Reddit's public JSON feeds.
// No API credentials required.
type Scraper struct {
	baseURL   string
	subreddit string
	collector *colly.Collector
}

func NewScraper(subreddit string, pacing time.Duration) (*Scraper, error) {
	c := colly.NewCollector(
		colly.UserAgent(browserUA),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(15 * time.Second)
	if err := c.Limit(&colly.LimitRule{
		DomainGlob: "*reddit.com*",
		Delay:      pacing,
	}); err != nil {
		return nil, fmt.Errorf("reddit rate limit rule: %w", err)
	}
	return &Scraper{
		baseURL:   "https://www.reddit.com",
		subreddit: subreddit,
		collector: c,
	}, nil
}

// fetchListing pulls one listing endpoint and returns the raw post objects,
// with stickied posts dropped.
func (s *Scraper) fetchListing(ctx context.Context, listingURL string) ([]gjson.Result, error) {
	var (
		body     []byte
		fetchErr error
	)
	c := s.collector.Clone()
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "application/json")
	})
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("reddit fetch %s: %w", listingURL, err)
	})

	if err := c.Visit(listingURL); err != nil {
		return nil, fmt.Errorf("reddit visit %s: %w", listingURL, err)
	}
	c.Wait()
	if fetchErr != nil {
		return nil, fetchErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var posts []gjson.Result
	for _, child := range gjson.GetBytes(body, "data.children").Array() {
		post := child.Get("data")
		if post.Get("stickied").Bool() {
			continue
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func postFromJSON(post gjson.Result, excerptLen int) types.RedditPost {
	selftext := post.Get("selftext").String()
	if len(selftext) > excerptLen {
		selftext = selftext[:excerptLen]
	}
	return types.RedditPost{
		PostID:      post.Get("id").String(),
		Title:       post.Get("title").String(),
		Selftext:    selftext,
		Score:       int(post.Get("score").Int()),
		NumComments: int(post.Get("num_comments").Int()),
		UpvoteRatio: post.Get("upvote_ratio").Float(),
		CreatedUTC:  post.Get("created_utc").Float(),
		URL:         "https://reddit.com" + post.Get("permalink").String(),
		Flair:       post.Get("link_flair_text").String(),
	}
}

type mentionAccumulator struct {
	count    int
	score    int
	comments int
	posts    []types.RedditPost
}

// Trending scrapes the subreddit's hot and top listings and ranks the
// extracted tickers by a weighted blend of mention count and engagement.
func (s *Scraper) Trending(ctx context.Context, timeFilter string, limit int) ([]types.TickerMention, error) {
	hotURL := fmt.Sprintf("%s/r/%s/hot.json?limit=%d", s.baseURL, s.subreddit, limit)
	topURL := fmt.Sprintf("%s/r/%s/top.json?t=%s&limit=%d",
		s.baseURL, s.subreddit, url.QueryEscape(timeFilter), limit)

	hotPosts, err := s.fetchListing(ctx, hotURL)
	if err != nil {
		return nil, err
	}
	topPosts, err := s.fetchListing(ctx, topURL)
	if err != nil {
		// Hot alone is still a usable sample.
		logger.Warn(ctx, "reddit top listing failed, continuing with hot only", "error", err)
		topPosts = nil
	}

	seenIDs := make(map[string]struct{})
	var all []gjson.Result
	for _, post := range append(hotPosts, topPosts...) {
		id := post.Get("id").String()
		if id == "" {
			continue
		}
		if _, dup := seenIDs[id]; dup {
			continue
		}
		seenIDs[id] = struct{}{}
		all = append(all, post)
	}
	logger.Info(ctx, "fetched subreddit posts", "subreddit", s.subreddit, "posts", len(all))

	mentions := make(map[string]*mentionAccumulator)
	var order []string
	for _, post := range all {
		text := post.Get("title").String() + " " + post.Get("selftext").String()
		tickers := ExtractTickers(text)
		if len(tickers) == 0 {
			continue
		}
		rp := postFromJSON(post, trendingExcerptLen)
		for _, ticker := range tickers {
			acc, ok := mentions[ticker]
			if !ok {
				acc = &mentionAccumulator{}
				mentions[ticker] = acc
				order = append(order, ticker)
			}
			acc.count++
			acc.score += rp.Score
			acc.comments += rp.NumComments
			if len(acc.posts) < maxSamplePosts {
				acc.posts = append(acc.posts, rp)
			}
		}
	}

	results := make([]types.TickerMention, 0, len(mentions))
	for _, ticker := range order {
		acc := mentions[ticker]
		weighted := float64(acc.count)*3 + float64(acc.score)*0.01 + float64(acc.comments)*0.05
		results = append(results, types.TickerMention{
			Ticker:        ticker,
			MentionCount:  acc.count,
			TotalScore:    acc.score,
			TotalComments: acc.comments,
			WeightedScore: quant.Round(weighted, 2),
			SamplePosts:   acc.posts,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].WeightedScore > results[j].WeightedScore
	})
	if len(results) > maxTrendingTickers {
		results = results[:maxTrendingTickers]
	}
	return results, nil
}

// Posts searches the subreddit for recent posts that actually mention the
// ticker. Search hits that merely contain the letters are filtered back out
// through the same extraction rules used for trending.
func (s *Scraper) Posts(ctx context.Context, ticker string, limit int) ([]types.RedditPost, error) {
	searchURL := fmt.Sprintf(
		"%s/r/%s/search.json?q=%s&restrict_sr=on&sort=relevance&t=week&limit=%d",
		s.baseURL, s.subreddit, url.QueryEscape(ticker), limit)

	raw, err := s.fetchListing(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	var posts []types.RedditPost
	for _, post := range raw {
		text := post.Get("title").String() + " " + post.Get("selftext").String()
		if !containsTicker(ExtractTickers(text), ticker) {
			continue
		}
		posts = append(posts, postFromJSON(post, tickerExcerptLen))
	}
	return posts, nil
}

func containsTicker(tickers []string, ticker string) bool {
	for _, t := range tickers {
		if t == ticker {
			return true
		}
	}
	return false
}
