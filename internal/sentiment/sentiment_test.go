package sentiment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"wsb-analyst/internal/types"
)

func post(title, body string, score int) types.RedditPost {
	return types.RedditPost{Title: title, Selftext: body, Score: score}
}

func TestHeuristicEmptyPosts(t *testing.T) {
	rep := NewHeuristic().Classify(context.Background(), "GME", nil)
	if rep.Sentiment != types.SentimentNeutral {
		t.Errorf("sentiment = %q, want neutral", rep.Sentiment)
	}
	if rep.Confidence != 0.0 {
		t.Errorf("confidence = %v, want 0", rep.Confidence)
	}
	if rep.PostCountAnalyzed != 0 {
		t.Errorf("post count = %d, want 0", rep.PostCountAnalyzed)
	}
}

func TestHeuristicBullishDominance(t *testing.T) {
	posts := []types.RedditPost{
		post("GME to the moon", "buy calls now, rocket incoming", 500),
		post("huge gain posted", "long and strong, breakout soon", 200),
	}
	rep := NewHeuristic().Classify(context.Background(), "GME", posts)
	if rep.Sentiment != types.SentimentBullish {
		t.Errorf("sentiment = %q, want bullish", rep.Sentiment)
	}
	if rep.Confidence <= 0 || rep.Confidence > 0.8 {
		t.Errorf("confidence = %v, want (0, 0.8]", rep.Confidence)
	}
	if rep.PostCountAnalyzed != 2 {
		t.Errorf("post count = %d, want 2", rep.PostCountAnalyzed)
	}
}

func TestHeuristicBearish(t *testing.T) {
	posts := []types.RedditPost{
		post("this is going to crash", "puts printing, total dump, overvalued scam", 100),
		post("bag holding again", "red everywhere, dead company", 50),
	}
	rep := NewHeuristic().Classify(context.Background(), "JUNK", posts)
	if rep.Sentiment != types.SentimentBearish {
		t.Errorf("sentiment = %q, want bearish", rep.Sentiment)
	}
}

func TestHeuristicNeutralWhenNoLexiconHits(t *testing.T) {
	posts := []types.RedditPost{post("interesting company", "nothing notable here", 10)}
	rep := NewHeuristic().Classify(context.Background(), "ACME", posts)
	if rep.Sentiment != types.SentimentNeutral {
		t.Errorf("sentiment = %q, want neutral", rep.Sentiment)
	}
	if rep.Confidence != 0.2 {
		t.Errorf("confidence = %v, want 0.2", rep.Confidence)
	}
}

func TestHeuristicMemeHypeWithoutDD(t *testing.T) {
	posts := []types.RedditPost{
		post("rocket to the moon", "apes together, diamond hands, tendies for all", 1000),
	}
	rep := NewHeuristic().Classify(context.Background(), "MEME", posts)
	if !rep.IsMemeHype {
		t.Error("three or more meme words should flag meme hype")
	}
	if rep.IsGenuineDD {
		t.Error("no DD signals present, should not flag genuine DD")
	}
}

func TestHeuristicGenuineDD(t *testing.T) {
	posts := []types.RedditPost{
		post("deep dive", "revenue grew 40% and the balance sheet is clean; full valuation analysis inside", 300),
	}
	rep := NewHeuristic().Classify(context.Background(), "SOLID", posts)
	if !rep.IsGenuineDD {
		t.Error("two or more DD signals should flag genuine DD")
	}
}

func TestHeuristicWordCountedOncePerPost(t *testing.T) {
	// "moon moon moon" is one distinct bull hit, not three. A single repeated
	// word cannot outvote a post with two distinct bear words.
	posts := []types.RedditPost{
		post("moon moon moon", "moon moon", 10),
		post("crash", "dump", 10),
	}
	rep := NewHeuristic().Classify(context.Background(), "TIED", posts)
	if rep.Sentiment == types.SentimentBullish {
		t.Errorf("repeated word should not dominate, got %q", rep.Sentiment)
	}
}

type fakeCompleter struct {
	out string
	err error
}

func (f *fakeCompleter) Complete(context.Context, string, string) (string, error) {
	return f.out, f.err
}

func TestAssistedParsesWrappedJSON(t *testing.T) {
	model := &fakeCompleter{out: "Here's my take:\n```json\n" +
		`{"sentiment":"bullish","confidence":0.7,"is_meme_hype":true,"is_genuine_dd":false,"key_themes":["squeeze"],"catalysts":["earnings"],"summary":"WSB is euphoric."}` +
		"\n```"}
	rep := NewAssisted(model).Classify(context.Background(), "GME", []types.RedditPost{post("a", "b", 1)})
	if rep.Sentiment != types.SentimentBullish {
		t.Errorf("sentiment = %q, want bullish", rep.Sentiment)
	}
	if rep.Confidence != 0.7 {
		t.Errorf("confidence = %v, want 0.7", rep.Confidence)
	}
	if !rep.IsMemeHype || rep.IsGenuineDD {
		t.Error("flags not carried through")
	}
	if len(rep.KeyThemes) != 1 || rep.KeyThemes[0] != "squeeze" {
		t.Errorf("key themes = %v", rep.KeyThemes)
	}
	if rep.PostCountAnalyzed != 1 {
		t.Errorf("post count = %d, want 1", rep.PostCountAnalyzed)
	}
}

func TestAssistedFallbackOnGarbage(t *testing.T) {
	raw := "I couldn't really tell what the subreddit thinks about this one."
	model := &fakeCompleter{out: raw}
	rep := NewAssisted(model).Classify(context.Background(), "GME", []types.RedditPost{post("a", "b", 1)})
	if rep.Sentiment != types.SentimentMixed {
		t.Errorf("sentiment = %q, want mixed fallback", rep.Sentiment)
	}
	if rep.Confidence != 0.3 {
		t.Errorf("confidence = %v, want 0.3", rep.Confidence)
	}
	if !strings.HasPrefix(raw, rep.Summary) && rep.Summary != raw {
		t.Errorf("summary should be the truncated raw text, got %q", rep.Summary)
	}
}

func TestAssistedFallbackOnModelError(t *testing.T) {
	model := &fakeCompleter{err: errors.New("boom")}
	rep := NewAssisted(model).Classify(context.Background(), "GME", []types.RedditPost{post("a", "b", 1)})
	if rep.Sentiment != types.SentimentMixed || rep.Confidence != 0.3 {
		t.Errorf("model error should degrade to mixed/0.3, got %q/%v", rep.Sentiment, rep.Confidence)
	}
}

func TestAssistedEmptyPosts(t *testing.T) {
	rep := NewAssisted(&fakeCompleter{}).Classify(context.Background(), "GME", nil)
	if rep.Sentiment != types.SentimentNeutral || rep.Confidence != 0 {
		t.Errorf("empty posts should be neutral/0, got %q/%v", rep.Sentiment, rep.Confidence)
	}
}
