package reddit

import "regexp"

// Common words that look like tickers but aren't. Hand-maintained; the real
// safety net is that tickers with no resolvable market data get dropped
// downstream.
var falsePositives = map[string]struct{}{}

func init() {
	words := []string{
		"I", "A", "AM", "AN", "AT", "BE", "BY", "DO", "GO", "IF", "IN", "IS",
		"IT", "ME", "MY", "NO", "OF", "OK", "ON", "OR", "SO", "TO", "UP", "US",
		"WE", "CEO", "CFO", "CTO", "COO", "IPO", "ETF", "SEC", "FDA", "FED",
		"GDP", "ATH", "DD", "DFV", "EPS", "EOD", "ERR", "EST", "FOR", "FYI",
		"GG", "HQ", "IMO", "LOL", "NYC", "OTC", "PDT", "PE", "PM", "PT",
		"RH", "SP", "TD", "UK", "USA", "WSB", "YOLO", "FOMO", "HODL", "MOON",
		"APE", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC",
		"JAN", "FEB", "MAR", "MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN",
		"THE", "AND", "BUT", "NOT", "ALL", "ANY", "ARE", "CAN", "DAY", "DID",
		"GET", "GOT", "HAS", "HAD", "HER", "HIM", "HIS", "HOW", "ITS", "LET",
		"MAD", "MAN", "MEN", "NEW", "NOW", "OLD", "ONE", "OUR", "OUT", "OWN",
		"PUT", "RAN", "RED", "RUN", "SAW", "SAY", "SHE", "TOO", "TOP",
		"TRY", "TWO", "WAR", "WAS", "WAY", "WHO", "WHY", "WIN", "WON", "YET",
		"YOU", "BIG", "LOW", "HIGH", "CALL", "PUTS", "LONG", "SHORT", "BULL",
		"BEAR", "HOLD", "SELL", "BUY", "GAIN", "LOSS", "PUMP", "DUMP", "CASH",
		"DEBT", "RISK", "SAFE", "EDIT", "TLDR", "OP", "LMAO", "ROPE", "RIP",
		"BANG", "OG", "AI", "EV", "GOOD", "BAD", "BEST", "LIKE", "JUST", "EVEN",
		"OVER", "MOST", "MUCH", "NEXT", "ONLY", "VERY", "WELL", "ALSO", "BACK",
		"BEEN", "COME", "DOWN", "EACH", "FIND", "GIVE", "HAVE", "HERE", "KEEP",
		"LAST", "LOOK", "MADE", "MAKE", "MANY", "MORE", "MOVE", "MUST", "NAME",
		"NEED", "OPEN", "PART", "PLAY", "REAL", "SAID", "SAME", "SOME", "SURE",
		"TAKE", "TELL", "THAN", "THAT", "THEM", "THEN", "THEY", "THIS", "TIME",
		"TURN", "WANT", "WEEK", "WENT", "WERE", "WHAT", "WHEN", "WILL", "WITH",
		"WORK", "YEAR", "YOUR", "FREE", "HUGE", "HARD", "ZERO", "LMFAO",
		"COST", "FROM", "DOES", "DONE", "FULL", "HALF", "HELP", "HOME", "INTO",
		"LEFT", "LESS", "LIFE", "LINE", "LIST", "LIVE", "LOST", "MARK",
		"MISS", "OWE", "PAYS", "POST", "REST", "RICH", "RISE", "SAVE", "SIDE",
		"SIZE", "STOP", "TALK", "TERM", "TILL", "TRUE", "TYPE", "USED",
		"WAIT", "WAKE", "WALL", "WISH", "WORD", "YALL", "HOLY", "SHIT",
	}
	for _, w := range words {
		falsePositives[w] = struct{}{}
	}
}

var (
	// $TICKER mentions are high confidence and allow single letters.
	dollarTickerRe = regexp.MustCompile(`\$([A-Z]{1,5})\b`)
	// Bare uppercase words need 2+ chars and the exclusion list.
	bareTickerRe = regexp.MustCompile(`\b([A-Z]{2,5})\b`)
)

// ExtractTickers pulls likely stock symbols out of free text, in order of
// first appearance.
func ExtractTickers(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(sym string) {
		if _, excluded := falsePositives[sym]; excluded {
			return
		}
		if _, dup := seen[sym]; dup {
			return
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}

	for _, m := range dollarTickerRe.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range bareTickerRe.FindAllStringSubmatch(text, -1) {
		if len(m[1]) >= 2 {
			add(m[1])
		}
	}
	return out
}
