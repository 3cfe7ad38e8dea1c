package reddit

import (
	"reflect"
	"testing"
)

func TestExtractTickersDollarPrefix(t *testing.T) {
	got := ExtractTickers("Loaded up on $GME calls and some $F shares")
	want := []string{"GME", "F"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractTickers = %v, want %v", got, want)
	}
}

func TestExtractTickersBareWords(t *testing.T) {
	got := ExtractTickers("NVDA earnings tomorrow, AMD looking weak")
	want := []string{"NVDA", "AMD"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractTickers = %v, want %v", got, want)
	}
}

func TestExtractTickersFiltersCommonWords(t *testing.T) {
	got := ExtractTickers("THE MARKET WILL MOON AND I WILL YOLO MY LAST CALL")
	if len(got) != 0 {
		t.Fatalf("expected no tickers from noise text, got %v", got)
	}
}

func TestExtractTickersExcludedEvenWithDollar(t *testing.T) {
	got := ExtractTickers("$YOLO $DD $TSLA")
	want := []string{"TSLA"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractTickers = %v, want %v", got, want)
	}
}

func TestExtractTickersSingleLetters(t *testing.T) {
	// $F passes as a cashtag, bare F is too short, $A is on the exclusion
	// list despite the prefix.
	got := ExtractTickers("watching $F while F and $A do nothing")
	want := []string{"F"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractTickers = %v, want %v", got, want)
	}
}

func TestExtractTickersDeduplicates(t *testing.T) {
	got := ExtractTickers("$TSLA TSLA tsla $TSLA")
	want := []string{"TSLA"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractTickers = %v, want %v", got, want)
	}
}
