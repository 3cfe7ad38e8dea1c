package llm

import "testing"

func TestExtractObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`, true},
		{"prose around object", "Sure! Here it is:\n{\"a\": 1}\nHope that helps.", `{"a": 1}`, true},
		{"nested braces", `intro {"a": {"b": 2}} outro`, `{"a": {"b": 2}}`, true},
		{"no object", "nothing to see here", "", false},
		{"only open brace", "broken {", "", false},
		{"close before open", "} {", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractObject(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("ExtractObject(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello", 10); got != "hello" {
		t.Errorf("short string should pass through, got %q", got)
	}
	if got := Truncate("hello world", 5); got != "hello" {
		t.Errorf("Truncate = %q, want %q", got, "hello")
	}
}
