package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`
	Reddit struct {
		Subreddit      string `yaml:"subreddit"`
		TimeFilter     string `yaml:"time_filter"`
		ScanLimit      int    `yaml:"scan_limit"`
		PostsPerTicker int    `yaml:"posts_per_ticker"`
		PacingSeconds  int    `yaml:"pacing_seconds"`
	} `yaml:"reddit"`
	Market struct {
		Period    string `yaml:"period"`
		Benchmark string `yaml:"benchmark"`
	} `yaml:"market"`
	Analysis struct {
		TopTickers int `yaml:"top_tickers"`
		Workers    int `yaml:"workers"`
	} `yaml:"analysis"`
	LLM struct {
		Model         string `yaml:"model"`
		MaxTokens     int    `yaml:"max_tokens"`
		MaxIterations int    `yaml:"max_iterations"`
		APIKeyEnv     string `yaml:"api_key_env"`
	} `yaml:"llm"`
}

func (c *Config) Validate() error {
	if c.Analysis.TopTickers <= 0 {
		return fmt.Errorf("analysis.top_tickers must be positive, got %d", c.Analysis.TopTickers)
	}
	if c.Analysis.Workers <= 0 {
		return fmt.Errorf("analysis.workers must be positive, got %d", c.Analysis.Workers)
	}
	if c.LLM.MaxIterations <= 0 {
		return fmt.Errorf("llm.max_iterations must be positive, got %d", c.LLM.MaxIterations)
	}
	switch c.Reddit.TimeFilter {
	case "hour", "day", "week":
	default:
		return fmt.Errorf("reddit.time_filter must be 'hour', 'day' or 'week', got %q", c.Reddit.TimeFilter)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

// DefaultConfig returns a config with every default applied; tests and the
// single-ticker CLI path use it directly.
func DefaultConfig() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Reddit.Subreddit == "" {
		c.Reddit.Subreddit = "wallstreetbets"
	}
	if c.Reddit.TimeFilter == "" {
		c.Reddit.TimeFilter = "day"
	}
	if c.Reddit.ScanLimit == 0 {
		c.Reddit.ScanLimit = 100
	}
	if c.Reddit.PostsPerTicker == 0 {
		c.Reddit.PostsPerTicker = 15
	}
	if c.Reddit.PacingSeconds == 0 {
		c.Reddit.PacingSeconds = 1
	}
	if c.Market.Period == "" {
		c.Market.Period = "1y"
	}
	if c.Market.Benchmark == "" {
		c.Market.Benchmark = "SPY"
	}
	if c.Analysis.TopTickers == 0 {
		c.Analysis.TopTickers = 8
	}
	if c.Analysis.Workers == 0 {
		c.Analysis.Workers = 2
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "claude-sonnet-4-5-20250929"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 4096
	}
	if c.LLM.MaxIterations == 0 {
		c.LLM.MaxIterations = 30
	}
	if c.LLM.APIKeyEnv == "" {
		c.LLM.APIKeyEnv = "ANTHROPIC_API_KEY"
	}
}
