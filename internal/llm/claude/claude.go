// Package claude is a thin HTTP client for the Anthropic messages API,
// covering the two shapes the orchestrator needs: plain completions and
// tool-calling turns.
package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"wsb-analyst/internal/logger"
)

const (
	defaultEndpoint = "https://api.anthropic.com/v1/messages"
	apiVersion      = "2023-06-01"

	StopToolUse = "tool_use"
	StopEndTurn = "end_turn"
)

// Tool describes one callable tool in the request payload.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// ContentBlock is one element of a message's content array. The Type field
// decides which of the remaining fields are meaningful.
type ContentBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   string          `json:"content,omitempty"`
}

func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: "text", Text: text}
}

func ToolResultBlock(toolUseID, result string) ContentBlock {
	return ContentBlock{Type: "tool_result", ToolUseID: toolUseID, Content: result}
}

type Message struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

// Request is a messages API call. Tools and System are optional.
type Request struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Tools     []Tool    `json:"tools,omitempty"`
	Messages  []Message `json:"messages"`
}

type Response struct {
	StopReason string         `json:"stop_reason"`
	Content    []ContentBlock `json:"content"`
}

// Text concatenates the text blocks of a response.
func (r *Response) Text() string {
	var b strings.Builder
	for _, block := range r.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String()
}

// ToolUses returns the tool invocation blocks of a response.
func (r *Response) ToolUses() []ContentBlock {
	var uses []ContentBlock
	for _, block := range r.Content {
		if block.Type == "tool_use" {
			uses = append(uses, block)
		}
	}
	return uses
}

type Client struct {
	endpoint   string
	apiKey     string
	model      string
	maxTokens  int
	httpClient *http.Client
}

// New builds a client for the given model. The endpoint can be pointed at a
// proxy via the CLAUDE_API_ENDPOINT env var.
func New(apiKey, model string, maxTokens int) *Client {
	endpoint := defaultEndpoint
	if ep := os.Getenv("CLAUDE_API_ENDPOINT"); ep != "" {
		endpoint = ep
	}
	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		model:      model,
		maxTokens:  maxTokens,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// Create posts one messages request and decodes the response.
func (c *Client) Create(ctx context.Context, req Request) (*Response, error) {
	ctx, span := logger.StartSpan(ctx, "claude-api-call")
	defer span.End()

	if c.apiKey == "" {
		return nil, errors.New("anthropic api key missing")
	}
	if req.Model == "" {
		req.Model = c.model
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = c.maxTokens
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("claude http %d: %s", resp.StatusCode, string(respBody))
	}

	var out Response
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("decode claude response: %w", err)
	}
	return &out, nil
}

// Complete runs a single-turn exchange and returns the response text.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.Create(ctx, Request{
		System:   system,
		Messages: []Message{{Role: "user", Content: []ContentBlock{TextBlock(user)}}},
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// Probe makes the cheapest possible call to check the API is reachable and
// the key has credit.
func (c *Client) Probe(ctx context.Context) error {
	_, err := c.Create(ctx, Request{
		MaxTokens: 10,
		Messages:  []Message{{Role: "user", Content: []ContentBlock{TextBlock("hi")}}},
	})
	return err
}
