package claude

import (
	"context"
	"errors"
	"strings"

	"oracle-trading-bot/internal/api"
	"oracle-trading-bot/internal/interfaces"
	"oracle-trading-bot/internal/llm"
	"oracle-trading-bot/internal/trace"
)

const (
	DefaultEndpoint = "https://api.anthropic.com/v1/messages"
	apiVersion      = "2023-06-01"
	maxTokens       = 512
)

// ClaudeOracle asks the Anthropic Messages API for a trading opinion
type ClaudeOracle struct {
	model  string
	apiKey string
	http   *api.Client
}

var _ interfaces.Oracle = (*ClaudeOracle)(nil)

func NewClaudeOracle(model, apiKey, endpoint string, opts ...api.ClientOption) *ClaudeOracle {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	opts = append([]api.ClientOption{
		api.WithBaseURL(endpoint),
		api.WithHeader("x-api-key", apiKey),
		api.WithHeader("anthropic-version", apiVersion),
	}, opts...)
	return &ClaudeOracle{model: model, apiKey: apiKey, http: api.NewClient(opts...)}
}

// Ask makes a single-turn, temperature 0 request and joins the text blocks of the reply
func (c *ClaudeOracle) Ask(ctx context.Context, symbol string, rsi float64) (string, error) {
	ctx, span := trace.StartSpan(ctx, "claude-api-call")
	defer span.End()

	if c.apiKey == "" {
		return "", errors.New("CLAUDE_API_KEY missing")
	}

	reqBody := map[string]any{
		"model":       c.model,
		"max_tokens":  maxTokens,
		"temperature": 0,
		"messages": []map[string]string{
			{"role": "user", "content": llm.BuildPrompt(symbol, rsi)},
		},
	}
	resp, err := c.http.POST(ctx, "", reqBody)
	if err != nil {
		return "", err
	}

	var r struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := resp.ParseJSON(&r); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range r.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", errors.New("claude response has no text content")
	}
	return out, nil
}
