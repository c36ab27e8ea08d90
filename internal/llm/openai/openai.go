package openai

import (
	"context"
	"errors"
	"strings"

	"oracle-trading-bot/internal/api"
	"oracle-trading-bot/internal/interfaces"
	"oracle-trading-bot/internal/llm"
	"oracle-trading-bot/internal/trace"
)

const DefaultEndpoint = "https://api.openai.com/v1/chat/completions"

type OpenAIOracle struct {
	model  string
	apiKey string
	http   *api.Client
}

var _ interfaces.Oracle = (*OpenAIOracle)(nil)

func NewOpenAIOracle(model, apiKey, endpoint string, opts ...api.ClientOption) *OpenAIOracle {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	opts = append([]api.ClientOption{
		api.WithBaseURL(endpoint),
		api.WithHeader("Authorization", "Bearer "+apiKey),
	}, opts...)
	return &OpenAIOracle{model: model, apiKey: apiKey, http: api.NewClient(opts...)}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

// Ask sends one user message at temperature 0 and returns the raw reply.
func (o *OpenAIOracle) Ask(ctx context.Context, symbol string, rsi float64) (string, error) {
	ctx, span := trace.StartSpan(ctx, "openai-api-call")
	defer span.End()

	if o.apiKey == "" {
		return "", errors.New("OPENAI_API_KEY missing")
	}

	body := chatRequest{
		Model:       o.model,
		Messages:    []chatMessage{{Role: "user", Content: llm.BuildPrompt(symbol, rsi)}},
		Temperature: 0,
	}
	resp, err := o.http.POST(ctx, "", body)
	if err != nil {
		return "", err
	}

	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := resp.ParseJSON(&r); err != nil {
		return "", err
	}
	if len(r.Choices) == 0 {
		return "", errors.New("no choices")
	}

	return strings.TrimSpace(r.Choices[0].Message.Content), nil
}
