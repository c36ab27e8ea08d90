package taapi

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"

	"oracle-trading-bot/internal/api"
	"oracle-trading-bot/internal/interfaces"
	"oracle-trading-bot/internal/trace"
	"oracle-trading-bot/internal/types"
)

// Client reads the daily RSI of a stock from a taapi.io-style endpoint.
type Client struct {
	endpoint string
	secret   string
	http     *api.Client
}

var _ interfaces.IndicatorSource = (*Client)(nil)

func NewClient(endpoint, secret string, opts ...api.ClientOption) *Client {
	return &Client{
		endpoint: endpoint,
		secret:   secret,
		http:     api.NewClient(append([]api.ClientOption{api.WithBaseURL(endpoint)}, opts...)...),
	}
}

// RSI issues exactly one request. Any failure yields types.NeutralRSI together
// with the cause, so callers can always use the returned value.
func (c *Client) RSI(ctx context.Context, symbol string) (float64, error) {
	ctx, span := trace.StartSpan(ctx, "taapi-api-call")
	defer span.End()

	q := url.Values{
		"secret":   {c.secret},
		"type":     {"stocks"},
		"symbol":   {symbol},
		"interval": {"1d"},
	}
	resp, err := c.http.GET(ctx, "", q)
	if err != nil {
		return types.NeutralRSI, err
	}

	var body struct {
		Value *float64 `json:"value"`
	}
	if err := resp.ParseJSON(&body); err != nil {
		return types.NeutralRSI, err
	}
	if body.Value == nil {
		return types.NeutralRSI, errors.New("taapi response has no value field")
	}

	v := *body.Value
	if math.IsNaN(v) || v < 0 || v > 100 {
		return types.NeutralRSI, fmt.Errorf("taapi value %v outside [0,100]", v)
	}
	return v, nil
}
