package noop

import (
	"context"

	"oracle-trading-bot/internal/interfaces"
	"oracle-trading-bot/internal/logger"
)

// NoopOracle is used when no LLM provider is configured. Its answer never
// contains a trading keyword, so every cycle ends with no action.
type NoopOracle struct{}

var _ interfaces.Oracle = (*NoopOracle)(nil)

func NewNoopOracle() *NoopOracle {
	return &NoopOracle{}
}

func (o *NoopOracle) Ask(ctx context.Context, symbol string, rsi float64) (string, error) {
	logger.Debug(ctx, "Noop oracle called - always holds", "symbol", symbol, "rsi", rsi)
	return "hold", nil
}
