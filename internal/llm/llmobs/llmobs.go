package llmobs

import (
	"context"

	"oracle-trading-bot/internal/interfaces"
	"oracle-trading-bot/internal/logger"
	"oracle-trading-bot/internal/trace"
)

// observableOracle wraps an Oracle with observability (logging & tracing)
type observableOracle struct {
	oracle interfaces.Oracle
}

// Compile-time interface check
var _ interfaces.Oracle = (*observableOracle)(nil)

// Wrap wraps an oracle with observability middleware
func Wrap(oracle interfaces.Oracle) interfaces.Oracle {
	return &observableOracle{oracle: oracle}
}

// Ask queries the oracle with observability
func (oo *observableOracle) Ask(ctx context.Context, symbol string, rsi float64) (string, error) {
	ctx, span := trace.StartSpan(ctx, "llm.Ask")
	defer span.End()

	// Skip one frame so the caller, not this wrapper, is reported
	logger.DebugSkip(ctx, 1, "Requesting oracle opinion", "symbol", symbol, "rsi", rsi)

	opinion, err := oo.oracle.Ask(ctx, symbol, rsi)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Oracle request failed", err, "symbol", symbol, "rsi", rsi)
		return "", err
	}

	logger.InfoSkip(ctx, 1, "Oracle opinion received", "symbol", symbol, "opinion", opinion)
	return opinion, nil
}
