package indicatorobs

import (
	"context"

	"oracle-trading-bot/internal/interfaces"
	"oracle-trading-bot/internal/logger"
	"oracle-trading-bot/internal/metrics"
	"oracle-trading-bot/internal/trace"
)

// observableSource wraps an IndicatorSource with logging, tracing and the
// fallback counter
type observableSource struct {
	source interfaces.IndicatorSource
}

var _ interfaces.IndicatorSource = (*observableSource)(nil)

func Wrap(source interfaces.IndicatorSource) interfaces.IndicatorSource {
	return &observableSource{source: source}
}

func (s *observableSource) RSI(ctx context.Context, symbol string) (float64, error) {
	ctx, span := trace.StartSpan(ctx, "indicator.RSI")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching RSI", "symbol", symbol)

	v, err := s.source.RSI(ctx, symbol)
	if err != nil {
		metrics.IndicatorFallbacksTotal.WithLabelValues(symbol).Inc()
		logger.WarnSkip(ctx, 1, "RSI unavailable, using neutral value",
			"symbol", symbol,
			"rsi", v,
			"error", err,
		)
		return v, err
	}

	logger.InfoSkip(ctx, 1, "RSI fetched", "symbol", symbol, "rsi", v)
	return v, nil
}
