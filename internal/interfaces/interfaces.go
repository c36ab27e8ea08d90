package interfaces

import (
	"context"

	"oracle-trading-bot/internal/types"
)

// IndicatorSource always returns a usable value; a non-nil error means the
// value is the neutral fallback.
type IndicatorSource interface {
	RSI(ctx context.Context, symbol string) (float64, error)
}

type Oracle interface {
	Ask(ctx context.Context, symbol string, rsi float64) (string, error)
}

type Broker interface {
	Account(ctx context.Context) (types.Account, error)
	LatestPrice(ctx context.Context, symbol string) (float64, error)
	Position(ctx context.Context, symbol string) (types.Position, error)
	PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error)
}

type BarSource interface {
	DailyCloses(ctx context.Context, symbol string, n int) ([]float64, error)
}

type Engine interface {
	Step(ctx context.Context, symbol string) (*types.CycleResult, error)
}
