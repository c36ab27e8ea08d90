package engine

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"oracle-trading-bot/internal/interfaces"
	"oracle-trading-bot/internal/logger"
	"oracle-trading-bot/internal/types"
)

// portfolioAccessor reads account state fresh from the broker on every call.
type portfolioAccessor struct {
	broker interfaces.Broker
}

func newPortfolioAccessor(broker interfaces.Broker) *portfolioAccessor {
	return &portfolioAccessor{broker: broker}
}

// equity never fails: an unreadable account counts as zero equity, which
// sizes every buy to zero shares.
func (pa *portfolioAccessor) equity(ctx context.Context) decimal.Decimal {
	acct, err := pa.broker.Account(ctx)
	if err != nil {
		logger.ErrorWithErr(ctx, "Error getting portfolio value, assuming zero", err)
		return decimal.Zero
	}
	return acct.Equity
}

func (pa *portfolioAccessor) latestPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	price, err := pa.broker.LatestPrice(ctx, symbol)
	if err != nil {
		return decimal.Zero, fmt.Errorf("latest price for %s: %w", symbol, err)
	}
	return decimal.NewFromFloat(price), nil
}

// position returns types.ErrNoPosition (possibly wrapped) when nothing is held.
func (pa *portfolioAccessor) position(ctx context.Context, symbol string) (types.Position, error) {
	return pa.broker.Position(ctx, symbol)
}
