package brokerobs

import (
	"context"

	"oracle-trading-bot/internal/interfaces"
	"oracle-trading-bot/internal/logger"
	"oracle-trading-bot/internal/trace"
	"oracle-trading-bot/internal/types"
)

// observableBroker wraps a Broker with observability (logging & tracing)
type observableBroker struct {
	broker interfaces.Broker
}

// Compile-time interface check
var _ interfaces.Broker = (*observableBroker)(nil)

// Wrap wraps a broker with observability middleware
func Wrap(broker interfaces.Broker) interfaces.Broker {
	return &observableBroker{broker: broker}
}

// Account reads the account with observability
func (ob *observableBroker) Account(ctx context.Context) (types.Account, error) {
	ctx, span := trace.StartSpan(ctx, "broker.Account")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching account")

	acct, err := ob.broker.Account(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch account", err)
		return types.Account{}, err
	}

	logger.DebugSkip(ctx, 1, "Account fetched", "equity", acct.Equity.String())
	return acct, nil
}

// LatestPrice returns the latest trade price with observability
func (ob *observableBroker) LatestPrice(ctx context.Context, symbol string) (float64, error) {
	ctx, span := trace.StartSpan(ctx, "broker.LatestPrice")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching latest price", "symbol", symbol)

	price, err := ob.broker.LatestPrice(ctx, symbol)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch latest price", err, "symbol", symbol)
		return 0, err
	}

	logger.DebugSkip(ctx, 1, "Latest price fetched", "symbol", symbol, "price", price)
	return price, nil
}

// Position reads the open position with observability. A missing position is
// passed through untouched; callers decide whether it is an error.
func (ob *observableBroker) Position(ctx context.Context, symbol string) (types.Position, error) {
	ctx, span := trace.StartSpan(ctx, "broker.Position")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching position", "symbol", symbol)

	pos, err := ob.broker.Position(ctx, symbol)
	if err != nil {
		logger.DebugSkip(ctx, 1, "Position unavailable", "symbol", symbol, "error", err)
		return types.Position{}, err
	}

	logger.DebugSkip(ctx, 1, "Position fetched", "symbol", symbol, "qty", pos.Qty.String())
	return pos, nil
}

// PlaceOrder places an order with observability
func (ob *observableBroker) PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error) {
	ctx, span := trace.StartSpan(ctx, "broker.PlaceOrder")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Placing order",
		"symbol", req.Symbol,
		"side", string(req.Side),
		"qty", req.Qty.String(),
		"type", req.Type,
		"time_in_force", req.TimeInForce,
		"client_order_id", req.ClientOrderID,
	)

	resp, err := ob.broker.PlaceOrder(ctx, req)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to place order", err,
			"symbol", req.Symbol,
			"side", string(req.Side),
			"qty", req.Qty.String(),
		)
		return types.OrderResp{}, err
	}

	logger.InfoSkip(ctx, 1, "Order placed successfully",
		"symbol", req.Symbol,
		"order_id", resp.OrderID,
		"status", resp.Status,
	)
	return resp, nil
}
