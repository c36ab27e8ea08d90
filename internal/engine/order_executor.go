package engine

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"oracle-trading-bot/internal/interfaces"
	"oracle-trading-bot/internal/logger"
	"oracle-trading-bot/internal/metrics"
	"oracle-trading-bot/internal/types"
)

// allocation is the fraction of equity committed to each buy. There is no
// concentration limit and no duplicate-order guard, so repeated buy cycles
// keep adding to the position.
var allocation = decimal.RequireFromString("0.02")

// buyQuantity is floor(equity * allocation / price). A non-positive price
// yields zero.
func buyQuantity(equity, price decimal.Decimal) decimal.Decimal {
	if !price.IsPositive() {
		return decimal.Zero
	}
	return equity.Mul(allocation).Div(price).Floor()
}

// orderExecutor sizes and submits market GTC orders. Every failure is logged
// here and reported to the caller as a reason string; nothing is escalated.
type orderExecutor struct {
	broker    interfaces.Broker
	portfolio *portfolioAccessor
	dryRun    bool
}

func newOrderExecutor(broker interfaces.Broker, portfolio *portfolioAccessor, dryRun bool) *orderExecutor {
	return &orderExecutor{broker: broker, portfolio: portfolio, dryRun: dryRun}
}

// buy commits allocation of current equity at the latest trade price.
// It returns the submitted order, or nil and the reason nothing was sent.
func (oe *orderExecutor) buy(ctx context.Context, symbol string) (*types.OrderResp, string) {
	equity := oe.portfolio.equity(ctx)

	price, err := oe.portfolio.latestPrice(ctx, symbol)
	if err != nil {
		logger.ErrorWithErr(ctx, "Error in buy: latest price unavailable", err, "symbol", symbol)
		return nil, "buy skipped: " + err.Error()
	}

	qty := buyQuantity(equity, price)
	investment := equity.Mul(allocation)
	if !qty.IsPositive() {
		logger.Info(ctx, "Buy skipped: computed quantity is zero",
			"symbol", symbol,
			"equity", equity.StringFixed(2),
			"investment", investment.StringFixed(2),
			"price", price.StringFixed(2),
		)
		return nil, "buy skipped: quantity is zero"
	}

	if oe.dryRun {
		logger.Info(ctx, "[SIMULATION] Would buy",
			"symbol", symbol,
			"qty", qty.String(),
			"investment", investment.StringFixed(2),
			"price", price.StringFixed(2),
		)
	}

	price64, _ := price.Float64()
	resp, err := oe.submit(ctx, symbol, types.SideBuy, qty, price64)
	if err != nil {
		return nil, "buy failed: " + err.Error()
	}
	return &resp, ""
}

// sell closes the entire position when one with a positive quantity exists.
func (oe *orderExecutor) sell(ctx context.Context, symbol string) (*types.OrderResp, string) {
	pos, err := oe.portfolio.position(ctx, symbol)
	if errors.Is(err, types.ErrNoPosition) {
		logger.Info(ctx, "No position to sell", "symbol", symbol)
		return nil, "sell skipped: no position"
	}
	if err != nil {
		logger.ErrorWithErr(ctx, "Error in sell: position unavailable", err, "symbol", symbol)
		return nil, "sell skipped: " + err.Error()
	}
	if !pos.Qty.IsPositive() {
		logger.Info(ctx, "No position to sell", "symbol", symbol, "qty", pos.Qty.String())
		return nil, "sell skipped: no position"
	}

	if oe.dryRun {
		logger.Info(ctx, "[SIMULATION] Would sell",
			"symbol", symbol,
			"qty", pos.Qty.String(),
			"market_value", pos.MarketValue.StringFixed(2),
		)
	}

	price, _ := pos.MarketValue.Div(pos.Qty).Float64()
	resp, err := oe.submit(ctx, symbol, types.SideSell, pos.Qty, price)
	if err != nil {
		return nil, "sell failed: " + err.Error()
	}
	return &resp, ""
}

func (oe *orderExecutor) submit(ctx context.Context, symbol string, side types.Side, qty decimal.Decimal, price float64) (types.OrderResp, error) {
	req := types.OrderReq{
		Symbol:        symbol,
		Side:          side,
		Qty:           qty,
		Type:          types.OrderTypeMarket,
		TimeInForce:   types.TimeInForceGTC,
		ClientOrderID: uuid.NewString(),
	}

	resp, err := oe.broker.PlaceOrder(ctx, req)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to submit order", err,
			"symbol", symbol,
			"side", string(side),
			"qty", qty.String(),
		)
		return types.OrderResp{}, err
	}

	if resp.Simulated() {
		metrics.OrdersTotal.WithLabelValues(symbol, string(side), "simulated").Inc()
		logger.Info(ctx, "[SIMULATION] Order acknowledged",
			"symbol", symbol,
			"side", string(side),
			"qty", qty.String(),
			"order_id", resp.OrderID,
		)
		return resp, nil
	}

	metrics.OrdersTotal.WithLabelValues(symbol, string(side), "live").Inc()
	logger.Trade(ctx, symbol, string(side), qty.String(), price, resp.OrderID, "status", resp.Status)
	return resp, nil
}
