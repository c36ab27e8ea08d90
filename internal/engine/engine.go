package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"oracle-trading-bot/internal/interfaces"
	"oracle-trading-bot/internal/interpret"
	"oracle-trading-bot/internal/logger"
	"oracle-trading-bot/internal/store"
	"oracle-trading-bot/internal/types"
)

// ErrOracle marks a cycle aborted because the oracle gave no opinion.
var ErrOracle = errors.New("oracle request failed")

type engine struct {
	source   interfaces.IndicatorSource
	oracle   interfaces.Oracle
	executor *orderExecutor
	now      func() time.Time
}

func newEngine(cfg *store.Config, source interfaces.IndicatorSource, oracle interfaces.Oracle, brk interfaces.Broker) *engine {
	portfolio := newPortfolioAccessor(brk)
	return &engine{
		source:   source,
		oracle:   oracle,
		executor: newOrderExecutor(brk, portfolio, cfg.Mode == store.ModeDryRun),
		now:      time.Now,
	}
}

// Step runs one cycle: indicator, oracle, interpretation, dispatch.
//
// The indicator never stops the cycle (its neutral fallback is used) and
// dispatch problems are recorded in the result's Reason. Only an oracle
// failure aborts the cycle, reported as an error wrapping ErrOracle.
func (e *engine) Step(ctx context.Context, symbol string) (*types.CycleResult, error) {
	res := &types.CycleResult{
		Symbol: symbol,
		Action: types.ActionNothing,
		Time:   e.now(),
	}

	rsi, err := e.source.RSI(ctx, symbol)
	if err != nil {
		res.IndicatorDefaulted = true
	}
	res.RSI = rsi
	logger.Info(ctx, "Current RSI", "symbol", symbol, "rsi", rsi, "defaulted", res.IndicatorDefaulted)

	opinion, err := e.oracle.Ask(ctx, symbol, rsi)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOracle, err)
	}
	res.Opinion = opinion

	res.Action = interpret.Interpret(opinion)
	logger.Decision(ctx, symbol, string(res.Action), rsi, opinion)

	var (
		order  *types.OrderResp
		reason string
	)
	switch res.Action {
	case types.ActionBuy:
		order, reason = e.executor.buy(ctx, symbol)
	case types.ActionSell:
		order, reason = e.executor.sell(ctx, symbol)
	default:
		logger.Info(ctx, "No action taken", "symbol", symbol)
	}

	if order != nil {
		res.Orders = append(res.Orders, *order)
	}
	res.Reason = reason
	return res, nil
}
