package engine

import (
	"oracle-trading-bot/internal/interfaces"
	"oracle-trading-bot/internal/store"
)

func New(cfg *store.Config, source interfaces.IndicatorSource, oracle interfaces.Oracle, brk interfaces.Broker) interfaces.Engine {
	return newEngine(cfg, source, oracle, brk)
}
