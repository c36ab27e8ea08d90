package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"oracle-trading-bot/internal/logger"
	"oracle-trading-bot/internal/scheduler"
	"oracle-trading-bot/internal/trace"
)

func main() {
	if err := initializeSystem(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx := context.Background()
	err := run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = trace.Shutdown(shutdownCtx)

	if err != nil {
		logger.ErrorWithErr(ctx, "Error in main", err)
		os.Exit(1)
	}
}

// run wires every component and drives the fixed schedule. Only startup
// problems, or a panic outside the per-cycle guard, end up as an error here.
func run(ctx context.Context) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	stopMetrics := initializeMetrics(ctx, cfg)
	defer stopMetrics()

	bars, brk := initializeBroker(ctx, cfg)
	source := initializeIndicator(ctx, cfg, bars)
	oracle := initializeOracle(ctx, cfg)
	eng := initializeEngine(cfg, source, oracle, brk)

	runner := scheduler.NewRunner(eng, scheduler.SystemClock{}, scheduler.DefaultSchedule(), cfg.Symbol)
	runner.Run(ctx)
	return nil
}
