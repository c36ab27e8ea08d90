package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"oracle-trading-bot/internal/api"
	"oracle-trading-bot/internal/broker/alpaca"
	"oracle-trading-bot/internal/broker/brokerobs"
	"oracle-trading-bot/internal/engine"
	"oracle-trading-bot/internal/engine/engineobs"
	"oracle-trading-bot/internal/indicator/brokerrsi"
	"oracle-trading-bot/internal/indicator/indicatorobs"
	"oracle-trading-bot/internal/indicator/taapi"
	"oracle-trading-bot/internal/interfaces"
	"oracle-trading-bot/internal/llm/claude"
	"oracle-trading-bot/internal/llm/llmobs"
	"oracle-trading-bot/internal/llm/noop"
	"oracle-trading-bot/internal/llm/openai"
	"oracle-trading-bot/internal/logger"
	"oracle-trading-bot/internal/metrics"
	"oracle-trading-bot/internal/store"
	"oracle-trading-bot/internal/trace"
)

// initializeSystem loads .env and sets up the logger and tracer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context) (*store.Config, error) {
	path := os.Getenv("BOT_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

// initializeBroker returns the raw Alpaca client (also the bar source) and
// the broker wrapped with observability
func initializeBroker(ctx context.Context, cfg *store.Config) (*alpaca.Alpaca, interfaces.Broker) {
	brk := alpaca.NewAlpaca(alpaca.Params{
		Mode:      cfg.Mode,
		APIKey:    cfg.Credentials.AlpacaKey,
		APISecret: cfg.Credentials.AlpacaSecret,
		BaseURL:   cfg.Credentials.AlpacaBaseURL,
		DataURL:   cfg.Credentials.AlpacaDataURL,
		Timeout:   cfg.HTTPTimeout(),
	})

	if cfg.Mode == store.ModeDryRun {
		logger.Warn(ctx, "Running in DRY_RUN mode - orders will be simulated")
	} else {
		logger.Warn(ctx, "Running in LIVE mode - orders will be submitted", "base_url", cfg.Credentials.AlpacaBaseURL)
	}

	return brk, brokerobs.Wrap(brk)
}

func initializeIndicator(ctx context.Context, cfg *store.Config, bars interfaces.BarSource) interfaces.IndicatorSource {
	var source interfaces.IndicatorSource

	switch cfg.Indicator.Provider {
	case "BROKER":
		logger.Info(ctx, "Computing RSI from broker daily bars", "period", cfg.Indicator.RSIPeriod)
		source = brokerrsi.New(bars, cfg.Indicator.RSIPeriod)
	default:
		if cfg.Credentials.TaapiSecret == "" {
			logger.Warn(ctx, "TAAPI_API_KEY not set - RSI will fall back to the neutral value")
		}
		source = taapi.NewClient(cfg.Indicator.Endpoint, cfg.Credentials.TaapiSecret, api.WithTimeout(cfg.HTTPTimeout()))
	}

	return indicatorobs.Wrap(source)
}

// initializeOracle picks the LLM provider and wraps it with observability
func initializeOracle(ctx context.Context, cfg *store.Config) interfaces.Oracle {
	var oracle interfaces.Oracle

	timeout := api.WithTimeout(cfg.HTTPTimeout())
	switch cfg.LLM.Provider {
	case "OPENAI":
		oracle = openai.NewOpenAIOracle(cfg.LLM.Model, cfg.Credentials.OpenAIKey, cfg.LLM.Endpoint, timeout)
	case "CLAUDE":
		oracle = claude.NewClaudeOracle(cfg.LLM.Model, cfg.Credentials.ClaudeKey, cfg.LLM.Endpoint, timeout)
	default:
		oracle = noop.NewNoopOracle()
		logger.Warn(ctx, "No LLM provider configured - using Noop oracle (always holds)")
	}

	return llmobs.Wrap(oracle)
}

// initializeEngine initializes and returns the trading engine with observability
func initializeEngine(cfg *store.Config, source interfaces.IndicatorSource, oracle interfaces.Oracle, brk interfaces.Broker) interfaces.Engine {
	return engineobs.Wrap(engine.New(cfg, source, oracle, brk))
}

func initializeMetrics(ctx context.Context, cfg *store.Config) func() {
	if cfg.MetricsAddr == "" {
		return func() {}
	}
	srv := metrics.Serve(cfg.MetricsAddr)
	logger.Info(ctx, "Serving metrics", "addr", cfg.MetricsAddr)
	return func() { _ = srv.Close() }
}
