package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

const (
	ModeDryRun = "DRY_RUN"
	ModeLive   = "LIVE"
)

type Config struct {
	// Mode decides whether orders reach the brokerage. DRY_RUN still reads
	// account and position state but only logs the orders it would submit.
	Mode               string `yaml:"mode"`
	Symbol             string `yaml:"symbol"`
	MetricsAddr        string `yaml:"metrics_addr"`
	HTTPTimeoutSeconds int    `yaml:"http_timeout_seconds"`
	Indicator          struct {
		Provider  string `yaml:"provider"` // TAAPI or BROKER
		Endpoint  string `yaml:"endpoint"`
		RSIPeriod int    `yaml:"rsi_period"`
	} `yaml:"indicator"`
	LLM struct {
		Provider string `yaml:"provider"` // OPENAI, CLAUDE or NOOP
		Model    string `yaml:"model"`
		Endpoint string `yaml:"endpoint"`
	} `yaml:"llm"`

	Credentials Credentials `yaml:"-"`
}

// Credentials never come from the YAML file.
type Credentials struct {
	TaapiSecret   string `env:"TAAPI_API_KEY"`
	OpenAIKey     string `env:"OPENAI_API_KEY"`
	ClaudeKey     string `env:"CLAUDE_API_KEY"`
	AlpacaKey     string `env:"ALPACA_API_KEY"`
	AlpacaSecret  string `env:"ALPACA_SECRET_KEY"`
	AlpacaBaseURL string `env:"ALPACA_BASE_URL" envDefault:"https://paper-api.alpaca.markets"`
	AlpacaDataURL string `env:"ALPACA_DATA_URL" envDefault:"https://data.alpaca.markets"`
}

func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

func (c *Config) Validate() error {
	if c.Mode != ModeDryRun && c.Mode != ModeLive {
		return fmt.Errorf("invalid mode '%s': must be 'DRY_RUN' or 'LIVE'", c.Mode)
	}
	if c.Symbol == "" {
		return errors.New("symbol cannot be empty")
	}
	if c.Indicator.Provider != "TAAPI" && c.Indicator.Provider != "BROKER" {
		return fmt.Errorf("indicator.provider must be 'TAAPI' or 'BROKER', got '%s'", c.Indicator.Provider)
	}
	if c.Indicator.RSIPeriod <= 0 {
		return fmt.Errorf("indicator.rsi_period must be positive, got %d", c.Indicator.RSIPeriod)
	}
	switch c.LLM.Provider {
	case "OPENAI", "CLAUDE", "NOOP":
	default:
		return fmt.Errorf("llm.provider must be 'OPENAI', 'CLAUDE' or 'NOOP', got '%s'", c.LLM.Provider)
	}
	if c.Mode == ModeLive && (c.Credentials.AlpacaKey == "" || c.Credentials.AlpacaSecret == "") {
		return errors.New("LIVE mode requires ALPACA_API_KEY and ALPACA_SECRET_KEY")
	}
	return nil
}

// LoadConfig reads the YAML file at path (a missing file means all defaults),
// overlays credentials from the environment and validates the result.
func LoadConfig(path string) (*Config, error) {
	var c Config

	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := env.Parse(&c.Credentials); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	c.Mode = strings.ToUpper(c.Mode)
	if c.Mode == "" {
		c.Mode = ModeDryRun
	}
	if c.Symbol == "" {
		c.Symbol = "TSLA"
	}
	c.Symbol = strings.ToUpper(c.Symbol)
	if c.HTTPTimeoutSeconds == 0 {
		c.HTTPTimeoutSeconds = 30
	}

	c.Indicator.Provider = strings.ToUpper(c.Indicator.Provider)
	if c.Indicator.Provider == "" {
		c.Indicator.Provider = "TAAPI"
	}
	if c.Indicator.Endpoint == "" {
		c.Indicator.Endpoint = "https://api.taapi.io/rsi"
	}
	if c.Indicator.RSIPeriod == 0 {
		c.Indicator.RSIPeriod = 14
	}

	c.LLM.Provider = strings.ToUpper(c.LLM.Provider)
	if c.LLM.Provider == "" {
		c.LLM.Provider = "OPENAI"
	}
	if c.LLM.Model == "" {
		switch c.LLM.Provider {
		case "CLAUDE":
			c.LLM.Model = "claude-3-5-sonnet-latest"
		default:
			c.LLM.Model = "gpt-4"
		}
	}
}
