package types

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// NeutralRSI is reported whenever the indicator cannot be read.
const NeutralRSI = 50.0

// ErrNoPosition means the account holds none of the requested symbol.
var ErrNoPosition = errors.New("no position")

// Action is the trading intent derived from an oracle opinion.
type Action string

const (
	ActionBuy     Action = "buy"
	ActionSell    Action = "sell"
	ActionNothing Action = "nothing"
)

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

const (
	OrderTypeMarket = "market"
	TimeInForceGTC  = "gtc"

	// OrderStatusSimulated marks an acknowledgement produced in DRY_RUN mode.
	OrderStatusSimulated = "simulated"
)

type OrderReq struct {
	Symbol        string          `json:"symbol"`
	Side          Side            `json:"side"`
	Qty           decimal.Decimal `json:"qty"`
	Type          string          `json:"type"`
	TimeInForce   string          `json:"time_in_force"`
	ClientOrderID string          `json:"client_order_id,omitempty"`
}

type OrderResp struct {
	OrderID       string `json:"id"`
	ClientOrderID string `json:"client_order_id"`
	Status        string `json:"status"`
	Message       string `json:"message,omitempty"`
}

func (r OrderResp) Simulated() bool {
	return r.Status == OrderStatusSimulated
}

type Account struct {
	Equity decimal.Decimal `json:"portfolio_value"`
}

type Position struct {
	Symbol      string          `json:"symbol"`
	Qty         decimal.Decimal `json:"qty"`
	MarketValue decimal.Decimal `json:"market_value"`
}

// CycleResult summarises one pass of the pipeline.
type CycleResult struct {
	Symbol             string      `json:"symbol"`
	RSI                float64     `json:"rsi"`
	IndicatorDefaulted bool        `json:"indicator_defaulted"`
	Opinion            string      `json:"opinion"`
	Action             Action      `json:"action"`
	Orders             []OrderResp `json:"orders"`
	Reason             string      `json:"reason,omitempty"`
	Time               time.Time   `json:"time"`
}
