package alpaca

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"oracle-trading-bot/internal/api"
	"oracle-trading-bot/internal/interfaces"
	"oracle-trading-bot/internal/types"
)

// ErrNoPosition is returned by Position when the account holds none of the symbol.
var ErrNoPosition = types.ErrNoPosition

type Params struct {
	Mode      string // DRY_RUN or LIVE
	APIKey    string
	APISecret string
	BaseURL   string // trading API, e.g. https://paper-api.alpaca.markets
	DataURL   string // market data API, e.g. https://data.alpaca.markets
	Timeout   time.Duration
}

// Alpaca talks to the Alpaca trading and market data REST APIs.
// In DRY_RUN mode reads still reach the brokerage but orders are simulated.
type Alpaca struct {
	p       Params
	trading *api.Client
	data    *api.Client
	now     func() time.Time
}

var (
	_ interfaces.Broker    = (*Alpaca)(nil)
	_ interfaces.BarSource = (*Alpaca)(nil)
)

func NewAlpaca(p Params) *Alpaca {
	common := []api.ClientOption{
		api.WithHeader("APCA-API-KEY-ID", p.APIKey),
		api.WithHeader("APCA-API-SECRET-KEY", p.APISecret),
		api.WithLogging(true),
	}
	if p.Timeout > 0 {
		common = append(common, api.WithTimeout(p.Timeout))
	}
	return &Alpaca{
		p:       p,
		trading: api.NewClient(append([]api.ClientOption{api.WithBaseURL(p.BaseURL)}, common...)...),
		data:    api.NewClient(append([]api.ClientOption{api.WithBaseURL(p.DataURL)}, common...)...),
		now:     time.Now,
	}
}

func (a *Alpaca) Account(ctx context.Context) (types.Account, error) {
	resp, err := a.trading.GET(ctx, "/v2/account", nil)
	if err != nil {
		return types.Account{}, err
	}
	var acct types.Account
	if err := resp.ParseJSON(&acct); err != nil {
		return types.Account{}, err
	}
	return acct, nil
}

func (a *Alpaca) LatestPrice(ctx context.Context, symbol string) (float64, error) {
	resp, err := a.data.GET(ctx, "/v2/stocks/"+url.PathEscape(symbol)+"/trades/latest", nil)
	if err != nil {
		return 0, err
	}
	var body struct {
		Trade *struct {
			Price float64 `json:"p"`
		} `json:"trade"`
	}
	if err := resp.ParseJSON(&body); err != nil {
		return 0, err
	}
	if body.Trade == nil {
		return 0, fmt.Errorf("no latest trade for %s", symbol)
	}
	return body.Trade.Price, nil
}

func (a *Alpaca) Position(ctx context.Context, symbol string) (types.Position, error) {
	resp, err := a.trading.GET(ctx, "/v2/positions/"+url.PathEscape(symbol), nil)
	if err != nil {
		var httpErr *api.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return types.Position{}, fmt.Errorf("%w in %s", ErrNoPosition, symbol)
		}
		return types.Position{}, err
	}
	var pos types.Position
	if err := resp.ParseJSON(&pos); err != nil {
		return types.Position{}, err
	}
	return pos, nil
}

// PlaceOrder submits the order, or in DRY_RUN mode returns a simulated
// acknowledgement without contacting the order endpoint.
func (a *Alpaca) PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error) {
	if req.ClientOrderID == "" {
		req.ClientOrderID = uuid.NewString()
	}

	if a.p.Mode == "DRY_RUN" {
		return types.OrderResp{
			OrderID:       "SIM-" + uuid.NewString(),
			ClientOrderID: req.ClientOrderID,
			Status:        types.OrderStatusSimulated,
			Message:       "dry-run",
		}, nil
	}

	if a.p.APIKey == "" || a.p.APISecret == "" {
		return types.OrderResp{}, errors.New("missing Alpaca API key/secret")
	}

	resp, err := a.trading.POST(ctx, "/v2/orders", req)
	if err != nil {
		return types.OrderResp{}, err
	}
	var out types.OrderResp
	if err := resp.ParseJSON(&out); err != nil {
		return types.OrderResp{}, err
	}
	return out, nil
}

// DailyCloses returns up to the last n daily closing prices, oldest first.
func (a *Alpaca) DailyCloses(ctx context.Context, symbol string, n int) ([]float64, error) {
	// Weekends and holidays: look back roughly twice as many calendar days.
	start := a.now().AddDate(0, 0, -(2*n + 10)).UTC().Format(time.RFC3339)
	q := url.Values{
		"timeframe":  {"1Day"},
		"start":      {start},
		"limit":      {"1000"},
		"adjustment": {"raw"},
	}
	resp, err := a.data.GET(ctx, "/v2/stocks/"+url.PathEscape(symbol)+"/bars", q)
	if err != nil {
		return nil, err
	}
	var body struct {
		Bars []struct {
			Close float64 `json:"c"`
		} `json:"bars"`
	}
	if err := resp.ParseJSON(&body); err != nil {
		return nil, err
	}

	closes := make([]float64, 0, len(body.Bars))
	for _, b := range body.Bars {
		closes = append(closes, b.Close)
	}
	if len(closes) > n {
		closes = closes[len(closes)-n:]
	}
	return closes, nil
}
