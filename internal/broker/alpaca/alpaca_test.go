package alpaca

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"oracle-trading-bot/internal/types"
)

func newTestAlpaca(t *testing.T, mode string, h http.HandlerFunc) (*Alpaca, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Header.Get("APCA-API-KEY-ID") != "key" || r.Header.Get("APCA-API-SECRET-KEY") != "secret" {
			t.Errorf("missing auth headers on %s", r.URL.Path)
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	a := NewAlpaca(Params{Mode: mode, APIKey: "key", APISecret: "secret", BaseURL: srv.URL, DataURL: srv.URL})
	return a, &calls
}

func TestAccount(t *testing.T) {
	a, _ := newTestAlpaca(t, "LIVE", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/account" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"id":"abc","portfolio_value":"100000.50","cash":"5000"}`))
	})

	acct, err := a.Account(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !acct.Equity.Equal(decimal.RequireFromString("100000.50")) {
		t.Errorf("unexpected equity %s", acct.Equity)
	}
}

func TestLatestPrice(t *testing.T) {
	a, _ := newTestAlpaca(t, "LIVE", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/stocks/TSLA/trades/latest" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"symbol":"TSLA","trade":{"t":"2024-01-02T15:04:05Z","p":201.25,"s":100}}`))
	})

	price, err := a.LatestPrice(context.Background(), "TSLA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 201.25 {
		t.Errorf("expected 201.25, got %v", price)
	}
}

func TestPosition(t *testing.T) {
	a, _ := newTestAlpaca(t, "LIVE", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbol":"TSLA","qty":"5","market_value":"1000.00"}`))
	})

	pos, err := a.Position(context.Background(), "TSLA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pos.Qty.Equal(decimal.NewFromInt(5)) || !pos.MarketValue.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("unexpected position %+v", pos)
	}
}

func TestPositionNotFound(t *testing.T) {
	a, _ := newTestAlpaca(t, "LIVE", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":40410000,"message":"position does not exist"}`))
	})

	_, err := a.Position(context.Background(), "TSLA")
	if !errors.Is(err, ErrNoPosition) {
		t.Fatalf("expected ErrNoPosition, got %v", err)
	}
}

func TestPositionServerErrorIsNotNoPosition(t *testing.T) {
	a, _ := newTestAlpaca(t, "LIVE", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := a.Position(context.Background(), "TSLA")
	if err == nil || errors.Is(err, ErrNoPosition) {
		t.Fatalf("expected a plain error, got %v", err)
	}
}

func TestPlaceOrderLive(t *testing.T) {
	a, calls := newTestAlpaca(t, "LIVE", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v2/orders" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		want := map[string]any{"symbol": "TSLA", "qty": "10", "side": "buy", "type": "market", "time_in_force": "gtc", "client_order_id": "cid-1"}
		for k, v := range want {
			if body[k] != v {
				t.Errorf("%s: expected %v, got %v", k, v, body[k])
			}
		}
		w.Write([]byte(`{"id":"ord-1","client_order_id":"cid-1","status":"accepted"}`))
	})

	resp, err := a.PlaceOrder(context.Background(), types.OrderReq{
		Symbol:        "TSLA",
		Side:          types.SideBuy,
		Qty:           decimal.NewFromInt(10),
		Type:          types.OrderTypeMarket,
		TimeInForce:   types.TimeInForceGTC,
		ClientOrderID: "cid-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.OrderID != "ord-1" || resp.Status != "accepted" {
		t.Errorf("unexpected response %+v", resp)
	}
	if *calls != 1 {
		t.Errorf("expected one request, got %d", *calls)
	}
}

func TestPlaceOrderDryRunDoesNotSubmit(t *testing.T) {
	a, calls := newTestAlpaca(t, "DRY_RUN", func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("dry run must not call %s", r.URL.Path)
	})

	resp, err := a.PlaceOrder(context.Background(), types.OrderReq{Symbol: "TSLA", Side: types.SideSell, Qty: decimal.NewFromInt(5)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Simulated() || resp.ClientOrderID == "" {
		t.Errorf("unexpected simulated response %+v", resp)
	}
	if *calls != 0 {
		t.Errorf("expected no requests, got %d", *calls)
	}
}

func TestDailyClosesKeepsLastN(t *testing.T) {
	a, _ := newTestAlpaca(t, "LIVE", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/stocks/TSLA/bars" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("timeframe") != "1Day" {
			t.Errorf("expected daily bars, got %q", q.Get("timeframe"))
		}
		if q.Get("start") != "2024-02-14T00:00:00Z" {
			t.Errorf("unexpected start %q", q.Get("start"))
		}
		w.Write([]byte(`{"bars":[{"c":1},{"c":2},{"c":3},{"c":4}]}`))
	})
	a.now = func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }

	closes, err := a.DailyCloses(context.Background(), "TSLA", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(closes) != 3 || closes[0] != 2 || closes[2] != 4 {
		t.Errorf("unexpected closes %v", closes)
	}
}
