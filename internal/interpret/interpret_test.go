package interpret

import (
	"testing"

	"oracle-trading-bot/internal/types"
)

func TestInterpret(t *testing.T) {
	tests := []struct {
		text string
		want types.Action
	}{
		{"BUY", types.ActionBuy},
		{"I would buy here.", types.ActionBuy},
		{"Sell now", types.ActionSell},
		{"you should buy or sell", types.ActionBuy},
		{"do not sell, but you could buy", types.ActionBuy},
		{"Don't buy anything", types.ActionBuy},
		{"hold steady", types.ActionNothing},
		{"Do nothing.", types.ActionNothing},
		{"", types.ActionNothing},
		{"Consider a SELLOFF", types.ActionSell},
		{"Buyers are in control", types.ActionBuy},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := Interpret(tt.text); got != tt.want {
				t.Errorf("Interpret(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}

func TestInterpretIgnoresIndicatorContext(t *testing.T) {
	// The same opinion maps to the same action whatever RSI produced it.
	opinion := "The RSI suggests you sell."
	for rsi := 0; rsi <= 100; rsi += 10 {
		if got := Interpret(opinion); got != types.ActionSell {
			t.Fatalf("rsi=%d: expected sell, got %s", rsi, got)
		}
	}
}

func TestRulesOrder(t *testing.T) {
	if len(Rules) != 2 || Rules[0].Action != types.ActionBuy || Rules[1].Action != types.ActionSell {
		t.Fatalf("unexpected rule table: %+v", Rules)
	}
}
