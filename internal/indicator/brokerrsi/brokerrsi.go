package brokerrsi

import (
	"context"
	"fmt"
	"math"

	"oracle-trading-bot/internal/interfaces"
	"oracle-trading-bot/internal/ta"
	"oracle-trading-bot/internal/types"
)

// Source computes RSI locally from the broker's daily closing prices.
type Source struct {
	bars   interfaces.BarSource
	period int
}

var _ interfaces.IndicatorSource = (*Source)(nil)

func New(bars interfaces.BarSource, period int) *Source {
	return &Source{bars: bars, period: period}
}

// RSI follows the same contract as the remote provider: a failure returns
// types.NeutralRSI alongside the cause.
func (s *Source) RSI(ctx context.Context, symbol string) (float64, error) {
	closes, err := s.bars.DailyCloses(ctx, symbol, s.period+1)
	if err != nil {
		return types.NeutralRSI, err
	}
	v := ta.RSI(closes, s.period)
	if math.IsNaN(v) {
		return types.NeutralRSI, fmt.Errorf("need %d daily closes for %s, got %d", s.period+1, symbol, len(closes))
	}
	return v, nil
}
