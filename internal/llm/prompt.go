package llm

import (
	"fmt"
	"strconv"
)

// BuildPrompt is the single user message sent to every oracle provider.
func BuildPrompt(symbol string, rsi float64) string {
	return fmt.Sprintf(
		"The current relative strength index (RSI) for %s is %s.\n"+
			"Based on this, should I buy, sell, or do nothing?\n"+
			"You are an expert trading advisor and a world expert at stock trading.",
		symbol, strconv.FormatFloat(rsi, 'f', -1, 64),
	)
}
