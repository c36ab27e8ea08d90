// Package interpret turns a free-text oracle opinion into a trading action.
package interpret

import (
	"strings"

	"oracle-trading-bot/internal/types"
)

// Rule maps a lower-case substring to an action.
type Rule struct {
	Pattern string
	Action  types.Action
}

// Rules are checked in order and the first match wins, so an opinion that
// mentions both words ("don't sell, buy instead") resolves to buy.
// There is no negation handling.
var Rules = []Rule{
	{Pattern: "buy", Action: types.ActionBuy},
	{Pattern: "sell", Action: types.ActionSell},
}

// Interpret applies Rules to text case-insensitively and returns
// types.ActionNothing when no rule matches.
func Interpret(text string) types.Action {
	lower := strings.ToLower(text)
	for _, r := range Rules {
		if strings.Contains(lower, r.Pattern) {
			return r.Action
		}
	}
	return types.ActionNothing
}
