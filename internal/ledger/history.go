package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	depositedMarker = "Deposited"
	withdrewMarker  = "Withdrew"
)

// appendHistory adds entry at the end and evicts from the front until at
// most size entries remain. The input slice is never modified in place.
func appendHistory(history []string, entry string, size int) []string {
	out := make([]string, 0, len(history)+1)
	out = append(out, history...)
	out = append(out, entry)
	if len(out) > size {
		out = out[len(out)-size:]
	}
	return out
}

func money(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// entryAmount extracts the amount from an entry shaped like
// "Deposited $12.50". ok is false when the second word is not an amount.
func entryAmount(entry string) (decimal.Decimal, bool) {
	fields := strings.Fields(entry)
	if len(fields) < 2 {
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(strings.TrimPrefix(fields[1], "$"))
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}
