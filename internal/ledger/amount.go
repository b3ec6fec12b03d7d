package ledger

import "github.com/shopspring/decimal"

// Amounts are whole cents below MaxAmount. Anything else would be rounded
// away by the two-decimal history entries the summary is computed from.
const (
	amountScale     = 2
	maxAmountExp    = 12
	maxAmountDigits = 18
)

// MaxAmount is the exclusive upper bound of a single deposit, withdrawal,
// transfer or loan.
var MaxAmount = decimal.New(1, maxAmountExp)

// validAmount reports whether amount is positive, below MaxAmount and has
// no more than two decimal places. The exponent and digit count are checked
// first so oversized input is rejected before any rescaling work.
func validAmount(amount decimal.Decimal) bool {
	if !amount.IsPositive() {
		return false
	}
	exp := amount.Exponent()
	if exp > maxAmountExp || exp < -maxAmountDigits || amount.NumDigits() > maxAmountDigits {
		return false
	}
	if amount.GreaterThanOrEqual(MaxAmount) {
		return false
	}
	return amount.Equal(amount.Truncate(amountScale))
}
