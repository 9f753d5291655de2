package domain

import (
	"math"

	"github.com/shopspring/decimal"

	"player-economy/internal/errors"
)

// Operation is an administrative balance adjustment.
type Operation string

const (
	OperationAdd      Operation = "add"
	OperationSubtract Operation = "subtract"
	OperationSet      Operation = "set"
)

// Operations lists the accepted operation names in display order.
func Operations() []string {
	return []string{string(OperationAdd), string(OperationSubtract), string(OperationSet)}
}

func ParseOperation(s string) (Operation, error) {
	switch op := Operation(s); op {
	case OperationAdd, OperationSubtract, OperationSet:
		return op, nil
	default:
		return "", errors.ErrInvalidOperation
	}
}

// Apply returns the balance after applying the operation. No floor or
// ceiling is enforced; ok is false when the result overflows an int64.
func (o Operation) Apply(balance, amount int64) (result int64, ok bool) {
	switch o {
	case OperationAdd:
		return AddBalance(balance, amount)
	case OperationSubtract:
		if amount == math.MinInt64 {
			return 0, false
		}
		return AddBalance(balance, -amount)
	case OperationSet:
		return amount, true
	default:
		return balance, true
	}
}

// AddBalance returns balance+amount, or ok=false when the sum overflows.
func AddBalance(balance, amount int64) (int64, bool) {
	if (amount > 0 && balance > math.MaxInt64-amount) || (amount < 0 && balance < math.MinInt64-amount) {
		return 0, false
	}
	return balance + amount, true
}

// maxAmountDigits is the number of integer digits of math.MaxInt64.
const maxAmountDigits = 19

var (
	minAmount = decimal.NewFromInt(math.MinInt64)
	maxAmount = decimal.NewFromInt(math.MaxInt64)
)

// FloorAmount rounds a command amount down to a whole currency unit. ok is
// false when the floored value does not fit in an int64. The magnitude is
// checked from the exponent before any rescaling, so inputs such as 1e30000000
// or 1e-30000000 never expand into huge coefficients.
func FloorAmount(amount decimal.Decimal) (int64, bool) {
	if amount.IsZero() {
		return 0, true
	}

	intDigits := amount.NumDigits() + int(amount.Exponent())
	switch {
	case intDigits > maxAmountDigits:
		return 0, false
	case intDigits <= 0:
		// |amount| < 1
		if amount.Sign() < 0 {
			return -1, true
		}
		return 0, true
	}

	floored := amount.Floor()
	if floored.LessThan(minAmount) || floored.GreaterThan(maxAmount) {
		return 0, false
	}
	return floored.IntPart(), true
}
