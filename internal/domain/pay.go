package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayPlaces is the number of decimal places pay is rounded to. Rounding is
// half away from zero, so 0.005 becomes 0.01.
const PayPlaces = 2

var nanosPerHour = decimal.NewFromInt(int64(time.Hour))

func ElapsedHours(elapsed time.Duration) decimal.Decimal {
	return decimal.NewFromInt(int64(elapsed)).Div(nanosPerHour)
}

func ComputePay(elapsed time.Duration, rate decimal.Decimal) decimal.Decimal {
	if elapsed <= 0 || !rate.IsPositive() {
		return decimal.Zero
	}

	// Multiply before dividing so a non-terminating hour fraction is never
	// truncated ahead of the rounding step.
	return decimal.NewFromInt(int64(elapsed)).Mul(rate).DivRound(nanosPerHour, PayPlaces)
}
