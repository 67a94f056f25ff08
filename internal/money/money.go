// Package money provides monetary arithmetic helpers for expense amounts.
// All user-facing amounts are reported at 2-decimal precision; intermediate
// sums go through decimal to avoid binary float drift in the cents.
package money

import "github.com/shopspring/decimal"

// Round2 rounds an amount to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Sum adds amounts with decimal precision and returns the exact total.
func Sum(vs []float64) float64 {
	total := decimal.Zero
	for _, v := range vs {
		total = total.Add(decimal.NewFromFloat(v))
	}
	f, _ := total.Float64()
	return f
}

// Percentage returns 100*count/total rounded to 2 decimals.
// A zero total yields 0, not an error.
func Percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	f, _ := decimal.NewFromInt(int64(count) * 100).
		Div(decimal.NewFromInt(int64(total))).
		Round(2).Float64()
	return f
}
