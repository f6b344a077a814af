// Package renderer turns analyzer results into markdown reports.
package renderer

import (
	"fmt"
	"math"

	analyzer "github.com/aadhyanagar08/stock-risk-analyzer"
)

// num formats a metric with 3 decimals, "-" for NaN.
func num(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.3f", v)
}

// pct formats a fraction as a percentage, "-" for NaN.
func pct(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return analyzer.Percent(v * 100).String()
}

// signedPct formats a fraction as a signed percentage, "-" for NaN.
func signedPct(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return analyzer.Percent(v * 100).SignedString()
}

// price formats a price quote in its currency.
func price(v float64, currency string) string {
	if math.IsNaN(v) {
		return "-"
	}
	return analyzer.M(v, currency).String()
}
