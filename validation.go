package analyzer

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Comparison size limits, keeping output readable and providers polite.
const (
	MinCompareTickers = 2
	MaxCompareTickers = 25
)

// MinReturns is the minimum number of aligned returns required to trust
// the computed factors. Below it a row is flagged insufficient_history.
const MinReturns = 60

// tickerRe matches provider ticker symbols like "AAPL", "BRK.B" or "VUSA.L".
var tickerRe = regexp.MustCompile(`^[A-Z0-9.\-]{1,10}$`)

// NormalizeTicker uppercases and trims a ticker symbol, and validates it.
func NormalizeTicker(ticker string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if !tickerRe.MatchString(t) {
		return "", fmt.Errorf("invalid ticker %q: want 1-10 chars of A-Z, 0-9, '.', '-'", ticker)
	}
	return t, nil
}

// NormalizeTickers validates and uppercases a comparison set of tickers.
// Duplicates are removed, order is preserved.
func NormalizeTickers(tickers []string) ([]string, error) {
	seen := make(map[string]bool)
	out := make([]string, 0, len(tickers))
	for _, raw := range tickers {
		t, err := NormalizeTicker(raw)
		if err != nil {
			return nil, err
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	if len(out) < MinCompareTickers || len(out) > MaxCompareTickers {
		return nil, fmt.Errorf("need between %d and %d distinct tickers, got %d",
			MinCompareTickers, MaxCompareTickers, len(out))
	}
	return out, nil
}

// SplitTickers parses a comma-separated ticker list, skipping empty items.
func SplitTickers(list string) []string {
	var out []string
	for _, t := range strings.Split(list, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Timeframe is a preset lookback window for price history.
type Timeframe string

const (
	Tf1y Timeframe = "1y"
	Tf3y Timeframe = "3y"
	Tf5y Timeframe = "5y"
)

// ParseTimeframe validates a timeframe preset.
func ParseTimeframe(s string) (Timeframe, error) {
	switch tf := Timeframe(strings.ToLower(strings.TrimSpace(s))); tf {
	case Tf1y, Tf3y, Tf5y:
		return tf, nil
	default:
		return "", fmt.Errorf("invalid timeframe %q: want one of 1y, 3y, 5y", s)
	}
}

// Years returns the number of calendar years the timeframe spans.
func (tf Timeframe) Years() int {
	switch tf {
	case Tf1y:
		return 1
	case Tf3y:
		return 3
	default:
		return 5
	}
}

// Frequency is the sampling frequency of a price series.
type Frequency string

const (
	Daily   Frequency = "D"
	Weekly  Frequency = "W"
	Monthly Frequency = "M"
)

// ParseFrequency validates a sampling frequency.
func ParseFrequency(s string) (Frequency, error) {
	switch f := Frequency(strings.ToUpper(strings.TrimSpace(s))); f {
	case Daily, Weekly, Monthly:
		return f, nil
	default:
		return "", fmt.Errorf("invalid frequency %q: want one of D, W, M", s)
	}
}

// PeriodsPerYear returns the annualization factor for the frequency.
func (f Frequency) PeriodsPerYear() int {
	switch f {
	case Weekly:
		return 52
	case Monthly:
		return 12
	default:
		return 252
	}
}

// Action is a journaled investment decision.
type Action string

const (
	Buy    Action = "BUY"
	Reject Action = "REJECT"
	Watch  Action = "WATCH"
)

// ParseAction validates a journal action.
func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToUpper(strings.TrimSpace(s))); a {
	case Buy, Reject, Watch:
		return a, nil
	default:
		return "", fmt.Errorf("invalid action %q: want one of BUY, REJECT, WATCH", s)
	}
}

// MetricKeys are the factor names a profile may weight.
var MetricKeys = []string{"vol", "max_dd", "sharpe", "expense_ratio", "yield", "r2_align"}

func isMetricKey(k string) bool {
	for _, m := range MetricKeys {
		if m == k {
			return true
		}
	}
	return false
}

// weightSumTolerance is how far from 1.0 a weight sum may drift before
// the weights get rescaled proportionally.
const weightSumTolerance = 0.01

// NormalizeWeights validates a weights map and rescales it to sum to 1.
// Unknown keys and negative weights are errors, an all-zero map too.
func NormalizeWeights(weights map[string]float64) (map[string]float64, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("weights are empty")
	}
	sum := 0.0
	for k, w := range weights {
		if !isMetricKey(k) {
			return nil, fmt.Errorf("unknown weight key %q: want one of %s", k, strings.Join(MetricKeys, ", "))
		}
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("weight %q must be a finite number >= 0, got %v", k, w)
		}
		sum += w
	}
	if sum == 0 {
		return nil, fmt.Errorf("weights sum to zero")
	}
	out := make(map[string]float64, len(weights))
	if math.Abs(sum-1.0) <= weightSumTolerance {
		sum = 1.0 // close enough, keep the user's numbers
		for k, w := range weights {
			out[k] = w
		}
		return out, nil
	}
	for k, w := range weights {
		out[k] = w / sum
	}
	return out, nil
}
