package analyzer

import (
	"context"

	"github.com/aadhyanagar08/stock-risk-analyzer/date"
)

// Quotes is the adjusted close history a provider returns for one symbol.
type Quotes struct {
	Symbol   string
	Currency string       // ISO-4217, "USD" when the provider does not say
	Source   string       // provider name, e.g. "yahoo"
	Closes   *date.Series // split- and dividend-adjusted close per day
}

// Provider fetches adjusted close prices for a symbol.
//
// Daily must return an error, not an empty series, when the provider has no
// data for the symbol. Implementations live in the yahoo and alphavantage
// packages.
type Provider interface {
	// Name identifies the provider in cache metadata and reports.
	Name() string
	// Daily returns the adjusted close series sampled at the given
	// frequency over the given timeframe, ending today.
	Daily(ctx context.Context, symbol string, tf Timeframe, freq Frequency) (Quotes, error)
}
