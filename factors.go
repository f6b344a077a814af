package analyzer

import (
	"context"
	"fmt"
	"math"

	"github.com/aadhyanagar08/stock-risk-analyzer/date"
	"golang.org/x/sync/errgroup"
)

// FactorRow carries the computed risk factors of one asset against the
// benchmark. Metrics that could not be computed are NaN and the reason
// is in Warnings.
type FactorRow struct {
	Symbol   string
	Currency string
	AsOf     date.Date
	NPeriods int

	Vol    float64 // annualized sample stdev of returns
	MaxDD  float64 // max drawdown of the aligned price path, <= 0
	Sharpe float64 // annualized excess return over risk
	Beta   float64 // sensitivity to benchmark returns
	R2     float64 // squared correlation with the benchmark

	// Static metadata from the securities registry, NaN when unknown.
	ExpenseRatio float64
	Yield        float64

	Warnings string
}

// Warning values set on FactorRow.
const (
	WarnInsufficientHistory = "insufficient_history"
	WarnFetchFailed         = "fetch_failed"
)

// Factors computes risk factors from cached price series.
type Factors struct {
	Cache      *Cache
	Provider   Provider
	Securities Securities
	// RiskFreeRate is annual; it is divided by the periods per year.
	RiskFreeRate float64
	// Force bypasses the cache TTL.
	Force bool
	// FetchLimit bounds concurrent provider fetches; 0 means 4.
	FetchLimit int
}

// fetched is one successfully loaded price series.
type fetched struct {
	series   *date.Series
	currency string
}

// fetchAll loads the series for all symbols, concurrently. The returned
// map only contains symbols that loaded; errs carries the per-symbol
// failures.
func (f *Factors) fetchAll(ctx context.Context, symbols []string, bench string, tf Timeframe, freq Frequency) (map[string]fetched, map[string]error) {
	limit := f.FetchLimit
	if limit <= 0 {
		limit = 4
	}

	loaded := make(map[string]fetched, len(symbols))
	errs := make(map[string]error)

	// One bad ticker must not cancel the rest, so failures travel in the
	// results instead of through the group.
	var g errgroup.Group
	g.SetLimit(limit)
	type result struct {
		symbol   string
		s        *date.Series
		currency string
		err      error
	}
	results := make(chan result, len(symbols))
	for _, symbol := range symbols {
		g.Go(func() error {
			item, err := f.Cache.Get(ctx, f.Provider, symbol, bench, tf, freq, f.Force)
			if err != nil {
				results <- result{symbol: symbol, err: err}
				return nil
			}
			s, err := f.Cache.LoadSeries(item)
			results <- result{symbol: symbol, s: s, currency: item.Currency, err: err}
			return nil
		})
	}
	g.Wait()
	close(results)
	for r := range results {
		if r.err != nil {
			errs[r.symbol] = r.err
			continue
		}
		loaded[r.symbol] = fetched{series: r.s, currency: r.currency}
	}
	return loaded, errs
}

// Compute fetches benchmark and tickers, aligns them on their common
// days, and computes the factor rows, one per ticker, in input order.
// A failing benchmark is a hard error; a failing ticker only degrades
// its own row.
func (f *Factors) Compute(ctx context.Context, tickers []string, bench string, tf Timeframe, freq Frequency) ([]FactorRow, error) {
	symbols := append([]string{bench}, tickers...)
	loaded, fetchErrs := f.fetchAll(ctx, symbols, bench, tf, freq)

	benchLoaded, ok := loaded[bench]
	if !ok {
		return nil, fmt.Errorf("benchmark %s: %w", bench, fetchErrs[bench])
	}

	// Align benchmark and every successfully fetched ticker together.
	aligned := []*date.Series{benchLoaded.series}
	alignedSymbols := []string{bench}
	for _, t := range tickers {
		if l, ok := loaded[t]; ok {
			aligned = append(aligned, l.series)
			alignedSymbols = append(alignedSymbols, t)
		}
	}
	aligned = date.Align(aligned...)
	bySymbol := make(map[string]*date.Series, len(aligned))
	for i, s := range aligned {
		bySymbol[alignedSymbols[i]] = s
	}

	benchReturns := bySymbol[bench].Returns()
	asOf, _ := bySymbol[bench].Latest()
	n := freq.PeriodsPerYear()
	rfPerPeriod := f.RiskFreeRate / float64(n)
	benchVar := sampleVariance(benchReturns)

	rows := make([]FactorRow, 0, len(tickers))
	for _, t := range tickers {
		row := FactorRow{
			Symbol:       t,
			Currency:     loaded[t].currency,
			AsOf:         asOf,
			ExpenseRatio: f.Securities.ExpenseRatio(t),
			Yield:        f.Securities.Yield(t),
		}
		if err, failed := fetchErrs[t]; failed {
			row.Warnings = fmt.Sprintf("%s: %v", WarnFetchFailed, err)
			row.nanMetrics()
			rows = append(rows, row)
			continue
		}

		s := bySymbol[t]
		returns := s.Returns()
		row.NPeriods = len(returns)
		if len(returns) != len(benchReturns) || len(returns) < MinReturns {
			row.Warnings = WarnInsufficientHistory
			row.nanMetrics()
			rows = append(rows, row)
			continue
		}

		row.Vol = sampleStd(returns) * math.Sqrt(float64(n))
		row.MaxDD = s.MaxDrawdown()

		excess := make([]float64, len(returns))
		for i, r := range returns {
			excess[i] = r - rfPerPeriod
		}
		// Sharpe uses the raw stdev of returns as denominator.
		if std := sampleStd(returns); std > 0 {
			row.Sharpe = mean(excess) / std * math.Sqrt(float64(n))
		} else {
			row.Sharpe = math.NaN()
		}

		if benchVar > 0 {
			row.Beta = sampleCovariance(returns, benchReturns) / benchVar
			corr := correlation(returns, benchReturns)
			row.R2 = corr * corr
		} else {
			row.Beta, row.R2 = math.NaN(), math.NaN()
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// nanMetrics voids all computed metrics of the row.
func (r *FactorRow) nanMetrics() {
	r.Vol, r.MaxDD, r.Sharpe, r.Beta, r.R2 = math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN()
}
