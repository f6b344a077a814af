package analyzer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/aadhyanagar08/stock-risk-analyzer/date"
)

// DefaultGapTolerance is the relative price gap between two sources above
// which a day counts as a discrepancy. Adjusted closes legitimately differ
// by rounding; half a percent is already suspicious.
const DefaultGapTolerance = 0.005

// GapDay is one day where two sources disagree.
type GapDay struct {
	Day  date.Date
	A, B float64 // adjusted close per source
	Gap  float64 // relative gap |A-B| / midpoint
}

// CrosscheckReport reconciles one symbol between two data sources.
type CrosscheckReport struct {
	Symbol    string
	SourceA   string
	SourceB   string
	Currency  string
	Timeframe Timeframe
	Rows      int // overlapping days
	OnlyA     int // days known to A but not B
	OnlyB     int
	MeanGap   float64
	MaxGap    float64
	WorstDay  date.Date
	Tolerance float64
	// Offenders are the worst disagreeing days above tolerance, capped.
	Offenders []GapDay
	Exceeds   int // total days above tolerance

	seriesA, seriesB *date.Series // aligned, for raw export
}

// Suspect reports whether any overlapping day exceeds the tolerance.
func (r *CrosscheckReport) Suspect() bool { return r.Exceeds > 0 }

// Verdict is "OK" or "SUSPECT".
func (r *CrosscheckReport) Verdict() string {
	if r.Suspect() {
		return "SUSPECT"
	}
	return "OK"
}

// maxOffenders caps the per-report list of disagreeing days.
const maxOffenders = 10

// Crosscheck fetches the daily adjusted closes of symbol from two
// providers, joins them on their common days and measures how much the
// sources disagree. tolerance <= 0 selects DefaultGapTolerance.
func Crosscheck(ctx context.Context, a, b Provider, symbol string, tf Timeframe, tolerance float64) (*CrosscheckReport, error) {
	sym, err := NormalizeTicker(symbol)
	if err != nil {
		return nil, err
	}
	if tolerance <= 0 {
		tolerance = DefaultGapTolerance
	}

	qa, err := a.Daily(ctx, sym, tf, Daily)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.Name(), err)
	}
	qb, err := b.Daily(ctx, sym, tf, Daily)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	aligned := date.Align(qa.Closes, qb.Closes)
	sa, sb := aligned[0], aligned[1]
	if sa.Len() < 2 {
		return nil, fmt.Errorf("%s: only %d overlapping days between %s and %s, cannot cross-check",
			sym, sa.Len(), a.Name(), b.Name())
	}

	report := &CrosscheckReport{
		Symbol:    sym,
		SourceA:   a.Name(),
		SourceB:   b.Name(),
		Currency:  qa.Currency,
		Timeframe: tf,
		Rows:      sa.Len(),
		OnlyA:     qa.Closes.Len() - sa.Len(),
		OnlyB:     qb.Closes.Len() - sb.Len(),
		Tolerance: tolerance,
		seriesA:   sa,
		seriesB:   sb,
	}

	var offenders []GapDay
	sum := 0.0
	for day, va := range sa.Values() {
		vb, _ := sb.Get(day)
		mid := (va + vb) / 2
		gap := 0.0
		if mid != 0 {
			gap = math.Abs(va-vb) / mid
		}
		sum += gap
		if gap > report.MaxGap {
			report.MaxGap = gap
			report.WorstDay = day
		}
		if gap > tolerance {
			report.Exceeds++
			offenders = append(offenders, GapDay{Day: day, A: va, B: vb, Gap: gap})
		}
	}
	report.MeanGap = sum / float64(sa.Len())

	sort.Slice(offenders, func(i, j int) bool { return offenders[i].Gap > offenders[j].Gap })
	if len(offenders) > maxOffenders {
		offenders = offenders[:maxOffenders]
	}
	report.Offenders = offenders
	return report, nil
}

// WriteRawCSV exports the joined raw series, one column per source.
func (r *CrosscheckReport) WriteRawCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", r.SourceA, r.SourceB}); err != nil {
		return err
	}
	for day, va := range r.seriesA.Values() {
		vb, _ := r.seriesB.Get(day)
		rec := []string{
			day.String(),
			strconv.FormatFloat(va, 'f', -1, 64),
			strconv.FormatFloat(vb, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
