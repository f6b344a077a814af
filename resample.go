package analyzer

import "github.com/aadhyanagar08/stock-risk-analyzer/date"

// Resample downsamples a daily series to the requested frequency by
// keeping the last quote of each ISO week or calendar month. Daily input
// frequencies pass through unchanged. Providers that only serve daily
// data use this to honor W/M requests.
func Resample(s *date.Series, freq Frequency) *date.Series {
	if freq == Daily {
		return s
	}
	bucket := func(d date.Date) int {
		if freq == Weekly {
			y, w := d.ISOWeek()
			return y*100 + w
		}
		return d.Year()*100 + int(d.Month())
	}

	out := new(date.Series)
	var lastDay date.Date
	var lastVal float64
	started := false
	current := 0
	for day, v := range s.Values() {
		b := bucket(day)
		if started && b != current {
			out.Append(lastDay, lastVal)
		}
		current, lastDay, lastVal, started = b, day, v, true
	}
	if started {
		out.Append(lastDay, lastVal)
	}
	return out
}
