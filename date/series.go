package date

import (
	"iter"
	"slices"
)

// Series stores a chronological series of float64 values, one per day.
// Days are unique and the series is always sorted.
type Series struct {
	days   []Date
	values []float64
}

// Len returns the number of points in the series.
func (s *Series) Len() int { return len(s.days) }

// Append adds a point to the series. An existing value at that day is
// overwritten, the last write wins.
func (s *Series) Append(on Date, v float64) *Series {
	if i := slices.Index(s.days, on); i >= 0 {
		s.values[i] = v
		return s
	}
	s.days = append(s.days, on)
	s.values = append(s.values, v)
	// Keep the series sorted; the common case is appending at the end.
	for i := len(s.days) - 1; i > 0 && s.days[i].Before(s.days[i-1]); i-- {
		s.days[i], s.days[i-1] = s.days[i-1], s.days[i]
		s.values[i], s.values[i-1] = s.values[i-1], s.values[i]
	}
	return s
}

// First returns the earliest day and value, or zero values on an empty series.
func (s *Series) First() (Date, float64) {
	if len(s.days) == 0 {
		return Date{}, 0
	}
	return s.days[0], s.values[0]
}

// Latest returns the latest day and value, or zero values on an empty series.
func (s *Series) Latest() (Date, float64) {
	last := len(s.days) - 1
	if last < 0 {
		return Date{}, 0
	}
	return s.days[last], s.values[last]
}

// Get returns the value at 'day' and whether it exists.
func (s *Series) Get(day Date) (float64, bool) {
	if i := slices.Index(s.days, day); i >= 0 {
		return s.values[i], true
	}
	return 0, false
}

// Values returns an iterator over all day/value pairs, in chronological order.
func (s *Series) Values() iter.Seq2[Date, float64] {
	return func(yield func(Date, float64) bool) {
		for i, on := range s.days {
			if !yield(on, s.values[i]) {
				return
			}
		}
	}
}

// Days returns a copy of the days of the series, in chronological order.
func (s *Series) Days() []Date { return slices.Clone(s.days) }

// Floats returns a copy of the values of the series, in chronological order.
func (s *Series) Floats() []float64 { return slices.Clone(s.values) }

// Filter returns a new Series restricted to the days for which keep returns true.
func (s *Series) Filter(keep func(Date) bool) *Series {
	out := new(Series)
	for i, on := range s.days {
		if keep(on) {
			out.days = append(out.days, on)
			out.values = append(out.values, s.values[i])
		}
	}
	return out
}

// Returns computes the simple returns r_t = v_t/v_{t-1} - 1 of the series.
// The result has Len()-1 elements, or none for series shorter than 2.
func (s *Series) Returns() []float64 {
	if len(s.values) < 2 {
		return nil
	}
	out := make([]float64, len(s.values)-1)
	for i := 1; i < len(s.values); i++ {
		out[i-1] = s.values[i]/s.values[i-1] - 1.0
	}
	return out
}

// MaxDrawdown returns the largest peak-to-trough decline of the series,
// as a fraction of the peak. It is 0 for a monotonically rising series
// and negative otherwise.
func (s *Series) MaxDrawdown() float64 {
	if len(s.values) == 0 {
		return 0
	}
	peak := s.values[0]
	worst := 0.0
	for _, v := range s.values {
		if v > peak {
			peak = v
		}
		if dd := v/peak - 1.0; dd < worst {
			worst = dd
		}
	}
	return worst
}

// Align restricts every series to the days present in all of them.
// Multi-asset alignment: holidays and missing quotes of any one series
// drop out of all of them, so aligned series share the exact same days.
func Align(series ...*Series) []*Series {
	if len(series) == 0 {
		return nil
	}
	common := make(map[Date]int)
	for _, s := range series {
		for _, d := range s.days {
			common[d]++
		}
	}
	all := func(d Date) bool { return common[d] == len(series) }
	out := make([]*Series, len(series))
	for i, s := range series {
		out[i] = s.Filter(all)
	}
	return out
}
