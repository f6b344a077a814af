package date

import (
	"math"
	"testing"
)

func day(s string) Date { return MustParse(s) }

func TestSeriesAppendKeepsOrder(t *testing.T) {
	s := new(Series)
	s.Append(day("2024-01-03"), 3)
	s.Append(day("2024-01-01"), 1)
	s.Append(day("2024-01-02"), 2)

	want := []float64{1, 2, 3}
	got := s.Floats()
	if len(got) != len(want) {
		t.Fatalf("Len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("values[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	// Duplicate day overwrites.
	s.Append(day("2024-01-02"), 20)
	if v, ok := s.Get(day("2024-01-02")); !ok || v != 20 {
		t.Errorf("Get after overwrite = %v, %v; want 20, true", v, ok)
	}
	if s.Len() != 3 {
		t.Errorf("Len after overwrite = %d, want 3", s.Len())
	}
}

func TestSeriesFirstLatest(t *testing.T) {
	s := new(Series)
	if d, v := s.Latest(); !d.IsZero() || v != 0 {
		t.Error("Latest on empty series should be zero values")
	}
	s.Append(day("2024-01-02"), 2).Append(day("2024-01-01"), 1)
	if d, v := s.First(); d != day("2024-01-01") || v != 1 {
		t.Errorf("First = %v, %v", d, v)
	}
	if d, v := s.Latest(); d != day("2024-01-02") || v != 2 {
		t.Errorf("Latest = %v, %v", d, v)
	}
}

func TestReturns(t *testing.T) {
	s := new(Series)
	s.Append(day("2024-01-01"), 100)
	s.Append(day("2024-01-02"), 110)
	s.Append(day("2024-01-03"), 99)

	got := s.Returns()
	want := []float64{0.10, -0.10}
	if len(got) != len(want) {
		t.Fatalf("Returns len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("Returns[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if (&Series{}).Returns() != nil {
		t.Error("Returns on empty series should be nil")
	}
}

func TestMaxDrawdown(t *testing.T) {
	testCases := []struct {
		name   string
		prices []float64
		want   float64
	}{
		{"Monotonic rise", []float64{1, 2, 3, 4}, 0},
		{"Half loss", []float64{100, 120, 60, 80}, -0.5},
		{"Trough then recovery", []float64{10, 8, 12, 9}, -0.25},
		{"Empty", nil, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := new(Series)
			for i, p := range tc.prices {
				s.Append(day("2024-01-01").Add(i), p)
			}
			if got := s.MaxDrawdown(); math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("MaxDrawdown = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAlign(t *testing.T) {
	a := new(Series)
	a.Append(day("2024-01-01"), 1)
	a.Append(day("2024-01-02"), 2)
	a.Append(day("2024-01-03"), 3)

	b := new(Series)
	b.Append(day("2024-01-02"), 20)
	b.Append(day("2024-01-03"), 30)
	b.Append(day("2024-01-04"), 40)

	aligned := Align(a, b)
	if len(aligned) != 2 {
		t.Fatalf("Align returned %d series, want 2", len(aligned))
	}
	for i, s := range aligned {
		if s.Len() != 2 {
			t.Errorf("aligned[%d].Len = %d, want 2", i, s.Len())
		}
	}
	days := aligned[0].Days()
	if days[0] != day("2024-01-02") || days[1] != day("2024-01-03") {
		t.Errorf("aligned days = %v", days)
	}
	// Originals are untouched.
	if a.Len() != 3 || b.Len() != 3 {
		t.Error("Align mutated its inputs")
	}
}
