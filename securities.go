package analyzer

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SecurityInfo is the static metadata of a security that no price feed
// carries: fund expense ratio and trailing dividend yield. Both are
// fractions (0.0003 is 0.03%).
type SecurityInfo struct {
	Name         string   `yaml:"name,omitempty"`
	ExpenseRatio *float64 `yaml:"expense_ratio,omitempty"`
	Yield        *float64 `yaml:"yield,omitempty"`
}

// Securities is the user-maintained registry of security metadata,
// keyed by uppercase ticker.
type Securities map[string]SecurityInfo

// LoadSecurities reads the registry from a YAML file. A missing file is
// not an error, it yields an empty registry.
func LoadSecurities(path string) (Securities, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Securities{}, nil
	}
	if err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(strings.NewReader(string(b)))
	dec.KnownFields(true)
	raw := make(map[string]SecurityInfo)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing securities registry %q: %w", path, err)
	}
	out := make(Securities, len(raw))
	for ticker, info := range raw {
		t, err := NormalizeTicker(ticker)
		if err != nil {
			return nil, fmt.Errorf("securities registry %q: %w", path, err)
		}
		out[t] = info
	}
	return out, nil
}

// ExpenseRatio returns the expense ratio of a ticker, or NaN when unknown.
func (s Securities) ExpenseRatio(ticker string) float64 {
	if info, ok := s[strings.ToUpper(ticker)]; ok && info.ExpenseRatio != nil {
		return *info.ExpenseRatio
	}
	return math.NaN()
}

// Yield returns the dividend yield of a ticker, or NaN when unknown.
func (s Securities) Yield(ticker string) float64 {
	if info, ok := s[strings.ToUpper(ticker)]; ok && info.Yield != nil {
		return *info.Yield
	}
	return math.NaN()
}
