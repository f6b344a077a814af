package analyzer

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed profiles/*.yaml
var builtinProfiles embed.FS

// Profile is a weight preset driving the scoring.
type Profile struct {
	Name          string             `yaml:"name,omitempty"`
	Weights       map[string]float64 `yaml:"weights"`
	Timeframe     Timeframe          `yaml:"timeframe,omitempty"`
	Frequency     Frequency          `yaml:"frequency,omitempty"`
	R2AlignTarget string             `yaml:"r2_align_target,omitempty"`
}

// R² alignment targets: whether tracking the benchmark closely is a
// feature (high), a defect (low), or irrelevant (none).
const (
	R2High = "high"
	R2Low  = "low"
	R2None = "none"
)

// LoadProfile loads a profile by name. A user file
// {dataDir}/profiles/{name}.yaml shadows the built-in preset of the same
// name; built-ins are default, low_vol, income and custom.
func LoadProfile(dataDir, name string) (Profile, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "default"
	}

	var b []byte
	var err error
	if dataDir != "" {
		b, err = os.ReadFile(filepath.Join(dataDir, "profiles", name+".yaml"))
	}
	if dataDir == "" || errors.Is(err, fs.ErrNotExist) {
		b, err = builtinProfiles.ReadFile("profiles/" + name + ".yaml")
		if errors.Is(err, fs.ErrNotExist) {
			return Profile{}, fmt.Errorf("profile %q not found (builtins: %s)", name, strings.Join(BuiltinProfiles(), ", "))
		}
	}
	if err != nil {
		return Profile{}, fmt.Errorf("loading profile %q: %w", name, err)
	}

	dec := yaml.NewDecoder(strings.NewReader(string(b)))
	dec.KnownFields(true) // reject unknown keys, typos should not pass silently
	var p Profile
	if err := dec.Decode(&p); err != nil {
		return Profile{}, fmt.Errorf("parsing profile %q: %w", name, err)
	}
	if p.Name == "" {
		p.Name = name
	}
	if p.Weights == nil {
		p.Weights = map[string]float64{}
	}
	if p.Timeframe == "" {
		p.Timeframe = Tf3y
	}
	if p.Frequency == "" {
		p.Frequency = Daily
	}
	if p.R2AlignTarget == "" {
		p.R2AlignTarget = R2High
	}
	switch p.R2AlignTarget {
	case R2High, R2Low, R2None:
	default:
		return Profile{}, fmt.Errorf("profile %q: r2_align_target must be high, low or none, got %q", name, p.R2AlignTarget)
	}
	if _, err := ParseTimeframe(string(p.Timeframe)); err != nil {
		return Profile{}, fmt.Errorf("profile %q: %w", name, err)
	}
	if _, err := ParseFrequency(string(p.Frequency)); err != nil {
		return Profile{}, fmt.Errorf("profile %q: %w", name, err)
	}
	return p, nil
}

// MergeOverrides returns a copy of the profile with the given weights
// shallow-merged in. Only weights can be overridden this way.
func (p Profile) MergeOverrides(overrides map[string]float64) Profile {
	if len(overrides) == 0 {
		return p
	}
	w := make(map[string]float64, len(p.Weights)+len(overrides))
	for k, v := range p.Weights {
		w[k] = v
	}
	for k, v := range overrides {
		w[k] = v
	}
	p.Weights = w
	return p
}

// BuiltinProfiles lists the embedded preset names, sorted.
func BuiltinProfiles() []string {
	entries, _ := builtinProfiles.ReadDir("profiles")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// ListProfiles lists all available profile names: built-ins plus any user
// profiles under {dataDir}/profiles.
func ListProfiles(dataDir string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, n := range BuiltinProfiles() {
		seen[n] = true
		names = append(names, n)
	}
	if dataDir != "" {
		entries, _ := os.ReadDir(filepath.Join(dataDir, "profiles"))
		for _, e := range entries {
			n := strings.TrimSuffix(e.Name(), ".yaml")
			if strings.HasSuffix(e.Name(), ".yaml") && !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	sort.Strings(names)
	return names
}
