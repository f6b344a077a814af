package analyzer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds the runtime settings of the analyzer.
//
// Precedence, lowest to highest: built-in defaults, the optional YAML
// config file, environment variables.
type Config struct {
	// RiskFreeRate is the annual risk-free rate used for the Sharpe ratio.
	RiskFreeRate float64 `koanf:"risk_free_rate"`
	// CacheTTLDays is how many days a cached price series stays fresh.
	CacheTTLDays int `koanf:"cache_ttl_days"`
	// CacheDir holds the price cache (prices/ and manifest/).
	CacheDir string `koanf:"cache_dir"`
	// DataDir holds user data: the decision journal, profiles, securities.
	DataDir string `koanf:"data_dir"`
	// AlphaVantageKey authenticates against www.alphavantage.co.
	AlphaVantageKey string `koanf:"alphavantage_api_key"`
}

// ConfigFile is the default location of the optional YAML config file.
func ConfigFile() string {
	return filepath.Join(xdg.ConfigHome, "stock-risk-analyzer", "sra.yaml")
}

// envKeys maps the environment variables the original tool honored to
// config keys. Anything else in the environment is ignored.
var envKeys = map[string]string{
	"RISK_FREE_RATE":       "risk_free_rate",
	"CACHE_TTL_DAYS":       "cache_ttl_days",
	"ALPHAVANTAGE_API_KEY": "alphavantage_api_key",
	"SRA_CACHE_DIR":        "cache_dir",
	"SRA_DATA_DIR":         "data_dir",
}

// LoadConfig loads the configuration. path may be empty, then the default
// config file is used if it exists, and silently skipped otherwise.
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"risk_free_rate": 0.02,
		"cache_ttl_days": 3,
		"cache_dir":      filepath.Join(xdg.CacheHome, "stock-risk-analyzer"),
		"data_dir":       filepath.Join(xdg.DataHome, "stock-risk-analyzer"),
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return Config{}, fmt.Errorf("loading default config: %w", err)
	}

	explicit := path != ""
	if path == "" {
		path = ConfigFile()
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("loading config file %q: %w", path, err)
		}
	} else if explicit {
		return Config{}, fmt.Errorf("config file %q: %w", path, err)
	}

	if err := k.Load(env.Provider("", ".", func(s string) string {
		return envKeys[s] // unknown variables map to "" and are dropped
	}), nil); err != nil {
		return Config{}, fmt.Errorf("loading config from environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if cfg.CacheTTLDays < 0 {
		return Config{}, fmt.Errorf("cache_ttl_days must be >= 0, got %d", cfg.CacheTTLDays)
	}
	return cfg, nil
}
