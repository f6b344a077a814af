// Package alphavantage fetches adjusted close prices from the Alpha
// Vantage TIME_SERIES_DAILY_ADJUSTED endpoint. An API key is required,
// see https://www.alphavantage.co/support/#api-key.
package alphavantage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	analyzer "github.com/aadhyanagar08/stock-risk-analyzer"
	"github.com/aadhyanagar08/stock-risk-analyzer/date"
)

// adjustedCloseField is the column of the daily payload holding the
// split- and dividend-adjusted close.
const adjustedCloseField = "5. adjusted close"

// Client talks to the Alpha Vantage query endpoint.
type Client struct {
	// APIKey authenticates every request.
	APIKey string
	// BaseURL without trailing slash; tests point it at a local server.
	BaseURL string
	// HTTP defaults to the shared daily-expiring disk-cached client.
	HTTP *http.Client
}

// New returns a Client for the public Alpha Vantage endpoint.
func New(apiKey string) *Client {
	return &Client{
		APIKey:  apiKey,
		BaseURL: "https://www.alphavantage.co",
		HTTP:    analyzer.DailyClient(),
	}
}

// Name implements analyzer.Provider.
func (c *Client) Name() string { return "alphavantage" }

// payload is the subset of the TIME_SERIES_DAILY_ADJUSTED response we
// read. Alpha Vantage reports errors in-band with a 200 status.
type payload struct {
	ErrorMessage string                       `json:"Error Message"`
	Note         string                       `json:"Note"`
	Information  string                       `json:"Information"`
	Series       map[string]map[string]string `json:"Time Series (Daily)"`
}

// Daily implements analyzer.Provider.
//
// The endpoint only serves daily data; weekly and monthly requests are
// downsampled to the last close of each ISO week or calendar month. The
// timeframe is applied locally since the endpoint has no range parameter.
func (c *Client) Daily(ctx context.Context, symbol string, tf analyzer.Timeframe, freq analyzer.Frequency) (analyzer.Quotes, error) {
	if c.APIKey == "" {
		return analyzer.Quotes{}, fmt.Errorf("alphavantage: no API key configured (set ALPHAVANTAGE_API_KEY)")
	}

	q := url.Values{}
	q.Set("function", "TIME_SERIES_DAILY_ADJUSTED")
	q.Set("symbol", symbol)
	q.Set("outputsize", "full")
	q.Set("apikey", c.APIKey)
	addr := fmt.Sprintf("%s/query?%s", c.BaseURL, q.Encode())

	var p payload
	if err := analyzer.GetJSON(c.HTTP, addr, &p); err != nil {
		return analyzer.Quotes{}, fmt.Errorf("alphavantage %s: %w", symbol, err)
	}
	if p.ErrorMessage != "" {
		return analyzer.Quotes{}, fmt.Errorf("alphavantage %s: %s", symbol, p.ErrorMessage)
	}
	// Rate limiting comes back as a "Note" or "Information" payload.
	if p.Note != "" {
		return analyzer.Quotes{}, fmt.Errorf("alphavantage %s: rate limited: %s", symbol, p.Note)
	}
	if p.Information != "" {
		return analyzer.Quotes{}, fmt.Errorf("alphavantage %s: %s", symbol, p.Information)
	}
	if len(p.Series) == 0 {
		return analyzer.Quotes{}, fmt.Errorf("alphavantage %s: empty price series", symbol)
	}

	from := date.Today().Add(-365 * tf.Years())
	series := new(date.Series)
	for day, fields := range p.Series {
		on, err := date.Parse(day)
		if err != nil {
			return analyzer.Quotes{}, fmt.Errorf("alphavantage %s: bad date %q: %w", symbol, day, err)
		}
		if on.Before(from) {
			continue
		}
		raw, ok := fields[adjustedCloseField]
		if !ok {
			return analyzer.Quotes{}, fmt.Errorf("alphavantage %s: %s has no %q field", symbol, day, adjustedCloseField)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return analyzer.Quotes{}, fmt.Errorf("alphavantage %s: bad close %q on %s: %w", symbol, raw, day, err)
		}
		series.Append(on, v)
	}
	if series.Len() == 0 {
		return analyzer.Quotes{}, fmt.Errorf("alphavantage %s: no prices within %s", symbol, tf)
	}

	return analyzer.Quotes{
		Symbol:   symbol,
		Currency: "USD", // the endpoint does not report a currency
		Source:   c.Name(),
		Closes:   analyzer.Resample(series, freq),
	}, nil
}
