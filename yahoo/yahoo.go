// Package yahoo fetches adjusted close prices from the Yahoo Finance
// chart API. No API key is required.
package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/PaesslerAG/jsonpath"
	analyzer "github.com/aadhyanagar08/stock-risk-analyzer"
	"github.com/aadhyanagar08/stock-risk-analyzer/date"
)

// Client talks to the Yahoo Finance v8 chart endpoint.
type Client struct {
	// BaseURL of the chart API, without trailing slash. Tests point it
	// at a local server.
	BaseURL string
	// HTTP is the client used for requests; defaults to the shared
	// daily-expiring disk-cached client.
	HTTP *http.Client
}

// New returns a Client against the public Yahoo endpoint.
func New() *Client {
	return &Client{
		BaseURL: "https://query1.finance.yahoo.com",
		HTTP:    analyzer.DailyClient(),
	}
}

// Name implements analyzer.Provider.
func (c *Client) Name() string { return "yahoo" }

// intervals maps a sampling frequency to Yahoo's interval parameter.
var intervals = map[analyzer.Frequency]string{
	analyzer.Daily:   "1d",
	analyzer.Weekly:  "1wk",
	analyzer.Monthly: "1mo",
}

// Daily implements analyzer.Provider.
//
// The chart payload nests the series under chart.result[0] with parallel
// arrays of unix timestamps and adjusted closes; closes on halted days are
// null and are skipped.
func (c *Client) Daily(ctx context.Context, symbol string, tf analyzer.Timeframe, freq analyzer.Frequency) (analyzer.Quotes, error) {
	q := url.Values{}
	q.Set("range", string(tf))
	q.Set("interval", intervals[freq])
	q.Set("events", "div,split")
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.BaseURL, url.PathEscape(symbol), q.Encode())

	var payload any
	if err := analyzer.GetJSON(c.HTTP, addr, &payload); err != nil {
		return analyzer.Quotes{}, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}

	if desc, err := jsonpath.Get("$.chart.error.description", payload); err == nil {
		if s, ok := desc.(string); ok && s != "" {
			return analyzer.Quotes{}, fmt.Errorf("yahoo chart %s: %s", symbol, s)
		}
	}

	timestamps, err := floatSlice(payload, "$.chart.result[0].timestamp")
	if err != nil {
		return analyzer.Quotes{}, fmt.Errorf("yahoo chart %s: no timestamps: %w", symbol, err)
	}
	closes, err := rawSlice(payload, "$.chart.result[0].indicators.adjclose[0].adjclose")
	if err != nil {
		return analyzer.Quotes{}, fmt.Errorf("yahoo chart %s: no adjusted closes: %w", symbol, err)
	}
	if len(closes) != len(timestamps) {
		return analyzer.Quotes{}, fmt.Errorf("yahoo chart %s: %d timestamps but %d closes", symbol, len(timestamps), len(closes))
	}

	series := new(date.Series)
	for i, ts := range timestamps {
		// A null close marks a day without a quote.
		if v, ok := closes[i].(float64); ok {
			series.Append(date.FromUnix(int64(ts)), v)
		}
	}
	if series.Len() == 0 {
		return analyzer.Quotes{}, fmt.Errorf("yahoo chart %s: empty price series", symbol)
	}

	currency := "USD"
	if cur, err := jsonpath.Get("$.chart.result[0].meta.currency", payload); err == nil {
		if s, ok := cur.(string); ok && s != "" {
			currency = s
		}
	}

	return analyzer.Quotes{
		Symbol:   symbol,
		Currency: currency,
		Source:   c.Name(),
		Closes:   series,
	}, nil
}

// rawSlice extracts a JSON array at the given path.
func rawSlice(payload any, path string) ([]any, error) {
	v, err := jsonpath.Get(path, payload)
	if err != nil {
		return nil, err
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s is not an array", path)
	}
	return list, nil
}

// floatSlice extracts a JSON array of numbers at the given path.
func floatSlice(payload any, path string) ([]float64, error) {
	list, err := rawSlice(payload, path)
	if err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(list))
	for _, v := range list {
		f, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("%s contains a non-number %v", path, v)
		}
		out = append(out, f)
	}
	return out, nil
}
