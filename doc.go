// Package analyzer compares and ranks stocks and ETFs by risk metrics.
//
// It fetches adjusted close prices from market data providers into a local
// TTL'd cache, computes per-asset risk factors against a benchmark
// (volatility, maximum drawdown, Sharpe ratio, beta, R²), and combines them
// into a single weighted score driven by a user profile. A cross-source
// check reconciles prices between providers to detect bad data.
package analyzer
