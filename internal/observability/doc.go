// Package observability records what netnext did and derives health signals
// from it: a JSONL event log, counters calculated from that log, alerts
// evaluated against the latest forecast, a Slack notifier, and a Prometheus
// textfile export of the forecast.
package observability
