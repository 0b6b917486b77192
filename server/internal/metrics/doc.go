// Package metrics keeps the dashboard's counters and gauges and serves them
// in the Prometheus text exposition format at /metrics.
//
// Exposed families:
//
//	launchdash_chart_requests_total{chart,result}   counter
//	launchdash_dataset_reloads_total{result}        counter
//	launchdash_table_records                        gauge
//	launchdash_ws_clients                           gauge
//
// Each Registry owns a private prometheus.Registry and serves it through
// promhttp. Gauges are GaugeFuncs read at scrape time.
package metrics
