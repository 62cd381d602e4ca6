// Package metric provides Prometheus metrics for the save engine.
//
//   - prometheus.go: metric definitions and the recording helpers
//   - textfile.go: export in the node_exporter textfile format
//
// The CLI is short-lived, so metrics are written to a file after each
// command instead of being scraped over HTTP.
package metric
