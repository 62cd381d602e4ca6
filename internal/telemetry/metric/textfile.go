package metric

import (
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
)

// WriteTextfile writes all metrics to path in the text exposition format.
// The file is replaced atomically, as node_exporter expects.
func (r *Registry) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(filepath.Clean(path), r.registry)
}
