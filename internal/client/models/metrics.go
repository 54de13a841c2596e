package models

import "sort"

// SystemMetrics is the free-form metrics section returned by the server.
type SystemMetrics map[string]any

// limitedMetricKeys are the only metrics shown to external auditors.
var limitedMetricKeys = []string{"total_documents", "avg_search_time_ms"}

// Dashboard is the metrics page content.
type Dashboard struct {
	Auditors []AuditorRecord
	System   SystemMetrics
}

// VisibleTo filters the system metrics by role.
func (m SystemMetrics) VisibleTo(r Role) SystemMetrics {
	if r.Can(CapMetricsFull) {
		out := make(SystemMetrics, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out
	}
	if !r.Can(CapMetricsLimited) {
		return SystemMetrics{}
	}
	out := SystemMetrics{}
	for _, k := range limitedMetricKeys {
		if v, ok := m[k]; ok {
			out[k] = v
		}
	}
	return out
}

// Keys returns the metric names in sorted order.
func (m SystemMetrics) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
