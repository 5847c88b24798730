package telemetry

import (
	"context"
	"sort"

	"github.com/grafana/pyroscope-go"
)

// Profile label keys
const (
	ProfileLabelRoute      = "route"
	ProfileLabelMethod     = "method"
	ProfileLabelClientID   = "client_id"
	ProfileLabelReportType = "report_type"
)

// MaxProfileLabelLength truncates label values
const MaxProfileLabelLength = 128

// unboundedLabels are dropped: every value would become its own series
var unboundedLabels = map[string]bool{
	"request_id": true,
	"trace_id":   true,
	"span_id":    true,
	"session_id": true,
}

// WithProfileLabels runs fn with labels attached to the goroutine's samples.
// Empty values and unbounded keys are dropped.
func WithProfileLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := profileLabelPairs(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// profileLabelPairs flattens labels into sorted key/value pairs
func profileLabelPairs(labels map[string]string) []string {
	keys := make([]string, 0, len(labels))
	for k, v := range labels {
		if k == "" || v == "" || unboundedLabels[k] {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		v := labels[k]
		if len(v) > MaxProfileLabelLength {
			v = v[:MaxProfileLabelLength]
		}
		pairs = append(pairs, k, v)
	}
	return pairs
}

// RequestProfileLabels labels an HTTP request by route pattern, method and
// client. route must be the pattern, never the raw path.
func RequestProfileLabels(route, method, clientID string) map[string]string {
	return map[string]string{
		ProfileLabelRoute:    route,
		ProfileLabelMethod:   method,
		ProfileLabelClientID: clientID,
	}
}
