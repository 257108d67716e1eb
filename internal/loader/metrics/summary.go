package metrics

import (
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Summary is a point-in-time snapshot of a RunMetrics.
type Summary struct {
	Requests      int
	RequestErrors int
	Unresolved    int
	Batches       int
	Created       map[string]int
	Failed        map[string]int
	Details       []ErrorDetail
	Elapsed       time.Duration
}

func (m *RunMetrics) Summary() (Summary, error) {
	s := Summary{
		Created: map[string]int{},
		Failed:  map[string]int{},
		Details: m.Details(),
		Elapsed: time.Since(m.start),
	}
	families, err := m.registry.Gather()
	if err != nil {
		return Summary{}, err
	}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			value := int(metric.GetCounter().GetValue())
			label := ""
			if labels := metric.GetLabel(); len(labels) > 0 {
				label = labels[0].GetValue()
			}
			switch family.GetName() {
			case namespace + "_requests_total":
				s.Requests += value
			case namespace + "_request_errors_total":
				s.RequestErrors += value
			case namespace + "_unresolved_references_total":
				s.Unresolved += value
			case namespace + "_batches_loaded_total":
				s.Batches += value
			case namespace + "_entities_created_total":
				s.Created[label] += value
			case namespace + "_entities_failed_total":
				s.Failed[label] += value
			}
		}
	}
	return s, nil
}

const reportTemplate = `
	Load run finished in %s

	Results:
		Batches loaded: %d
		Requests made: %d
		Request errors: %d
		Unresolved references: %d
		Entities created: %s
		Entities failed: %s
`

// Write prints the report, followed by the details of every failed request.
func (s Summary) Write(w io.Writer) {
	fmt.Fprintf(w, reportTemplate,
		s.Elapsed.Round(time.Millisecond),
		s.Batches,
		s.Requests,
		s.RequestErrors,
		s.Unresolved,
		formatCounts(s.Created),
		formatCounts(s.Failed),
	)
	if len(s.Details) == 0 {
		return
	}
	fmt.Fprintf(w, "\n\tError details:\n")
	for _, d := range s.Details {
		fmt.Fprintf(w, "\t\tbatch %d %s %s: %s\n", d.Batch, d.Type, d.EntityID, d.Err)
		if d.Operation != "" {
			fmt.Fprintf(w, "\t\t\tparams: %s\n\t\t\tresponse: %s\n", d.Params.Encode(), strings.TrimSpace(d.Body))
		}
	}
}

func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	keys := maps.Keys(counts)
	slices.Sort(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, ", ")
}
