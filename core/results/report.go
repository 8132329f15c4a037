package results

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// FormatMeasurement renders a measurement as the console line of its kind.
func FormatMeasurement(m Measurement) string {
	switch m.Kind {
	case KindConsensus:
		return fmt.Sprintf("%d nodes average consensus time: %.2f ms", m.Parameter, m.Value)
	case KindThroughput:
		return fmt.Sprintf("%d transactions throughput: %.2f TPS", m.Parameter, m.Value)
	case KindTraceability:
		return fmt.Sprintf("%d transactions lookup time: %.2f ms", m.Parameter, m.Value)
	default:
		return fmt.Sprintf("%s %d: %.2f %s", m.Kind, m.Parameter, m.Value, m.Unit)
	}
}

// FormatFeatures renders the feature flags sorted by name.
func FormatFeatures(features map[string]bool) string {
	names := make([]string, 0, len(features))
	for name := range features {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%t", name, features[name]))
	}

	return "platform features: " + strings.Join(parts, " ")
}

// PrintMeasurement writes the console line of a measurement.
func PrintMeasurement(w io.Writer, m Measurement) error {
	_, err := fmt.Fprintln(w, FormatMeasurement(m))
	return err
}

// PrintFeatures writes the console line of the feature flags.
func PrintFeatures(w io.Writer, features map[string]bool) error {
	_, err := fmt.Fprintln(w, FormatFeatures(features))
	return err
}
