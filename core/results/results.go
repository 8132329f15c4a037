// Package results contains the information about the results and handles the
// processing and display / logging of the information. Every measurement of
// a run is kept together with its samples so that the written report can be
// analysed after the run.
package results

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Kinds of measurement
const (
	KindConsensus    = "consensus"
	KindThroughput   = "throughput"
	KindTraceability = "traceability"
)

// Units of the measurement values
const (
	UnitMilliseconds = "ms"
	UnitSubmittedTPS = "tx/s (submitted)"
)

// Measurement is the outcome of one measurement call.
type Measurement struct {
	Kind      string    `json:"Kind"`              // One of the Kind constants
	Parameter int       `json:"Parameter"`         // Node count or transaction count
	Value     float64   `json:"Value"`             // Reported value
	Unit      string    `json:"Unit"`              // Unit of the value
	Samples   []float64 `json:"Samples,omitempty"` // Per iteration values, when there are several
	Summary   *Summary  `json:"Summary,omitempty"` // Statistics of the samples
	Submitted int       `json:"Submitted,omitempty"`
	Failed    int       `json:"Failed,omitempty"`
	Aborted   bool      `json:"Aborted,omitempty"`
}

// Report gathers every measurement of a run.
type Report struct {
	RunID        string          `json:"RunID"`
	Name         string          `json:"Name"`
	Endpoint     string          `json:"Endpoint"`
	Started      time.Time       `json:"Started"`
	Finished     time.Time       `json:"Finished"`
	Measurements []Measurement   `json:"Measurements"`
	Features     map[string]bool `json:"Features"`
}

// Summary stores the calculated information of a series of samples.
type Summary struct {
	Min    float64 // smallest value observed
	Max    float64 // highest value observed
	Mean   float64 // average value
	Median float64 // median value
}

// NewReport starts a report with a fresh run identifier.
func NewReport(name, endpoint string) *Report {
	return &Report{
		RunID:        uuid.NewString(),
		Name:         name,
		Endpoint:     endpoint,
		Started:      time.Now(),
		Measurements: make([]Measurement, 0),
	}
}

// Add appends a measurement to the report.
func (r *Report) Add(m Measurement) {
	r.Measurements = append(r.Measurements, m)
}

// Filter returns the measurements of one kind, in the order they were added.
func (r *Report) Filter(kind string) []Measurement {
	ret := make([]Measurement, 0)

	for _, m := range r.Measurements {
		if m.Kind == kind {
			ret = append(ret, m)
		}
	}

	return ret
}

// Summarize calculates the statistics of the given samples. An empty series
// gives a zero summary.
func Summarize(samples []float64) Summary {
	if len(samples) == 0 {
		return Summary{}
	}

	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	total := float64(0)
	for _, s := range sorted {
		total += s
	}

	var median float64

	// If it's even
	midNumber := len(sorted) / 2
	if len(sorted)%2 == 0 {
		median = (sorted[midNumber-1] + sorted[midNumber]) / 2
	} else {
		median = sorted[midNumber]
	}

	return Summary{
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Mean:   total / float64(len(sorted)),
		Median: median,
	}
}
