package results

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMeasurement(t *testing.T) {
	cases := []struct {
		m    Measurement
		line string
	}{
		{Measurement{Kind: KindConsensus, Parameter: 4, Value: 12.345}, "4 nodes average consensus time: 12.35 ms"},
		{Measurement{Kind: KindThroughput, Parameter: 100, Value: 567.891}, "100 transactions throughput: 567.89 TPS"},
		{Measurement{Kind: KindTraceability, Parameter: 5000, Value: 1.2}, "5000 transactions lookup time: 1.20 ms"},
		{Measurement{Kind: "other", Parameter: 1, Value: 2, Unit: "x"}, "other 1: 2.00 x"},
	}

	for _, c := range cases {
		assert.Equal(t, c.line, FormatMeasurement(c.m))
	}
}

func TestPrintFeatures(t *testing.T) {
	var buf bytes.Buffer

	err := PrintFeatures(&buf, map[string]bool{"verifiable": true, "smart_contract": true, "traceable": false})

	assert.NoError(t, err)
	assert.Equal(t, "platform features: smart_contract=true traceable=false verifiable=true\n", buf.String())
}
