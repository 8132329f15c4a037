package core

import (
	"context"
	"fmt"
	"io"
	"ledgerbench/core/configs"
	"ledgerbench/core/results"
	"time"

	"go.uber.org/zap"
)

// Run executes the plan of the benchmark configuration: consensus time for
// every node count, throughput for every transaction count, traceability for
// every transaction count, then the feature flags. Each result is printed on
// out as soon as it is measured and added to the report.
//
// A consensus or traceability failure stops the run. Throughput failures
// only shorten the measurement they occur in.
func Run(ctx context.Context, d *Driver, bench *configs.BenchConfig, report *results.Report, out io.Writer) error {
	emit := func(m results.Measurement) error {
		report.Add(m)
		return results.PrintMeasurement(out, m)
	}

	for _, nodes := range bench.Consensus.Nodes {
		zap.L().Info("measuring consensus time",
			zap.Int("nodes", nodes),
			zap.Int("iterations", bench.Consensus.Iterations))

		samples, err := d.MeasureConsensusSamples(ctx, bench.Consensus.Iterations, nodes)
		if err != nil {
			return fmt.Errorf("consensus time with %d nodes: %w", nodes, err)
		}

		summary := results.Summarize(samples)

		err = emit(results.Measurement{
			Kind:      results.KindConsensus,
			Parameter: nodes,
			Value:     summary.Mean,
			Unit:      results.UnitMilliseconds,
			Samples:   samples,
			Summary:   &summary,
		})
		if err != nil {
			return err
		}
	}

	for _, txs := range bench.Throughput.Txs {
		zap.L().Info("measuring throughput",
			zap.Int("txs", txs),
			zap.Int("batch", bench.Throughput.Batch))

		stats, err := d.MeasureThroughputStats(ctx, txs, bench.Throughput.Batch)
		if err != nil {
			return fmt.Errorf("throughput with %d transactions: %w", txs, err)
		}

		err = emit(results.Measurement{
			Kind:      results.KindThroughput,
			Parameter: txs,
			Value:     stats.Rate,
			Unit:      results.UnitSubmittedTPS,
			Submitted: stats.Submitted,
			Failed:    stats.Failed,
			Aborted:   stats.Aborted,
		})
		if err != nil {
			return err
		}
	}

	for _, txs := range bench.Traceability.Txs {
		zap.L().Info("measuring traceability", zap.Int("txs", txs))

		ms, err := d.MeasureTraceability(ctx, txs)
		if err != nil {
			return fmt.Errorf("traceability with %d transactions: %w", txs, err)
		}

		err = emit(results.Measurement{
			Kind:      results.KindTraceability,
			Parameter: txs,
			Value:     ms,
			Unit:      results.UnitMilliseconds,
		})
		if err != nil {
			return err
		}
	}

	report.Features = d.ReportFeatures()
	report.Finished = time.Now()

	return results.PrintFeatures(out, report.Features)
}
