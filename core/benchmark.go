package core

import (
	"context"
	"errors"
	"fmt"
	"ledgerbench/blockchains/clientinterfaces"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Driver runs the measurements against a single node connection. Every
// measurement is synchronous: a call returns once the node has answered all
// of its requests.
type Driver struct {
	node       clientinterfaces.BlockchainInterface
	batchPause time.Duration
	clock      Clock
}

// ThroughputStats details a throughput measurement.
type ThroughputStats struct {
	Rate      float64       // Transactions per second, see MeasureThroughput
	Submitted int           // Transactions the node accepted
	Failed    int           // Transactions the node rejected
	Elapsed   time.Duration // Wall clock time of the whole measurement
	Aborted   bool          // Whether a batch-level failure stopped the run
}

// NewDriver returns a driver sending over the given connection. The
// connection must expose at least two accounts, which Connect guarantees.
func NewDriver(node clientinterfaces.BlockchainInterface, batchPause time.Duration) *Driver {
	return &Driver{
		node:       node,
		batchPause: batchPause,
		clock:      systemClock{},
	}
}

// pair returns the sender and receiver of the i-th transfer of a sequence,
// rotating over the accounts.
func (d *Driver) pair(i int) (common.Address, common.Address) {
	accounts := d.node.Accounts()
	return accounts[i%len(accounts)], accounts[(i+1)%len(accounts)]
}

// MeasureConsensusSamples returns, for every iteration, the milliseconds
// needed to send nodeCount transfers one after the other, each one waiting
// for its receipt before the next is sent. The first failure aborts the
// measurement.
func (d *Driver) MeasureConsensusSamples(ctx context.Context, iterations, nodeCount int) ([]float64, error) {
	if iterations <= 0 {
		return nil, fmt.Errorf("iterations %d must be positive", iterations)
	}

	if nodeCount <= 0 {
		return nil, fmt.Errorf("node count %d must be positive", nodeCount)
	}

	samples := make([]float64, 0, iterations)

	for it := 0; it < iterations; it++ {
		start := d.clock.Now()

		for i := 0; i < nodeCount; i++ {
			from, to := d.pair(i)

			hash, err := d.node.SendTransfer(ctx, from, to)
			if err != nil {
				return nil, fmt.Errorf("consensus transfer %d: %w", i, err)
			}

			_, err = d.node.WaitForReceipt(ctx, hash)
			if err != nil {
				return nil, fmt.Errorf("consensus receipt %s: %w", hash, err)
			}
		}

		samples = append(samples, elapsedMs(d.clock.Now().Sub(start)))
	}

	zap.L().Debug("consensus measured",
		zap.Int("iterations", iterations),
		zap.Int("nodes", nodeCount))

	return samples, nil
}

// MeasureConsensusTime returns the mean milliseconds per iteration of
// MeasureConsensusSamples.
func (d *Driver) MeasureConsensusTime(ctx context.Context, iterations, nodeCount int) (float64, error) {
	samples, err := d.MeasureConsensusSamples(ctx, iterations, nodeCount)
	if err != nil {
		return 0, err
	}

	total := float64(0)
	for _, s := range samples {
		total += s
	}

	return total / float64(iterations), nil
}

// MeasureThroughputStats submits txCount transfers in batches of batchSize
// without waiting for receipts, pausing after every batch. A rejected
// transfer is logged and skipped. A batch-level failure is logged and stops
// the remaining batches, the partial timing is still reported.
func (d *Driver) MeasureThroughputStats(ctx context.Context, txCount, batchSize int) (ThroughputStats, error) {
	var stats ThroughputStats

	if batchSize <= 0 {
		return stats, fmt.Errorf("batch size %d must be positive", batchSize)
	}

	start := d.clock.Now()

	err := d.submitBatches(ctx, txCount, batchSize, &stats)
	if err != nil {
		zap.L().Error("throughput test failed", zap.Error(err))
		stats.Aborted = true
	}

	stats.Elapsed = d.clock.Now().Sub(start)

	// The rate counts full batches only, whether or not every transfer
	// was accepted.
	if stats.Elapsed > 0 {
		stats.Rate = float64(txCount-txCount%batchSize) / stats.Elapsed.Seconds()
	}

	zap.L().Debug("throughput measured",
		zap.Int("txs", txCount),
		zap.Int("batch", batchSize),
		zap.Int("submitted", stats.Submitted),
		zap.Int("failed", stats.Failed),
		zap.Duration("elapsed", stats.Elapsed))

	return stats, nil
}

func (d *Driver) submitBatches(ctx context.Context, txCount, batchSize int, stats *ThroughputStats) error {
	for i := 0; i < txCount; i += batchSize {
		end := i + batchSize
		if end > txCount {
			end = txCount
		}

		for j := i; j < end; j++ {
			from, to := d.pair(j)

			_, err := d.node.SendTransfer(ctx, from, to)
			if err == nil {
				stats.Submitted++
				continue
			}

			// A dead context fails every remaining transfer
			if ctxErr := ctx.Err(); ctxErr != nil {
				return fmt.Errorf("batch at %d: %w", i, ctxErr)
			}

			stats.Failed++
			zap.L().Warn("transaction failed to send",
				zap.Int("index", j),
				zap.Error(err))
		}

		err := d.clock.Sleep(ctx, d.batchPause)
		if err != nil {
			return fmt.Errorf("pause after batch at %d: %w", i, err)
		}
	}

	return nil
}

// MeasureThroughput returns the submission rate in transactions per second.
// The numerator is txCount rounded down to a multiple of batchSize; a zero
// elapsed time gives 0.
func (d *Driver) MeasureThroughput(ctx context.Context, txCount, batchSize int) (float64, error) {
	stats, err := d.MeasureThroughputStats(ctx, txCount, batchSize)
	return stats.Rate, err
}

// MeasureTraceability submits txCount transfers, then returns the
// milliseconds taken by a single receipt lookup of the last one.
func (d *Driver) MeasureTraceability(ctx context.Context, txCount int) (float64, error) {
	if txCount <= 0 {
		return 0, fmt.Errorf("transaction count %d must be positive", txCount)
	}

	var last common.Hash

	for i := 0; i < txCount; i++ {
		from, to := d.pair(i)

		hash, err := d.node.SendTransfer(ctx, from, to)
		if err != nil {
			return 0, fmt.Errorf("traceability transfer %d: %w", i, err)
		}

		last = hash
	}

	start := d.clock.Now()
	_, err := d.node.TransactionReceipt(ctx, last)
	elapsed := d.clock.Now().Sub(start)

	if err != nil {
		return 0, fmt.Errorf("receipt lookup %s: %w", last, err)
	}

	return elapsedMs(elapsed), nil
}

// ReportFeatures describes the platform under test, see Features.
func (d *Driver) ReportFeatures() map[string]bool {
	return Features()
}

// Features returns the capability flags of the platform under test. They
// are descriptive and always true.
func Features() map[string]bool {
	return map[string]bool{
		"tamper_proof":   true,
		"verifiable":     true,
		"traceable":      true,
		"smart_contract": true,
	}
}

// IsInitError reports whether err comes from connecting to the node.
func IsInitError(err error) bool {
	var connErr *clientinterfaces.ConnectivityError
	var accErr *clientinterfaces.InsufficientAccountsError

	return errors.As(err, &connErr) || errors.As(err, &accErr)
}
