package configs

import "time"

// Defaults reproduce the plan the benchmark has always run.
const (
	DefaultIterations   = 100
	DefaultBatchSize    = 100
	DefaultBatchPause   = 100 * time.Millisecond
	DefaultReceiptPoll  = 50 * time.Millisecond
	DefaultTransferGas  = 21000
	DefaultValueEther   = 0.01
	DefaultGasPriceGwei = 50
)

var (
	DefaultNodeCounts      = []int{4, 8, 16}
	DefaultThroughputTxs   = []int{100, 1000}
	DefaultTraceabilityTxs = []int{100, 1000, 5000}
)

// Benchmark configuration structure, describes every measurement of a run.
type BenchConfig struct {
	Name         string           `yaml:"name"`                  // Name of the benchmark
	Description  string           `yaml:"description,omitempty"` // Description of what it is
	Consensus    ConsensusInfo    `yaml:"consensus"`             // Confirmed round-trip measurement
	Throughput   ThroughputInfo   `yaml:"throughput"`            // Submission rate measurement
	Traceability TraceabilityInfo `yaml:"traceability"`          // Receipt lookup measurement
	Transfer     TransferInfo     `yaml:"transfer"`              // Parameters of every transfer
	ReceiptPoll  time.Duration    `yaml:"receipt_poll"`          // Interval between receipt polls
	Path         string           `yaml:"-"`                     // Path the configuration was read from
}

// ConsensusInfo is the plan of the consensus time measurement.
type ConsensusInfo struct {
	Iterations int   `yaml:"iterations"` // Iterations averaged per node count
	Nodes      []int `yaml:"nodes"`      // Simulated node counts
}

// ThroughputInfo is the plan of the throughput measurement.
type ThroughputInfo struct {
	Txs   []int         `yaml:"txs"`   // Transaction counts
	Batch int           `yaml:"batch"` // Transactions per batch
	Pause time.Duration `yaml:"pause"` // Sleep after each batch
}

// TraceabilityInfo is the plan of the receipt lookup measurement.
type TraceabilityInfo struct {
	Txs []int `yaml:"txs"` // Transactions submitted before the lookup
}

// TransferInfo describes the value transfer sent by every measurement.
type TransferInfo struct {
	Value    float64 `yaml:"value"`     // Value in ether
	Gas      uint64  `yaml:"gas"`       // Gas limit
	GasPrice float64 `yaml:"gas_price"` // Gas price in gwei
}

// DefaultBenchConfig returns the plan used when no benchmark file is given.
func DefaultBenchConfig() *BenchConfig {
	return &BenchConfig{
		Name: "default",
		Consensus: ConsensusInfo{
			Iterations: DefaultIterations,
			Nodes:      append([]int(nil), DefaultNodeCounts...),
		},
		Throughput: ThroughputInfo{
			Txs:   append([]int(nil), DefaultThroughputTxs...),
			Batch: DefaultBatchSize,
			Pause: DefaultBatchPause,
		},
		Traceability: TraceabilityInfo{
			Txs: append([]int(nil), DefaultTraceabilityTxs...),
		},
		Transfer: TransferInfo{
			Value:    DefaultValueEther,
			Gas:      DefaultTransferGas,
			GasPrice: DefaultGasPriceGwei,
		},
		ReceiptPoll: DefaultReceiptPoll,
	}
}
