package validators

import (
	"errors"
	"fmt"
	"ledgerbench/core/configs"

	"go.uber.org/zap"
)

// Validates all fields of the benchmark configuration
// Determines the validity and returns a boolean whether it is
// valid or invalid.
func ValidateBenchConfig(c *configs.BenchConfig) (bool, error) {
	// Empty name is an error
	if len(c.Name) == 0 {
		return false, errors.New("missing benchmark name")
	}

	// Description can be omitted, but we will warn.
	if len(c.Description) == 0 {
		zap.L().Warn("Missing description in configuration file.")
	}

	if c.Consensus.Iterations <= 0 {
		return false, fmt.Errorf("consensus iterations %d must be positive", c.Consensus.Iterations)
	}

	if ok, err := checkCounts("consensus nodes", c.Consensus.Nodes); !ok {
		return false, err
	}

	if ok, err := checkCounts("throughput txs", c.Throughput.Txs); !ok {
		return false, err
	}

	if c.Throughput.Batch <= 0 {
		return false, fmt.Errorf("throughput batch %d must be positive", c.Throughput.Batch)
	}

	if c.Throughput.Pause < 0 {
		return false, fmt.Errorf("throughput pause %s cannot be negative", c.Throughput.Pause)
	}

	if ok, err := checkCounts("traceability txs", c.Traceability.Txs); !ok {
		return false, err
	}

	if c.Transfer.Value < 0 {
		return false, fmt.Errorf("transfer value %f cannot be negative", c.Transfer.Value)
	}

	if c.Transfer.GasPrice < 0 {
		return false, fmt.Errorf("transfer gas price %f cannot be negative", c.Transfer.GasPrice)
	}

	if c.ReceiptPoll <= 0 {
		return false, fmt.Errorf("receipt poll interval %s must be positive", c.ReceiptPoll)
	}

	return true, nil
}

// checkCounts makes sure every entry of a measurement list is usable.
// An empty list only skips the measurement.
func checkCounts(field string, counts []int) (bool, error) {
	for i, v := range counts {
		if v <= 0 {
			return false, fmt.Errorf("%s value %d at index %d must be positive", field, v, i)
		}
	}

	return true, nil
}
