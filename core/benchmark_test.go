package core

import (
	"context"
	"errors"
	"ledgerbench/blockchains/clientinterfaces"
	"ledgerbench/blockchains/mock"
	"math/big"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepClock advances by step on every reading and by the slept duration on
// every sleep, unless frozen.
type stepClock struct {
	now    time.Time
	step   time.Duration
	frozen bool
	sleeps int
}

func (c *stepClock) Now() time.Time {
	t := c.now
	if !c.frozen {
		c.now = c.now.Add(c.step)
	}
	return t
}

func (c *stepClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.sleeps++
	if !c.frozen {
		c.now = c.now.Add(d)
	}
	return nil
}

func newMockDriver(t *testing.T, accounts int, pause time.Duration, clock Clock) (*Driver, *mock.Node) {
	t.Helper()

	node := mock.NewNode(accounts)
	t.Cleanup(node.Close)

	conn, err := clientinterfaces.NewEthereumInterface(context.Background(), node.Client(), "inproc", clientinterfaces.Options{
		MinAccounts: 2,
		Transfer:    clientinterfaces.Transfer{Value: big.NewInt(1), Gas: 21000},
		ReceiptPoll: time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(conn.Close)

	d := NewDriver(conn, pause)
	d.clock = clock

	return d, node
}

// recordingNode is a node that remembers every call.
type recordingNode struct {
	accounts   []common.Address
	calls      []string
	pairs      [][2]common.Address
	receiptErr error
	hashes     int
}

func (n *recordingNode) Accounts() []common.Address {
	return n.accounts
}

func (n *recordingNode) SendTransfer(_ context.Context, from, to common.Address) (common.Hash, error) {
	n.hashes++
	n.calls = append(n.calls, "send")
	n.pairs = append(n.pairs, [2]common.Address{from, to})
	return common.BigToHash(big.NewInt(int64(n.hashes))), nil
}

func (n *recordingNode) WaitForReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	n.calls = append(n.calls, "wait")
	return &types.Receipt{TxHash: hash}, nil
}

func (n *recordingNode) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	n.calls = append(n.calls, "lookup:"+hash.Hex())
	if n.receiptErr != nil {
		return nil, n.receiptErr
	}
	return &types.Receipt{TxHash: hash}, nil
}

func (n *recordingNode) Close() {}

func newRecordingNode(accounts int) *recordingNode {
	n := &recordingNode{}
	for i := 0; i < accounts; i++ {
		n.accounts = append(n.accounts, common.BigToAddress(big.NewInt(int64(i+1))))
	}
	return n
}

func TestReportFeatures(t *testing.T) {
	expected := map[string]bool{
		"tamper_proof":   true,
		"verifiable":     true,
		"traceable":      true,
		"smart_contract": true,
	}

	t.Run("without connection", func(t *testing.T) {
		assert.Equal(t, expected, (&Driver{}).ReportFeatures())
		assert.Equal(t, expected, Features())
	})

	t.Run("with connection", func(t *testing.T) {
		d, _ := newMockDriver(t, 2, 0, &stepClock{})
		assert.Equal(t, expected, d.ReportFeatures())
	})

	t.Run("callers cannot alter the flags", func(t *testing.T) {
		f := Features()
		f["traceable"] = false
		assert.True(t, Features()["traceable"])
	})
}

func TestInitialization(t *testing.T) {
	t.Run("unreachable endpoint", func(t *testing.T) {
		server := httptest.NewServer(nil)
		server.Close()

		_, err := clientinterfaces.Dial(context.Background(), server.URL, clientinterfaces.Options{MinAccounts: 2})

		var connErr *clientinterfaces.ConnectivityError
		assert.True(t, errors.As(err, &connErr))
		assert.True(t, IsInitError(err))
	})

	t.Run("too few accounts", func(t *testing.T) {
		node := mock.NewNode(1)
		defer node.Close()

		_, err := clientinterfaces.NewEthereumInterface(context.Background(), node.Client(), "inproc", clientinterfaces.Options{MinAccounts: 2})

		assert.True(t, IsInitError(err))
		assert.Contains(t, err.Error(), "1 accounts")
	})

	t.Run("other errors", func(t *testing.T) {
		assert.False(t, IsInitError(errors.New("boom")))
	})
}

func TestMeasureConsensusTime(t *testing.T) {
	t.Run("single cycle", func(t *testing.T) {
		d, node := newMockDriver(t, 2, 0, &stepClock{step: 5 * time.Millisecond})

		ms, err := d.MeasureConsensusTime(context.Background(), 1, 1)

		require.NoError(t, err)
		assert.InDelta(t, 5.0, ms, 1e-9)
		assert.Equal(t, 1, node.Sent())
		assert.Equal(t, 1, node.ReceiptQueries())
	})

	t.Run("waits for receipts", func(t *testing.T) {
		d, node := newMockDriver(t, 2, 0, &stepClock{step: time.Millisecond})
		node.SetReceiptDelay(2)

		_, err := d.MeasureConsensusTime(context.Background(), 2, 3)

		require.NoError(t, err)
		assert.Equal(t, 6, node.Sent())
		assert.Equal(t, 18, node.ReceiptQueries())
	})

	t.Run("sequential rotating pairs", func(t *testing.T) {
		node := newRecordingNode(3)
		d := NewDriver(node, 0)
		d.clock = &stepClock{step: 2 * time.Millisecond}

		samples, err := d.MeasureConsensusSamples(context.Background(), 2, 4)

		require.NoError(t, err)
		assert.Equal(t, []float64{2, 2}, samples)

		a := node.accounts
		assert.Equal(t, [][2]common.Address{
			{a[0], a[1]}, {a[1], a[2]}, {a[2], a[0]}, {a[0], a[1]},
			{a[0], a[1]}, {a[1], a[2]}, {a[2], a[0]}, {a[0], a[1]},
		}, node.pairs)

		for i, call := range node.calls {
			if i%2 == 0 {
				assert.Equal(t, "send", call)
			} else {
				assert.Equal(t, "wait", call)
			}
		}
	})

	t.Run("failure propagates", func(t *testing.T) {
		d, node := newMockDriver(t, 2, 0, &stepClock{})
		node.SetSendHook(func(index int) error {
			if index == 2 {
				return errors.New("rejected")
			}
			return nil
		})

		_, err := d.MeasureConsensusTime(context.Background(), 5, 2)

		assert.Error(t, err)
		assert.Equal(t, 3, node.Sent())
	})

	t.Run("invalid arguments", func(t *testing.T) {
		d := NewDriver(newRecordingNode(2), 0)

		_, err := d.MeasureConsensusTime(context.Background(), 0, 4)
		assert.Error(t, err)

		_, err = d.MeasureConsensusTime(context.Background(), 1, 0)
		assert.Error(t, err)
	})
}

func TestMeasureThroughput(t *testing.T) {
	t.Run("numerator rounds down to full batches", func(t *testing.T) {
		clock := &stepClock{}
		d, node := newMockDriver(t, 2, time.Second, clock)

		stats, err := d.MeasureThroughputStats(context.Background(), 250, 100)

		require.NoError(t, err)
		assert.Equal(t, 250, node.Sent())
		assert.Equal(t, 250, stats.Submitted)
		assert.Equal(t, 3, clock.sleeps)
		assert.Equal(t, 3*time.Second, stats.Elapsed)
		assert.InDelta(t, 200.0/3.0, stats.Rate, 1e-9)
		assert.False(t, stats.Aborted)
	})

	t.Run("zero elapsed time gives zero", func(t *testing.T) {
		d, _ := newMockDriver(t, 2, time.Second, &stepClock{frozen: true})

		rate, err := d.MeasureThroughput(context.Background(), 100, 10)

		require.NoError(t, err)
		assert.Equal(t, float64(0), rate)
	})

	t.Run("rejected transactions are skipped", func(t *testing.T) {
		d, node := newMockDriver(t, 3, time.Second, &stepClock{})
		node.SetSendHook(func(index int) error {
			if index%10 == 0 {
				return errors.New("rejected")
			}
			return nil
		})

		stats, err := d.MeasureThroughputStats(context.Background(), 100, 50)

		require.NoError(t, err)
		assert.Equal(t, 100, node.Sent())
		assert.Equal(t, 90, node.Accepted())
		assert.Equal(t, 90, stats.Submitted)
		assert.Equal(t, 10, stats.Failed)
		assert.InDelta(t, 100.0/2.0, stats.Rate, 1e-9)
	})

	t.Run("batch failure aborts with partial rate", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		d, node := newMockDriver(t, 2, time.Second, &stepClock{})
		node.SetSendHook(func(index int) error {
			if index == 150 {
				cancel()
				return errors.New("shutting down")
			}
			return nil
		})

		stats, err := d.MeasureThroughputStats(ctx, 250, 100)

		require.NoError(t, err)
		assert.True(t, stats.Aborted)
		assert.Equal(t, 151, node.Sent())
		assert.Equal(t, 150, stats.Submitted)
		assert.Equal(t, time.Second, stats.Elapsed)
		assert.InDelta(t, 200.0, stats.Rate, 1e-9)
	})

	t.Run("invalid batch size", func(t *testing.T) {
		d := NewDriver(newRecordingNode(2), 0)

		_, err := d.MeasureThroughput(context.Background(), 100, 0)
		assert.Error(t, err)
	})
}

func TestMeasureTraceability(t *testing.T) {
	t.Run("times one lookup of the last hash", func(t *testing.T) {
		node := newRecordingNode(2)
		d := NewDriver(node, 0)
		d.clock = &stepClock{step: 3 * time.Millisecond}

		ms, err := d.MeasureTraceability(context.Background(), 5)

		require.NoError(t, err)
		assert.InDelta(t, 3.0, ms, 1e-9)
		require.Len(t, node.calls, 6)
		assert.Equal(t, "lookup:"+common.BigToHash(big.NewInt(5)).Hex(), node.calls[5])
	})

	t.Run("against the mock node", func(t *testing.T) {
		d, node := newMockDriver(t, 2, 0, &stepClock{step: time.Millisecond})

		_, err := d.MeasureTraceability(context.Background(), 20)

		require.NoError(t, err)
		assert.Equal(t, 20, node.Sent())
		assert.Equal(t, 1, node.ReceiptQueries())
	})

	t.Run("lookup failure propagates", func(t *testing.T) {
		node := newRecordingNode(2)
		node.receiptErr = ethereum.NotFound
		d := NewDriver(node, 0)

		_, err := d.MeasureTraceability(context.Background(), 1)
		assert.True(t, errors.Is(err, ethereum.NotFound))
	})

	t.Run("nothing to look up", func(t *testing.T) {
		d := NewDriver(newRecordingNode(2), 0)

		_, err := d.MeasureTraceability(context.Background(), 0)
		assert.Error(t, err)
	})
}
