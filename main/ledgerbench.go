package main

import (
	"context"
	"fmt"
	"io"
	"ledgerbench/blockchains/clientinterfaces"
	"ledgerbench/core"
	"ledgerbench/core/configs"
	"ledgerbench/core/configs/parsers"
	"ledgerbench/core/results"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func printWelcome(w io.Writer) {
	fmt.Fprintln(w, "=========================")
	fmt.Fprintln(w, "  Welcome to Ledgerbench ")
	fmt.Fprintln(w, "=========================")
}

// prepareLogger installs the global logger, the run continues without logs
// if it cannot be built.
func prepareLogger(verbose bool) {
	logger, err := core.NewLogger(verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to produce a logger: %s\n", err.Error())
		return
	}

	core.SetLogger(logger)
}

func newRootCmd() *cobra.Command {
	args := &core.BenchArgs{}

	root := &cobra.Command{
		Use:   "ledgerbench",
		Short: "Latency and throughput benchmark of a local Ethereum test network",
		Long: `Ledgerbench submits value transfers to a running node (Ganache by default)
and reports the confirmed round-trip time, the submission rate and the receipt
lookup time.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	run := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmark plan against the node",
		PersistentPreRun: func(*cobra.Command, []string) {
			prepareLogger(args.Verbose)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBenchmark(cmd.Context(), args, cmd.OutOrStdout())
		},
	}

	flags := run.Flags()
	flags.StringVarP(&args.BenchConfigPath, "config", "c", "",
		"Path to the benchmark configuration (default plan when empty)")
	flags.StringVar(&args.ChainConfigPath, "chain-config", "",
		"Path to the chain configuration (endpoint, accounts, keys)")
	flags.StringVarP(&args.Endpoint, "endpoint", "e", "",
		"JSON-RPC endpoint of the node, overrides the chain configuration (default "+configs.DefaultEndpoint+")")
	flags.IntVar(&args.MinAccounts, "min-accounts", 0,
		"Minimum number of accounts the node must expose (default 2)")
	flags.StringVarP(&args.OutputDir, "output", "o", "",
		"Directory to write the JSON results and configuration copies to")
	flags.BoolVar(&args.JSON, "json", false,
		"Print the JSON report after the result lines")
	flags.BoolVarP(&args.Verbose, "verbose", "v", false,
		"Enable debug logging")

	features := &cobra.Command{
		Use:   "features",
		Short: "Print the feature flags of the platform under test",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return results.PrintFeatures(cmd.OutOrStdout(), core.Features())
		},
	}

	root.AddCommand(run, features)

	return root
}

// runBenchmark connects to the node then runs the whole plan. A connection
// failure ends the run before any measurement.
func runBenchmark(ctx context.Context, args *core.BenchArgs, out io.Writer) error {
	err := args.CheckArgs()
	if err != nil {
		return err
	}

	chain, bench, err := args.LoadConfigs()
	if err != nil {
		return err
	}

	printWelcome(os.Stderr)

	zap.L().Info("benchmark plan",
		zap.String("name", bench.Name),
		zap.String("endpoint", chain.Endpoint),
		zap.Int("transactions", parsers.GetTotalNumberOfTransactions(bench)))

	conn, err := clientinterfaces.Connect(ctx, chain, bench)
	if err != nil {
		zap.L().Error("failed to initialise the blockchain connection", zap.Error(err))
		return err
	}
	defer conn.Close()

	driver := core.NewDriver(conn, bench.Throughput.Pause)
	report := results.NewReport(bench.Name, chain.Endpoint)

	err = core.Run(ctx, driver, bench, report, out)
	if err != nil {
		return err
	}

	if args.JSON {
		err = results.WriteJSON(out, report)
		if err != nil {
			return err
		}
	}

	if args.OutputDir != "" {
		path, err := results.WriteResultsToFile(report, args.OutputDir, bench.Path, chain.Path)
		if err != nil {
			return err
		}

		zap.L().Info("results written", zap.String("path", path))
	}

	return nil
}

// Main running function
func main() {
	err := newRootCmd().ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "ledgerbench: %s\n", err.Error())
		if core.IsInitError(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
