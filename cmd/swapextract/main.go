package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"swapextract/internal/chain"
	"swapextract/internal/config"
	"swapextract/internal/decode"
	"swapextract/internal/extract"
	"swapextract/internal/hypersync"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "swapextract",
		Short:        "Uniswap V2 Swap event extractor",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	extractCmd := &cobra.Command{
		Use:   "extract",
		Short: "Fetch Swap logs once and write decoded events",
		RunE:  runExtract,
	}

	extractCmd.Flags().String("source", config.DefaultSource, "log source (hypersync, rpc)")
	extractCmd.Flags().String("hypersync-url", config.DefaultHyperSyncURL, "HyperSync endpoint")
	extractCmd.Flags().String("hypersync-token", "", "HyperSync bearer token")
	extractCmd.Flags().String("rpc", "", "Ethereum RPC URL (source=rpc)")
	extractCmd.Flags().String("address", config.DefaultAddress, "pair contract address")
	extractCmd.Flags().String("topic0", config.DefaultTopic0, "Swap event topic0")
	extractCmd.Flags().Uint64("from", config.DefaultFromBlock, "start block (inclusive)")
	extractCmd.Flags().Uint64("to", config.DefaultToBlock, "end block (exclusive), 0 means open-ended")
	extractCmd.Flags().Duration("timeout", 0, "fetch timeout, 0 disables it")
	extractCmd.Flags().Bool("strict-topic0", false, "reject logs whose topic0 is not the Swap event")
	addOutputFlags(extractCmd)
	extractCmd.Flags().String("raw-out", "", "optional raw logs JSONL path")
	extractCmd.Flags().String("log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")

	root.AddCommand(extractCmd)

	decodeCmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode a raw log JSONL file into swap events",
		RunE:  runDecode,
	}

	decodeCmd.Flags().String("in", "", "input raw logs JSONL")
	decodeCmd.Flags().Bool("strict-topic0", false, "reject logs whose topic0 is not the Swap event")
	addOutputFlags(decodeCmd)
	decodeCmd.Flags().String("log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")

	root.AddCommand(decodeCmd)

	return root
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().String("out", config.DefaultOut, "output JSON path")
	cmd.Flags().String("errors", "", "optional decode errors JSONL path")
	cmd.Flags().String("pg-dsn", "", "optional Postgres DSN")
	cmd.Flags().String("metrics-out", "", "optional Prometheus textfile path")
}

func runExtract(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	query, err := extract.BuildQuery(cfg.Address, cfg.Topic0, cfg.FromBlock, cfg.ToBlock)
	if err != nil {
		return err
	}

	decoder, err := decode.NewSwapDecoder(decode.Config{StrictTopic0: cfg.StrictTopic0})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, closeSource, err := newLogSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSource()

	sinks, err := openOutputs(ctx, cfg.Output, logger)
	if err != nil {
		return err
	}
	defer sinks.Close()

	logger.Info("extract start",
		zap.String("source", cfg.Source),
		zap.Uint64("from", cfg.FromBlock),
		zap.Uint64("to", cfg.ToBlock),
		zap.String("out", cfg.Output.Out),
		zap.Bool("strict_topic0", cfg.StrictTopic0),
	)

	runner := extract.NewRunner(extract.RunConfig{
		Query:   query,
		Timeout: cfg.Timeout,
	}, source, decoder, sinks.events, sinks.options(logger)...)

	_, runErr := runner.Run(ctx)
	if err := sinks.writeMetrics(); err != nil {
		logger.Warn("write metrics failed", zap.Error(err))
	}
	return runErr
}

func newLogSource(ctx context.Context, cfg config.Config, logger *zap.Logger) (extract.LogSource, func(), error) {
	switch cfg.Source {
	case config.SourceRPC:
		client, err := chain.NewClient(ctx, cfg.RPCURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect rpc: %w", err)
		}
		return client, client.Close, nil
	default:
		client := hypersync.NewClient(cfg.HyperSyncURL,
			hypersync.WithToken(cfg.HyperSyncToken),
			hypersync.WithLogger(logger),
		)
		return client, func() {}, nil
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stdout"}

	return cfg.Build()
}
