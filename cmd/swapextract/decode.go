package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"swapextract/internal/config"
	"swapextract/internal/decode"
	"swapextract/internal/extract"
	"swapextract/internal/storage"
)

func runDecode(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadDecode(cfgFile, cmd.Flags())
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

	decoder, err := decode.NewSwapDecoder(decode.Config{StrictTopic0: cfg.StrictTopic0})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// raw-out only applies to extract.
	outCfg := cfg.Output
	outCfg.RawOut = ""

	sinks, err := openOutputs(ctx, outCfg, logger)
	if err != nil {
		return err
	}
	defer sinks.Close()

	logs, failures, err := storage.ReadRawLogs(cfg.In)
	if err != nil {
		return err
	}

	logger.Info("decode start",
		zap.String("in", cfg.In),
		zap.String("out", cfg.Output.Out),
		zap.Int("logs", len(logs)),
		zap.Int("unparseable", len(failures)),
	)

	runner := extract.NewRunner(extract.RunConfig{}, nil, decoder, sinks.events, sinks.options(logger)...)
	_, runErr := runner.Process(ctx, logs, failures)
	if err := sinks.writeMetrics(); err != nil {
		logger.Warn("write metrics failed", zap.Error(err))
	}
	return runErr
}
