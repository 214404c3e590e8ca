package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "SWAPEXTRACT"

// Defaults reproduce the ETH/RAI pair extraction.
const (
	DefaultSource       = SourceHyperSync
	DefaultHyperSyncURL = "https://eth.hypersync.xyz"
	DefaultAddress      = "0x3e47D7B7867BAbB558B163F92fBE352161ACcb49"
	DefaultTopic0       = "0xd78ad95fa46c994b6551d0da85fc275fe613ce37657fb8d5e3d130840159d822"
	DefaultFromBlock    = uint64(0)
	DefaultToBlock      = uint64(20_333_826)
	DefaultOut          = "swap_events.json"
	DefaultLogLevel     = "info"
)

// Log sources.
const (
	SourceHyperSync = "hypersync"
	SourceRPC       = "rpc"
)

// Config holds extract configuration loaded from flags, env, or config file.
type Config struct {
	Source         string
	HyperSyncURL   string
	HyperSyncToken string
	RPCURL         string
	Address        string
	Topic0         string
	FromBlock      uint64
	ToBlock        uint64
	Timeout        time.Duration
	StrictTopic0   bool
	Output         Output
	LogLevel       string
}

// Output holds the destinations shared by the extract and decode commands.
type Output struct {
	Out        string
	RawOut     string
	Errors     string
	PGDSN      string
	MetricsOut string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetDefault("source", DefaultSource)
	v.SetDefault("hypersync-url", DefaultHyperSyncURL)
	v.SetDefault("address", DefaultAddress)
	v.SetDefault("topic0", DefaultTopic0)
	v.SetDefault("from", DefaultFromBlock)
	v.SetDefault("to", DefaultToBlock)
	v.SetDefault("out", DefaultOut)
	v.SetDefault("timeout", time.Duration(0))
	v.SetDefault("strict-topic0", false)
	v.SetDefault("log-level", DefaultLogLevel)

	if err := read(v, cfgFile, flags); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Source:         strings.ToLower(strings.TrimSpace(v.GetString("source"))),
		HyperSyncURL:   v.GetString("hypersync-url"),
		HyperSyncToken: v.GetString("hypersync-token"),
		RPCURL:         v.GetString("rpc"),
		Address:        strings.TrimSpace(v.GetString("address")),
		Topic0:         strings.TrimSpace(v.GetString("topic0")),
		FromBlock:      v.GetUint64("from"),
		ToBlock:        v.GetUint64("to"),
		Timeout:        v.GetDuration("timeout"),
		StrictTopic0:   v.GetBool("strict-topic0"),
		Output:         loadOutput(v),
		LogLevel:       v.GetString("log-level"),
	}

	return cfg, nil
}

// Validate checks the settings that cannot be defaulted.
func (c Config) Validate() error {
	switch c.Source {
	case SourceHyperSync:
		if c.HyperSyncURL == "" {
			return fmt.Errorf("hypersync url is required")
		}
	case SourceRPC:
		if c.RPCURL == "" {
			return fmt.Errorf("rpc url is required for source %q", SourceRPC)
		}
	default:
		return fmt.Errorf("unsupported source: %q", c.Source)
	}
	if c.ToBlock != 0 && c.ToBlock < c.FromBlock {
		return fmt.Errorf("to block must be >= from block")
	}
	if c.Output.Out == "" {
		return fmt.Errorf("output path is required")
	}
	return nil
}

func loadOutput(v *viper.Viper) Output {
	return Output{
		Out:        v.GetString("out"),
		RawOut:     v.GetString("raw-out"),
		Errors:     v.GetString("errors"),
		PGDSN:      v.GetString("pg-dsn"),
		MetricsOut: v.GetString("metrics-out"),
	}
}

func read(v *viper.Viper, cfgFile string, flags *pflag.FlagSet) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return fmt.Errorf("read config: %w", err)
			}
		}
	}
	return nil
}
