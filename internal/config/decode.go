package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DecodeConfig holds configuration for the decode command.
type DecodeConfig struct {
	In           string
	StrictTopic0 bool
	Output       Output
	LogLevel     string
}

// LoadDecode merges config file, environment variables, and flags into DecodeConfig.
func LoadDecode(cfgFile string, flags *pflag.FlagSet) (DecodeConfig, error) {
	v := viper.New()
	v.SetDefault("out", DefaultOut)
	v.SetDefault("strict-topic0", false)
	v.SetDefault("log-level", DefaultLogLevel)

	if err := read(v, cfgFile, flags); err != nil {
		return DecodeConfig{}, err
	}

	cfg := DecodeConfig{
		In:           v.GetString("in"),
		StrictTopic0: v.GetBool("strict-topic0"),
		Output:       loadOutput(v),
		LogLevel:     v.GetString("log-level"),
	}

	return cfg, nil
}

// Validate checks required paths.
func (c DecodeConfig) Validate() error {
	if c.In == "" {
		return fmt.Errorf("input path is required")
	}
	if c.Output.Out == "" {
		return fmt.Errorf("output path is required")
	}
	return nil
}
