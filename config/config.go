package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "GOLD_SPLITTER"

const (
	KeyVerbose           = "verbose"
	KeySnapshotFrequency = "snapshot_frequency"
	KeyDefaultParties    = "default_parties"
	KeyHistoryLimit      = "history_limit"
	KeyEnvFile           = "env_file"
)

const (
	defaultSnapshotFrequency = 100
	defaultParties           = 1
)

// Config holds runtime settings for the CLI and the session service.
type Config struct {
	Verbose           bool
	SnapshotFrequency int
	DefaultParties    int64
	HistoryLimit      int
}

// Load builds the configuration from, lowest precedence first: defaults, an
// optional .env file, GOLD_SPLITTER_* environment variables and the given flags.
// Flag names use dashes (snapshot-frequency) and map onto the underscore keys.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeySnapshotFrequency, defaultSnapshotFrequency)
	v.SetDefault(KeyDefaultParties, defaultParties)
	v.SetDefault(KeyHistoryLimit, 0)
	v.SetDefault(KeyEnvFile, ".env")

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
				bindErr = fmt.Errorf("binding flag --%s: %w", f.Name, err)
			}
		})
		if bindErr != nil {
			return nil, bindErr
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	// godotenv never overrides variables that are already set, so real
	// environment values keep precedence over the file.
	envFile := v.GetString(KeyEnvFile)
	if err := godotenv.Load(envFile); err != nil {
		if flags != nil && flags.Changed("env-file") {
			return nil, fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		Verbose:           v.GetBool(KeyVerbose),
		SnapshotFrequency: v.GetInt(KeySnapshotFrequency),
		DefaultParties:    v.GetInt64(KeyDefaultParties),
		HistoryLimit:      v.GetInt(KeyHistoryLimit),
	}

	if cfg.SnapshotFrequency <= 0 {
		log.Printf("Warning: Invalid %s (%d). Defaulting to %d.", KeySnapshotFrequency, cfg.SnapshotFrequency, defaultSnapshotFrequency)
		cfg.SnapshotFrequency = defaultSnapshotFrequency
	}
	if cfg.HistoryLimit < 0 {
		log.Printf("Warning: Invalid %s (%d). Showing full history.", KeyHistoryLimit, cfg.HistoryLimit)
		cfg.HistoryLimit = 0
	}

	return cfg, nil
}
