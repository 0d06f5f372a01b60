package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/lineage/pkg/pipeline"
)

// Setting keys. Each is also a flag name and, upper-cased with dashes
// replaced, a LINEAGE_* environment variable.
const (
	keyWidth        = "width"
	keyHeight       = "height"
	keyTemperature  = "temperature"
	keySeed         = "seed"
	keyPrimary      = "primary"
	keyStageTimeout = "stage-timeout"
	keyConcurrency  = "concurrency"
	keyLogFile      = "log-file"
	keyCache        = "cache"
)

// configDir returns $XDG_CONFIG_HOME/lineage, or ~/.config/lineage.
func configDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// cacheDir returns $XDG_CACHE_HOME/lineage, or ~/.cache/lineage.
func cacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// loadSettings reads user defaults. An explicit path must exist; otherwise
// config.yaml in the config directory is used when present.
func loadSettings(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(keyConcurrency, defaultConcurrency)
	v.SetDefault(keyCache, true)

	if path == "" {
		if dir, err := configDir(); err == nil {
			candidate := filepath.Join(dir, "config.yaml")
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
	}
	if path == "" {
		return v, nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || os.IsNotExist(err) {
			return nil, fmt.Errorf("settings file %s not found", path)
		}
		return nil, fmt.Errorf("read settings %s: %w", path, err)
	}
	return v, nil
}

// bindFlags lets the command's flags take precedence over the environment
// and the settings file for the given keys.
func bindFlags(v *viper.Viper, cmd *cobra.Command, keys ...string) error {
	for _, key := range keys {
		f := cmd.Flags().Lookup(key)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", key, err)
		}
	}
	return nil
}

// applyOverrides layers run settings over a pipeline definition. Only keys
// that were set somewhere replace the file's values.
func applyOverrides(v *viper.Viper, cfg *pipeline.Config) {
	if v.IsSet(keyWidth) {
		cfg.CanvasWidth = v.GetFloat64(keyWidth)
	}
	if v.IsSet(keyHeight) {
		cfg.CanvasHeight = v.GetFloat64(keyHeight)
	}
	if v.IsSet(keyTemperature) {
		cfg.Temperature = v.GetFloat64(keyTemperature)
	}
	if v.IsSet(keySeed) {
		cfg.Seed = v.GetString(keySeed)
	}
	if v.IsSet(keyPrimary) {
		cfg.PrimaryIndividualID = v.GetString(keyPrimary)
	}
}

// addRunFlags registers the flags shared by run, watch and batch.
func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64(keyWidth, pipeline.DefaultWidth, "canvas width")
	f.Float64(keyHeight, pipeline.DefaultHeight, "canvas height")
	f.Float64(keyTemperature, pipeline.DefaultTemperature, "variance temperature in [0, 1]")
	f.String(keySeed, pipeline.DefaultSeed, "random seed")
	f.String(keyPrimary, "", "primary individual ID")
	f.Duration(keyStageTimeout, 0, "fail stages running longer than this (0 disables)")
}

// runFlagKeys lists the keys registered by addRunFlags.
var runFlagKeys = []string{keyWidth, keyHeight, keyTemperature, keySeed, keyPrimary, keyStageTimeout}
