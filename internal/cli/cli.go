// Package cli implements the lineage command-line interface.
//
// The CLI loads family graphs and pipeline definitions, runs them through
// [pipeline.Runner] and writes the visual metadata as JSON. It is built on
// cobra, reads user defaults with viper and logs with charmbracelet/log.
//
// # Commands
//
//   - run: execute one pipeline over a graph
//   - watch: re-run whenever the graph or pipeline file changes
//   - batch: execute several pipelines concurrently
//   - transformers, dimensions: list what a pipeline can use
//   - dot: preview a graph and a result as a Graphviz diagram
//   - cache: manage cached results
//
// # Settings
//
// Run-wide values (width, height, temperature, seed, primary, stage-timeout,
// concurrency, cache, log-file) resolve from flags first, then LINEAGE_*
// environment variables, then the settings file. Status output goes to
// stderr so results on stdout can be piped.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/matzehuels/lineage/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "lineage"

	// envPrefix prefixes environment overrides, e.g. LINEAGE_SEED.
	envPrefix = "LINEAGE"

	// defaultConcurrency bounds parallel runs in batch mode.
	defaultConcurrency = 4
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// settings holds user defaults from the config file and LINEAGE_* env.
	settings *viper.Viper
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:   newLogger(w, level),
		settings: viper.New(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// newRunner creates a pipeline runner over the built-in transformers.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(nil, c.Logger)
}
