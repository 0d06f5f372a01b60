package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/buildinfo"
)

// RootCommand builds the lineage command tree.
//
// The persistent pre-run loads user settings (--config, then
// $XDG_CONFIG_HOME/lineage/config.yaml) and attaches the logger to the
// command context. With a log file configured, log output is redirected to
// a rotated file so stderr only carries status lines.
func (c *CLI) RootCommand() *cobra.Command {
	var settingsPath string

	root := &cobra.Command{
		Use:   appName,
		Short: "Lineage turns family graphs into visual metadata",
		Long: `Lineage runs configurable chains of transformers over a genealogy graph.

Each transformer adds visual metadata (positions, sizes, colors, edge
geometry) for individuals and relationships. The merged result is written as
JSON for a renderer, or previewed directly as a Graphviz diagram.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadSettings(settingsPath)
			if err != nil {
				return err
			}
			if err := v.BindPFlag(keyLogFile, cmd.Root().PersistentFlags().Lookup(keyLogFile)); err != nil {
				return err
			}
			c.settings = v

			if path := v.GetString(keyLogFile); path != "" {
				c.Logger.SetOutput(newLogFile(path))
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&settingsPath, "config", "", "settings file (default $XDG_CONFIG_HOME/lineage/config.yaml)")
	root.PersistentFlags().String(keyLogFile, "", "write logs to a rotated file instead of stderr")

	root.AddCommand(c.runCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.transformersCommand())
	root.AddCommand(c.dimensionsCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
