package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/cache"
	"github.com/matzehuels/lineage/pkg/pipeline"
)

// resultTTL bounds how long cached results are reused.
const resultTTL = 7 * 24 * time.Hour

// openCache returns the result cache, or nil when caching is disabled.
func (c *CLI) openCache() *cache.FileCache {
	if !c.settings.GetBool(keyCache) {
		return nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Debug("result cache unavailable", "error", err)
		return nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Debug("result cache unavailable", "error", err)
		return nil
	}
	return fc
}

// cachedResult returns a stored result for key, if any. Cache problems are
// logged and treated as misses.
func (c *CLI) cachedResult(ctx context.Context, fc *cache.FileCache, key string) *pipeline.Result {
	if fc == nil || key == "" {
		return nil
	}
	data, ok, err := fc.Get(ctx, key)
	if err != nil || !ok {
		if err != nil {
			c.Logger.Debug("cache read failed", "error", err)
		}
		return nil
	}
	res, err := pipeline.UnmarshalResult(data)
	if err != nil {
		c.Logger.Debug("discarding cached result", "error", err)
		_ = fc.Delete(ctx, key)
		return nil
	}
	return res
}

// storeResult caches complete runs without failures.
func (c *CLI) storeResult(ctx context.Context, fc *cache.FileCache, key string, res *pipeline.Result) {
	if fc == nil || key == "" || res.Status != pipeline.StatusComplete || res.Failures() > 0 {
		return
	}
	data, err := pipeline.MarshalResult(res)
	if err != nil {
		return
	}
	if err := fc.Set(ctx, key, data, resultTTL); err != nil {
		c.Logger.Debug("cache write failed", "error", err)
	}
}

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the pipeline result cache",
	}
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached results",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			n, err := fc.Clear()
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cleared %d cached results", n)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
