package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"evalgo.org/labops/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Response cache management",
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show where the cache lives and how long entries stay fresh",
	RunE:  runCacheInfo,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached response",
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func runCacheInfo(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Enabled: %t\n", cfg.Cache.Enabled)
	fmt.Fprintf(out, "Path:    %s\n", cfg.Cache.Path)
	fmt.Fprintf(out, "TTL:     %s\n", cfg.Cache.TTL)
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	store, err := cache.Open(cfg.Cache.Path, cfg.Cache.TTL)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer store.Close()

	if err := store.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Cleared %s\n", store.Path())
	return nil
}
