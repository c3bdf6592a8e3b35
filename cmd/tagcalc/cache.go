package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tagcalc/internal/complete"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the on-disk lookup cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached autocomplete response",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		disk, err := complete.OpenDiskCache(appFrom(cmd).cfg.Autocomplete.CacheDir, "tagcalc")
		if err != nil {
			return err
		}
		if err := disk.DropAll(); err != nil {
			return fmt.Errorf("failed to clear %s: %w", disk.Dir(), err)
		}
		if !quiet(cmd) {
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", disk.Dir())
		}
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
}
