package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"langprobe/internal/config"
	"langprobe/internal/store"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Verdict cache utilities",
	}

	cacheCmd.AddCommand(newCachePurgeCommand(ctx))

	return cacheCmd
}

func newCachePurgeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "purge <file>...",
		Short: "Drop cached verdicts so the files are re-analyzed next run",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			db, err := store.Open(cfg.Cache.Path)
			if err != nil {
				return fmt.Errorf("open verdict cache: %w", err)
			}
			defer db.Close()

			out := cmd.OutOrStdout()
			for _, arg := range args {
				expanded, err := config.ExpandPath(arg)
				if err != nil {
					return err
				}
				if err := db.Purge(cmd.Context(), expanded); err != nil {
					return err
				}
				fmt.Fprintf(out, "Purged cached verdicts for %s\n", expanded)
			}
			return nil
		},
	}
}
