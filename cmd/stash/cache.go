package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pario-ai/stash/pkg/mediator"
	"github.com/pario-ai/stash/pkg/models"
)

func newCacheCmd(configPath *string) *cobra.Command {
	var history bool

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the cache documents",
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache entry counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			var stats models.CacheStats
			path := e.cfg.CachePath
			if history {
				path = e.cfg.HistoryPath
				stats = mediator.NewHistory(e.provider, path, nil, e.cacheOptions()).Stats(cmd.Context())
			} else {
				stats = mediator.NewTTL(e.provider, path, nil, e.cacheOptions()).Stats(cmd.Context())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Path:    %s\nEntries: %d\n", path, stats.Entries)
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cache entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			if history {
				mediator.NewHistory(e.provider, e.cfg.HistoryPath, nil, e.cacheOptions()).Clear(cmd.Context())
				fmt.Fprintln(cmd.OutOrStdout(), "Conversation log cleared.")
			} else {
				mediator.NewTTL(e.provider, e.cfg.CachePath, nil, e.cacheOptions()).Clear(cmd.Context())
				fmt.Fprintln(cmd.OutOrStdout(), "All cache entries cleared.")
			}
			return nil
		},
	}

	invalidateCmd := &cobra.Command{
		Use:   "invalidate KEY",
		Short: "Remove one entry from the URL cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			mediator.NewTTL(e.provider, e.cfg.CachePath, nil, e.cacheOptions()).Invalidate(cmd.Context(), args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "Invalidated %s.\n", args[0])
			return nil
		},
	}

	var ttl time.Duration
	putCmd := &cobra.Command{
		Use:   "put KEY BODY",
		Short: "Store a body in the URL cache",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			mediator.NewTTL(e.provider, e.cfg.CachePath, nil, e.cacheOptions()).Put(cmd.Context(), args[0], args[1], ttl, time.Now())
			fmt.Fprintf(cmd.OutOrStdout(), "Stored %s.\n", args[0])
			return nil
		},
	}
	putCmd.Flags().DurationVar(&ttl, "ttl", 0, "expire the entry after this long (0 never expires)")

	cmd.PersistentFlags().BoolVar(&history, "history", false, "operate on the conversation log instead of the URL cache")
	cmd.AddCommand(statsCmd, clearCmd, invalidateCmd, putCmd)
	return cmd
}
