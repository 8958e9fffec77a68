package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pario-ai/stash/pkg/fetch"
	"github.com/pario-ai/stash/pkg/mediator"
)

// errNoAnswer is returned when neither the cache nor the provider had a result.
var errNoAnswer = errors.New("no answer available")

func newGetCmd(configPath *string) *cobra.Command {
	var cachePath string

	cmd := &cobra.Command{
		Use:   "get URL",
		Short: "Print the body of URL, fetching it only on a cache miss",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, *configPath)
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			if cachePath == "" {
				cachePath = e.cfg.CachePath
			}
			getter := fetch.NewHTTPFetcher(e.cfg.HTTP.Timeout, e.cfg.HTTP.UserAgent, e.logger)
			m := mediator.NewTTL(e.provider, cachePath, getter, e.cacheOptions())

			body, ok := m.Get(ctx, args[0], time.Now())
			if !ok {
				return fmt.Errorf("get %s: %w", args[0], errNoAnswer)
			}
			fmt.Fprint(cmd.OutOrStdout(), body)
			return nil
		},
	}

	cmd.Flags().StringVar(&cachePath, "cache", "", "cache document path (default from config)")
	return cmd
}
