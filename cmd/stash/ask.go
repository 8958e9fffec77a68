package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pario-ai/stash/pkg/fetch"
	"github.com/pario-ai/stash/pkg/mediator"
)

func newAskCmd(configPath *string) *cobra.Command {
	var (
		model       string
		historyPath string
	)

	cmd := &cobra.Command{
		Use:   "ask PROMPT...",
		Short: "Ask a model, answering from the conversation log when possible",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, *configPath)
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			if model == "" {
				model = e.cfg.Inference.Model
			}
			if historyPath == "" {
				historyPath = e.cfg.HistoryPath
			}
			inferrer := fetch.NewOllamaFetcher(e.cfg.Inference.URL, e.cfg.Inference.Stream, e.cfg.Inference.Timeout, e.logger)
			m := mediator.NewHistory(e.provider, historyPath, inferrer, e.cacheOptions())

			prompt := strings.Join(args, " ")
			answer, ok := m.Ask(ctx, model, prompt)
			if !ok {
				return fmt.Errorf("ask %s: %w", model, errNoAnswer)
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "model name (default from config)")
	cmd.Flags().StringVar(&historyPath, "history", "", "conversation log path (default from config)")
	return cmd
}
