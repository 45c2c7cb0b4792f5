package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/kaoyan"
	bt "github.com/fwojciec/kaoyan/bubbletea"
	"github.com/spf13/cobra"
)

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Chat with the provider in a terminal UI",
		Long: `Open a terminal UI that streams answers to free-form prompts.

The reasoning trace is shown in a collapsible block above each answer
(Tab toggles it). Use it to check that a provider is reachable and how fast
it starts answering.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			client, err := a.newClient(ctx, clientOptions{})
			if err != nil {
				return err
			}
			pc := a.providerConfig(ctx)
			run := func(ctx context.Context, prompt string, opts ...kaoyan.GenerateOption) (kaoyan.Result, error) {
				return client.Generate(ctx, pc, kaoyan.Request{Prompt: prompt}, nil, opts...)
			}
			a.logger.Debug("starting tui", "provider", pc.Provider)
			if err := bt.Run(ctx, bt.New(run, string(pc.Provider), kaoyan.DefaultTheme())); err != nil {
				return fmt.Errorf("TUI: %w", err)
			}
			return nil
		},
	}
}
