package main

import (
	"fmt"

	"github.com/fwojciec/kaoyan"
	"github.com/spf13/cobra"
)

func newProviderCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provider",
		Short: "Show or change the stored provider",
		Long: `Show or change the provider used by default.

The choice is stored next to the rest of the data and read once per
generation. --provider and KAOYAN_PROVIDER override it for one invocation.`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Print the stored provider",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				name, err := a.prefs.Provider(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), name)
				return nil
			},
		},
		&cobra.Command{
			Use:       "set <gemini|zhipu>",
			Short:     "Store the provider",
			Args:      cobra.ExactArgs(1),
			ValidArgs: providerNames(),
			RunE: func(cmd *cobra.Command, args []string) error {
				name, err := kaoyan.ParseProviderName(args[0])
				if err != nil {
					return err
				}
				return a.prefs.SetProvider(cmd.Context(), name)
			},
		},
	)
	return cmd
}

func providerNames() []string {
	names := kaoyan.ProviderNames()
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}
