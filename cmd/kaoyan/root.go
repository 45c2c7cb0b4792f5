package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

const rootLongDesc string = `kaoyan generates study content for the Chinese graduate entrance exam.

Every command that talks to a model uses the provider stored with
"kaoyan provider set", unless --provider or KAOYAN_PROVIDER overrides it.`

const rootShortDesc string = "Exam-prep study companion"

// Wrap widths of rendered markdown.
const (
	defaultWidth = 80
	maxWidth     = 100
)

// execute runs args against a fresh root command and closes whatever the
// invocation opened, also when the command fails. a receives the built app.
func execute(ctx context.Context, e env, a *app, args []string) (err error) {
	cmd := newRootCmd(e, a)
	cmd.SetArgs(args)
	defer func() {
		err = errors.Join(err, a.Close())
	}()
	return cmd.ExecuteContext(ctx)
}

func newRootCmd(e env, a *app) *cobra.Command {
	var (
		configPath   string
		providerFlag string
		debug        bool
	)

	cmd := &cobra.Command{
		Use:           "kaoyan",
		Short:         rootShortDesc,
		Long:          rootLongDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			built, err := newApp(e, configPath, providerFlag, debug)
			if err != nil {
				return err
			}
			*a = *built
			return nil
		},
	}
	cmd.SetIn(e.stdin)
	cmd.SetOut(e.stdout)
	cmd.SetErr(e.stderr)

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.toml (default ~/.config/kaoyan/config.toml)")
	cmd.PersistentFlags().StringVar(&providerFlag, "provider", "", "Provider for this invocation: gemini, zhipu")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	cmd.AddCommand(
		newAskCmd(a),
		newBriefingCmd(a),
		newQuestionCmd(a),
		newMoodCmd(a),
		newBrainstormCmd(a),
		newAnalyzeCmd(a),
		newCorrectCmd(a),
		newProviderCmd(a),
		newTUICmd(a),
	)
	return cmd
}
