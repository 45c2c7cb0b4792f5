package main

import (
	"fmt"

	"github.com/fwojciec/kaoyan"
	"github.com/fwojciec/kaoyan/goldmark"
	"github.com/spf13/cobra"
)

func newQuestionCmd(a *app) *cobra.Command {
	var cached bool

	cmd := &cobra.Command{
		Use:   "question",
		Short: "Generate a self-test question",
		Long: `Generate a multiple-choice self-test question in medicine or politics.

The answer and explanation are printed after the question. --cached shows
the last question instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			client, err := a.newClient(ctx, clientOptions{})
			if err != nil {
				return err
			}
			svc := a.services(client).question

			var q kaoyan.Question
			if cached {
				q, err = svc.Cached(ctx)
			} else {
				q, err = svc.Generate(ctx, a.providerConfig(ctx))
			}
			if err != nil {
				return err
			}

			theme := kaoyan.DefaultTheme()
			fmt.Fprintln(out, goldmark.RenderSection(q.Subject, q.Question, "", a.width(), theme))
			fmt.Fprintln(out)
			fmt.Fprintln(out, goldmark.RenderSection("答案与解析", q.Answer, "暂无解析", a.width(), theme))
			return nil
		},
	}
	cmd.Flags().BoolVar(&cached, "cached", false, "Show the last generated question")
	return cmd
}
