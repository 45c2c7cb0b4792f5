package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/kaoyan"
	"github.com/fwojciec/kaoyan/goldmark"
	"github.com/spf13/cobra"
)

const brainstormLongDesc string = `Collect core concepts and turn them into a study report.

"keywords" asks the model for suggestions (keeping the ones you added),
"add" and "rm" edit the list, and "report" streams a report covering every
keyword on the list.`

func newBrainstormCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brainstorm",
		Short: "Brainstorm concepts and generate a study report",
		Long:  brainstormLongDesc,
	}
	cmd.AddCommand(
		newBrainstormKeywordsCmd(a),
		newBrainstormAddCmd(a),
		newBrainstormRmCmd(a),
		newBrainstormReportCmd(a),
	)
	return cmd
}

func newBrainstormKeywordsCmd(a *app) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "Suggest new keywords",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if list {
				kws, err := a.services(nil).brainstorm.Keywords(ctx)
				if err != nil {
					return err
				}
				printKeywords(cmd.OutOrStdout(), kws)
				return nil
			}
			client, err := a.newClient(ctx, clientOptions{})
			if err != nil {
				return err
			}
			kws, err := a.services(client).brainstorm.Suggest(ctx, a.providerConfig(ctx))
			if err != nil {
				if kws == nil {
					return err
				}
				a.logger.Warn("keyword suggestion fell back", "error", err)
			}
			printKeywords(cmd.OutOrStdout(), kws)
			return nil
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "List stored keywords without asking the model")
	return cmd
}

func newBrainstormAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <keyword>",
		Short: "Add a keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kws, err := a.services(nil).brainstorm.AddKeyword(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printKeywords(cmd.OutOrStdout(), kws)
			return nil
		},
	}
}

func newBrainstormRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <keyword>",
		Short: "Remove a keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.services(nil).brainstorm.RemoveKeyword(cmd.Context(), args[0])
		},
	}
}

func newBrainstormReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Stream a study report on the stored keywords",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			client, err := a.newClient(ctx, clientOptions{})
			if err != nil {
				return err
			}
			svc := a.services(client).brainstorm
			kws, err := svc.Keywords(ctx)
			if err != nil {
				return err
			}
			texts := make([]string, len(kws))
			for i, k := range kws {
				texts[i] = k.Text
			}

			stderr := cmd.ErrOrStderr()
			res, err := svc.Report(ctx, a.providerConfig(ctx), texts,
				kaoyan.WithThinkingHandler(func(s kaoyan.ThinkingStatus) {
					if s == kaoyan.ThinkingInProgress {
						fmt.Fprintln(stderr, thinkingStyle.Render("思考中..."))
					}
				}),
			)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), goldmark.Render(res.Text, a.width(), kaoyan.DefaultTheme()))
			return nil
		},
	}
}

func printKeywords(w io.Writer, kws []kaoyan.Keyword) {
	for _, k := range kws {
		marker := " "
		if k.Source == kaoyan.KeywordSourceUser {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %s\n", marker, k.Text)
	}
}
