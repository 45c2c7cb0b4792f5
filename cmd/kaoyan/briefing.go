package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/kaoyan"
	"github.com/fwojciec/kaoyan/goldmark"
	"github.com/spf13/cobra"
)

const briefingLongDesc string = `Show the daily briefing: review focus, a pair of easily confused
concepts, a word of the day and a line of encouragement.

The briefing is cached; --refresh generates a new one.`

var briefingTitles = map[string]string{
	kaoyan.SectionFocus:         "今日复习重点",
	kaoyan.SectionClarification: "易混概念辨析",
	kaoyan.SectionWord:          "每日一词",
	kaoyan.SectionEncouragement: "给你的鼓励",
}

func newBriefingCmd(a *app) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "briefing",
		Short: "Show the daily briefing",
		Long:  briefingLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			client, err := a.newClient(ctx, clientOptions{})
			if err != nil {
				return err
			}
			svc := a.services(client).briefing
			b, err := svc.Get(ctx, a.providerConfig(ctx), refresh)
			if err != nil {
				return err
			}
			printBriefing(cmd.OutOrStdout(), b, a.width())
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Generate a new briefing even if one is cached")
	return cmd
}

func printBriefing(w io.Writer, b kaoyan.Briefing, width int) {
	theme := kaoyan.DefaultTheme()
	parts := make([]string, 0, len(kaoyan.BriefingSections)+1)
	for _, sec := range kaoyan.BriefingSections {
		parts = append(parts, goldmark.RenderSection(briefingTitles[sec.Name], b.Section(sec.Name), "暂无内容", width, theme))
	}
	parts = append(parts, goldmark.Render("> "+b.DailyNote, width, theme))
	fmt.Fprintln(w, strings.Join(parts, "\n\n"))
	if len(b.Fallback) > 0 {
		fmt.Fprintf(w, "\n(备用内容: %s)\n", strings.Join(b.Fallback, ", "))
	}
}
