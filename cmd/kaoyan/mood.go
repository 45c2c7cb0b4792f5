package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/kaoyan"
	"github.com/fwojciec/kaoyan/goldmark"
	"github.com/spf13/cobra"
)

const moodLongDesc string = `Keep a daily mood journal and get a short reflection on it.

Moods are 1 (很糟糕) to 5 (棒极了). There is one entry per day; adding an
entry for a date that already has one replaces it.

Examples:
  kaoyan mood add 4 "今天背完了生理"
  kaoyan mood add --date 2026-10-18 2
  kaoyan mood list
  kaoyan mood summary`

func newMoodCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mood",
		Short: "Keep a mood journal",
		Long:  moodLongDesc,
	}
	cmd.AddCommand(
		newMoodAddCmd(a),
		newMoodRmCmd(a),
		newMoodListCmd(a),
		newMoodSummaryCmd(a),
		newMoodStatsCmd(a),
	)
	return cmd
}

func newMoodAddCmd(a *app) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "add <mood 1-5> [text]",
		Short: "Record the mood of a day",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mood, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("mood %q: %w", args[0], kaoyan.ErrValidation)
			}
			if date == "" {
				date = time.Now().Format(time.DateOnly)
			}
			e := kaoyan.MoodEntry{Date: date, Mood: kaoyan.Mood(mood)}
			if len(args) == 2 {
				e.Text = args[1]
			}
			if err := a.services(nil).journal.Save(cmd.Context(), e); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", e.Date, e.Mood.Label())
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Date of the entry, YYYY-MM-DD (default today)")
	return cmd
}

func newMoodRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <date>",
		Short: "Delete the entry of a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.services(nil).journal.Delete(cmd.Context(), args[0])
		},
	}
}

func newMoodListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List journal entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := a.services(nil).journal.Entries(cmd.Context())
			if err != nil {
				return err
			}
			printEntries(cmd.OutOrStdout(), entries)
			return nil
		},
	}
}

func printEntries(w io.Writer, entries []kaoyan.MoodEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "还没有记录。")
		return
	}
	for _, e := range entries {
		line := fmt.Sprintf("%s  %d %s", e.Date, e.Mood, e.Mood.Label())
		if e.Text != "" {
			line += "  " + e.Text
		}
		fmt.Fprintln(w, line)
	}
}

func newMoodSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Reflect on the last week of entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			client, err := a.newClient(ctx, clientOptions{})
			if err != nil {
				return err
			}
			s, err := a.services(client).journal.Summary(ctx, a.providerConfig(ctx))
			if errors.Is(err, kaoyan.ErrNotEnoughEntries) {
				fmt.Fprintf(cmd.OutOrStdout(), "至少需要 %d 条记录才能生成总结。\n", kaoyan.MinSummaryEntries)
				return nil
			}
			if err != nil && !s.Fallback {
				return err
			}
			if err != nil {
				a.logger.Warn("mood summary fell back", "error", err)
			}
			theme := kaoyan.DefaultTheme()
			fmt.Fprintln(cmd.OutOrStdout(), goldmark.Render(s.Summary, a.width(), theme))
			if s.Suggestion != "" {
				fmt.Fprintln(cmd.OutOrStdout())
				fmt.Fprintln(cmd.OutOrStdout(), goldmark.Render(s.Suggestion, a.width(), theme))
			}
			return nil
		},
	}
}

func newMoodStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show mood counts and the longest good streak",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := a.services(nil).journal.Entries(cmd.Context())
			if err != nil {
				return err
			}
			printStats(cmd.OutOrStdout(), kaoyan.ComputeMoodStats(entries))
			return nil
		},
	}
}

func printStats(w io.Writer, s kaoyan.MoodStats) {
	fmt.Fprintf(w, "共 %d 条记录\n", s.Total)
	for m := kaoyan.MoodAwful; m <= kaoyan.MoodGreat; m++ {
		bar := ""
		if s.MaxCount > 0 {
			bar = strings.Repeat("█", s.Counts[m]*20/s.MaxCount)
		}
		fmt.Fprintf(w, "%d %s %3d %s\n", m, m.Label(), s.Counts[m], bar)
	}
	fmt.Fprintf(w, "最长连续好心情: %d 天\n", s.LongestPositiveStreak)
}
