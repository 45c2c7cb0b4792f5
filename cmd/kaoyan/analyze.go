package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/kaoyan"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [sentence]",
		Short: "Break down a long English sentence",
		Long: `Analyze the grammatical structure of a long English sentence.

Without an argument the model picks a sentence typical of the exam's reading
section.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := a.newClient(ctx, clientOptions{})
			if err != nil {
				return err
			}
			var sentence string
			if len(args) == 1 {
				sentence = args[0]
			}
			analysis, err := kaoyan.AnalyzeSentence(ctx, client, a.providerConfig(ctx), sentence)
			if err != nil {
				return err
			}
			printAnalysis(cmd.OutOrStdout(), analysis)
			return nil
		},
	}
}

var componentColors = map[string]lipgloss.Color{
	"subject":     lipgloss.Color("4"),
	"predicate":   lipgloss.Color("1"),
	"object":      lipgloss.Color("2"),
	"attributive": lipgloss.Color("5"),
	"adverbial":   lipgloss.Color("3"),
	"complement":  lipgloss.Color("12"),
	"clause":      lipgloss.Color("13"),
	"phrase":      lipgloss.Color("6"),
	"connective":  lipgloss.Color("8"),
}

func printAnalysis(w io.Writer, s kaoyan.SentenceAnalysis) {
	bold := lipgloss.NewStyle().Bold(true)
	fmt.Fprintln(w, bold.Render(s.Sentence))
	fmt.Fprintln(w, s.Translation)
	fmt.Fprintln(w)
	for _, c := range s.Components {
		style := lipgloss.NewStyle().Foreground(componentColors[strings.ToLower(c.Type)])
		fmt.Fprintf(w, "%s [%s]\n    %s\n", style.Render(c.Text), c.Type, c.Explanation)
	}
}
