package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/kaoyan"
	"github.com/spf13/cobra"
)

const correctLongDesc string = `Grade an English essay and annotate it.

The essay is read from the arguments, or from stdin when none are given.
The model first drafts a report, streaming its reasoning to stderr, and a
second call turns the draft into a score with annotations: GOOD spans are
green, ERROR spans red and SUGGESTION spans yellow.

Examples:
  kaoyan correct "In a word, we should ..."
  kaoyan correct < essay.txt`

func newCorrectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "correct [essay]",
		Short: "Grade and annotate an English essay",
		Long:  correctLongDesc,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			essay := strings.Join(args, " ")
			if len(args) == 0 {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read essay: %w", err)
				}
				essay = string(b)
			}

			client, err := a.newClient(ctx, clientOptions{})
			if err != nil {
				return err
			}
			stderr := cmd.ErrOrStderr()
			c, err := kaoyan.CorrectEssay(ctx, client, a.providerConfig(ctx), essay,
				kaoyan.WithChunkHandler(func(ch kaoyan.Chunk) {
					if th, ok := ch.(kaoyan.ChunkThinking); ok {
						fmt.Fprint(stderr, thinkingStyle.Render(th.Content))
					}
				}),
				kaoyan.WithThinkingHandler(func(s kaoyan.ThinkingStatus) {
					if s == kaoyan.ThinkingComplete {
						fmt.Fprintln(stderr)
					}
				}),
			)
			if err != nil {
				return correctionError(err)
			}
			printCorrection(cmd.OutOrStdout(), strings.TrimSpace(essay), c)
			return nil
		},
	}
}

// correctionError adds a hint for the failures a user can act on.
func correctionError(err error) error {
	var pe *kaoyan.ParseError
	switch {
	case errors.Is(err, kaoyan.ErrEmptyDraft):
		return fmt.Errorf("%w (AI未能生成报告初稿，可能是内容触发了安全规则，请修改后重试)", err)
	case errors.As(err, &pe):
		return fmt.Errorf("%w (AI返回的格式有误，无法解析，请稍后重试)", err)
	default:
		return err
	}
}

var annotationStyles = map[string]lipgloss.Style{
	kaoyan.AnnotationGood:       lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	kaoyan.AnnotationError:      lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Underline(true),
	kaoyan.AnnotationSuggestion: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
}

func printCorrection(w io.Writer, essay string, c kaoyan.Correction) {
	bold := lipgloss.NewStyle().Bold(true)
	fmt.Fprintln(w, bold.Render(fmt.Sprintf("得分: %g / 20", c.OverallScore)))
	fmt.Fprintln(w, c.ScoreBasis)
	fmt.Fprintln(w)
	fmt.Fprintln(w, annotateEssay(essay, c.Annotations, renderAnnotation))
	fmt.Fprintln(w)
	for i, an := range c.Annotations {
		style := annotationStyles[strings.ToUpper(an.Type)]
		fmt.Fprintf(w, "%d. %s [%s]\n   %s\n", i+1, style.Render(an.Text), an.Type, an.Explanation)
	}
}

type span struct {
	start int
	an    kaoyan.Annotation
}

func renderAnnotation(typ, text string) string {
	return annotationStyles[strings.ToUpper(typ)].Render(text)
}

// annotateEssay passes every occurrence of each annotated span through
// render. Spans that overlap an earlier one are left as they are.
func annotateEssay(essay string, anns []kaoyan.Annotation, render func(typ, text string) string) string {
	var spans []span
	for _, an := range anns {
		if an.Text == "" {
			continue
		}
		for from := 0; from < len(essay); {
			i := strings.Index(essay[from:], an.Text)
			if i < 0 {
				break
			}
			spans = append(spans, span{start: from + i, an: an})
			from += i + 1
		}
	}
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	var b strings.Builder
	last := 0
	for _, s := range spans {
		if s.start < last {
			continue
		}
		end := s.start + len(s.an.Text)
		b.WriteString(essay[last:s.start])
		b.WriteString(render(s.an.Type, essay[s.start:end]))
		last = end
	}
	b.WriteString(essay[last:])
	return b.String()
}
