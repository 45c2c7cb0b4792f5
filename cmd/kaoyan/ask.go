package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/kaoyan"
	"github.com/spf13/cobra"
)

const askLongDesc string = `Stream a free-form prompt and print the answer.

The reasoning trace, when the provider emits one, goes to stderr so stdout
holds only the answer. With --raw every Zhipu stream frame is echoed to
stderr as received, which is useful to check connectivity and the wire
format.

Examples:
  kaoyan ask "用一句话解释剩余价值"
  kaoyan ask --raw --provider zhipu "你好"`

func newAskCmd(a *app) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "ask <prompt>",
		Short: "Stream a free-form prompt",
		Long:  askLongDesc,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			stderr := cmd.ErrOrStderr()
			var opts clientOptions
			if raw {
				opts.onFrame = func(line string) { fmt.Fprintln(stderr, line) }
			}
			client, err := a.newClient(ctx, opts)
			if err != nil {
				return err
			}
			req := kaoyan.Request{Prompt: strings.Join(args, " ")}
			_, err = client.Generate(ctx, a.providerConfig(ctx), req, nil,
				kaoyan.WithChunkHandler(printChunk(cmd.OutOrStdout(), stderr, raw)),
			)
			fmt.Fprintln(cmd.OutOrStdout())
			return err
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Echo raw stream frames to stderr")
	return cmd
}

var thinkingStyle = lipgloss.NewStyle().Faint(true)

// printChunk writes content to out and reasoning to errOut. In raw mode the
// frames already carry the reasoning, so it is not repeated.
func printChunk(out, errOut io.Writer, raw bool) func(kaoyan.Chunk) {
	return func(c kaoyan.Chunk) {
		switch c := c.(type) {
		case kaoyan.ChunkContent:
			fmt.Fprint(out, c.Content)
		case kaoyan.ChunkThinking:
			if !raw {
				fmt.Fprint(errOut, thinkingStyle.Render(c.Content))
			}
		}
	}
}
