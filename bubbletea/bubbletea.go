// Package bubbletea provides the streaming Bubble Tea TUI used to try a
// provider interactively: it shows the reasoning trace, the rendered answer
// and the first-chunk timeout as they happen.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/kaoyan"
)

// RunFunc streams one generation for prompt. Progress is reported through
// the handlers in opts, so a RunFunc is typically a thin wrapper over
// kaoyan.Client.Generate. It blocks until the stream ends or ctx is
// cancelled.
type RunFunc func(ctx context.Context, prompt string, opts ...kaoyan.GenerateOption) (kaoyan.Result, error)

// Run creates and runs the Bubble Tea program. It blocks until the program
// exits. Cancelling ctx quits the program.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// ChunkMsg delivers one streamed chunk to the model.
type ChunkMsg struct {
	Chunk kaoyan.Chunk
}

// ThinkingMsg delivers a change of the reasoning phase.
type ThinkingMsg struct {
	Status kaoyan.ThinkingStatus
}

// DoneMsg signals that the generation finished.
type DoneMsg struct {
	Err error
}
