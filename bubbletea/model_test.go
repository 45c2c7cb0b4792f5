package bubbletea_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/fwojciec/kaoyan"
	bt "github.com/fwojciec/kaoyan/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	m := bt.New(nopRun, "zhipu", kaoyan.DefaultTheme())
	assert.False(t, m.Running())
	assert.NoError(t, m.Err())
	assert.Equal(t, "Initializing...", m.View())
}

func TestModel_Update(t *testing.T) {
	t.Parallel()

	t.Run("window size initializes viewport", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopRun)
		assert.Equal(t, 80, m.Viewport.Width)
		assert.Equal(t, 20, m.Viewport.Height)
		assert.Contains(t, m.View(), "[zhipu] Enter to send")
	})

	t.Run("tiny window keeps one viewport line", func(t *testing.T) {
		t.Parallel()

		m := bt.New(nopRun, "zhipu", kaoyan.DefaultTheme())
		m = updateModel(t, m, tea.WindowSizeMsg{Width: 40, Height: 2})
		assert.Equal(t, 1, m.Viewport.Height)
	})

	t.Run("enter with empty input does nothing", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopRun)
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		assert.False(t, m.Running())
		assert.Empty(t, bt.RenderContent(m))
	})

	t.Run("enter submits prompt", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopRun)
		m.Input.SetValue("你好")
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		assert.True(t, m.Running())
		assert.Empty(t, m.Input.Value())
		assert.Contains(t, bt.RenderContent(m), "> 你好")
		assert.Contains(t, m.View(), "Generating with zhipu")
	})

	t.Run("ctrl+c while running cancels", func(t *testing.T) {
		t.Parallel()

		cancelled := false
		m := bt.SetRunningWithCancel(initModel(t, nopRun), func() { cancelled = true })
		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		assert.True(t, cancelled)
		assert.Nil(t, cmd)
		assert.True(t, updated.(bt.Model).Running())
	})

	t.Run("ctrl+c while idle quits", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopRun)
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	})

	t.Run("chunks build thinking and answer blocks", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopRun)
		m = updateModel(t, m, bt.ThinkingMsg{Status: kaoyan.ThinkingInProgress})
		m = updateModel(t, m, bt.ChunkMsg{Chunk: kaoyan.ChunkThinking{Content: "想"}})
		m = updateModel(t, m, bt.ChunkMsg{Chunk: kaoyan.ChunkThinking{Content: "一想"}})
		assert.Contains(t, bt.RenderContent(m), "Thinking... (3 chars)")

		m = updateModel(t, m, bt.ThinkingMsg{Status: kaoyan.ThinkingComplete})
		m = updateModel(t, m, bt.ChunkMsg{Chunk: kaoyan.ChunkContent{Content: "答案"}})
		content := bt.RenderContent(m)
		assert.Contains(t, content, "Thought (3 chars)")
		assert.Contains(t, content, "答案")
		assert.Equal(t, 0, bt.BlockFocus(m))
	})

	t.Run("tab toggles focused thinking block", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopRun)
		m = updateModel(t, m, bt.ChunkMsg{Chunk: kaoyan.ChunkThinking{Content: "hidden reasoning"}})
		assert.NotContains(t, bt.RenderContent(m), "hidden reasoning")

		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyTab})
		assert.Contains(t, bt.RenderContent(m), "hidden reasoning")
	})

	t.Run("shift+tab without collapsible blocks clears focus", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopRun)
		m = updateModel(t, m, bt.ChunkMsg{Chunk: kaoyan.ChunkContent{Content: "text"}})
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
		assert.Equal(t, -1, bt.BlockFocus(m))
	})

	t.Run("done with error shows error block", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopRun)
		m = updateModel(t, m, bt.DoneMsg{Err: kaoyan.ErrTimeout})
		assert.ErrorIs(t, m.Err(), kaoyan.ErrTimeout)
		assert.Contains(t, bt.RenderContent(m), "before the deadline")
		assert.Contains(t, m.View(), "Error:")
	})

	t.Run("done with cancellation is not an error", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopRun)
		m = updateModel(t, m, bt.DoneMsg{Err: context.Canceled})
		assert.NoError(t, m.Err())
		assert.Empty(t, bt.RenderContent(m))
	})

	t.Run("done completes in-progress thinking", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopRun)
		m = updateModel(t, m, bt.ChunkMsg{Chunk: kaoyan.ChunkThinking{Content: "ab"}})
		m = updateModel(t, m, bt.DoneMsg{})
		assert.Contains(t, bt.RenderContent(m), "Thought (2 chars)")
	})
}

func TestModel_Teatest(t *testing.T) {
	t.Parallel()

	t.Run("full generation cycle", func(t *testing.T) {
		t.Parallel()

		run := scriptedRun(true, nil,
			kaoyan.ChunkThinking{Content: "reasoning"},
			kaoyan.ChunkContent{Content: "Hello "},
			kaoyan.ChunkContent{Content: "there!"},
		)
		m := bt.New(run, "zhipu", kaoyan.DefaultTheme())
		tm := teatest.NewTestModel(t, m,
			teatest.WithInitialTermSize(80, 24),
		)

		tm.Type("hi")
		tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte("Hello there!")) &&
				bytes.Contains(out, []byte("Thought (9 chars)")) &&
				bytes.Contains(out, []byte("Enter to send"))
		}, teatest.WithDuration(5*time.Second))

		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})

		fm := tm.FinalModel(t, teatest.WithFinalTimeout(5*time.Second))
		final, ok := fm.(bt.Model)
		require.True(t, ok)
		assert.False(t, final.Running())
		assert.NoError(t, final.Err())
	})

	t.Run("stream error is reported", func(t *testing.T) {
		t.Parallel()

		run := scriptedRun(false, errors.New("connection reset"),
			kaoyan.ChunkContent{Content: "partial"},
		)
		m := bt.New(run, "gemini", kaoyan.DefaultTheme())
		tm := teatest.NewTestModel(t, m,
			teatest.WithInitialTermSize(80, 24),
		)

		tm.Type("hi")
		tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte("connection reset"))
		}, teatest.WithDuration(5*time.Second))

		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})

		fm := tm.FinalModel(t, teatest.WithFinalTimeout(5*time.Second))
		final, ok := fm.(bt.Model)
		require.True(t, ok)
		assert.Error(t, final.Err())
	})
}
