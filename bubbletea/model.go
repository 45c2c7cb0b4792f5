package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/kaoyan"
	"github.com/mattn/go-runewidth"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the kaoyan connectivity TUI.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable output area. Exported for test access.
	Viewport viewport.Model

	run     RunFunc
	label   string
	theme   kaoyan.Theme
	styles  Styles
	spinner spinner.Model

	blocks     []Block
	blockFocus int // index of focused collapsible block (-1 = none)

	// Blocks of the generation in flight. Reset on every submit.
	thinking *ThinkingBlock
	answer   *AnswerBlock

	running bool
	cancel  context.CancelFunc
	eventCh chan tea.Msg
	doneCh  chan error
	err     error
	ready   bool
}

// New creates a TUI Model. label names the provider in the status line.
func New(run RunFunc, label string, theme kaoyan.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask something..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	styles := NewStyles(theme)
	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(styles.Accent))

	return Model{
		Input:      ti,
		run:        run,
		label:      label,
		theme:      theme,
		styles:     styles,
		spinner:    sp,
		blockFocus: -1,
	}
}

// Running returns whether a generation is in flight.
func (m Model) Running() bool { return m.running }

// Err returns the error of the last generation, if any.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg.Width, msg.Height), nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case ChunkMsg, ThinkingMsg:
		m = m.processEvent(msg).refresh(true)
		if m.eventCh == nil {
			return m, nil
		}
		return m, listenForEvent(m.eventCh, m.doneCh)
	case DoneMsg:
		return m.finish(msg.Err)
	}
	return m.forward(msg, true)
}

// forward passes msg to the viewport (scrolling) and, while idle, to the
// input.
func (m Model) forward(msg tea.Msg, scroll bool) (tea.Model, tea.Cmd) {
	var vpCmd, inCmd tea.Cmd
	if scroll {
		m.Viewport, vpCmd = m.Viewport.Update(msg)
	}
	if !m.running {
		m.Input, inCmd = m.Input.Update(msg)
	}
	return m, tea.Batch(vpCmd, inCmd)
}

// finish ends the generation in flight. Cancellation by the user is not
// reported as an error.
func (m Model) finish(err error) (tea.Model, tea.Cmd) {
	m.running = false
	m.cancel, m.eventCh, m.doneCh = nil, nil, nil
	if m.thinking != nil && m.thinking.Status() == kaoyan.ThinkingInProgress {
		m.thinking.SetStatus(kaoyan.ThinkingComplete)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		m.err = err
		m.blocks = append(m.blocks, NewErrorBlock(err, m.styles))
	}
	m.blockFocus = m.lastCollapsible()
	cmd := m.Input.Focus()
	return m.refresh(true), cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return strings.Join([]string{m.Viewport.View(), m.statusLine(), m.Input.View()}, "\n")
}

// chromeHeight is the number of rows below the viewport: the status line,
// the input and the two newlines joining them.
const chromeHeight = 4

func (m Model) resize(width, height int) Model {
	vpHeight := max(height-chromeHeight, 1)
	if m.ready {
		m.Viewport.Width = width
		m.Viewport.Height = vpHeight
	} else {
		m.Viewport = viewport.New(width, vpHeight)
		m.ready = true
	}
	m.Input.Width = width
	return m.refresh(true)
}

// refresh re-renders the transcript into the viewport.
func (m Model) refresh(follow bool) Model {
	m.Viewport.SetContent(m.renderContent())
	if follow {
		m.Viewport.GotoBottom()
	}
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if !m.running {
			return m, tea.Quit
		}
		if m.cancel != nil {
			m.cancel()
		}
		return m, nil
	case tea.KeyEnter:
		prompt := strings.TrimSpace(m.Input.Value())
		if m.running || prompt == "" {
			return m, nil
		}
		return m.submitInput(prompt)
	case tea.KeyTab:
		if m.running || m.blockFocus < 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.blocks[m.blockFocus], cmd = m.blocks[m.blockFocus].Update(ToggleMsg{})
		return m.refresh(false), cmd
	case tea.KeyShiftTab:
		if m.running {
			return m, nil
		}
		m.blockFocus = m.prevCollapsible(m.blockFocus)
		return m.refresh(false), nil
	}
	if m.running {
		return m, nil
	}
	// Rune keys go to the input only, so typing 'j' or 'k' does not scroll.
	return m.forward(msg, msg.Type != tea.KeyRunes)
}

func (m Model) submitInput(text string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.err = nil
	m.thinking = nil
	m.answer = nil

	m.blocks = append(m.blocks, NewPromptBlock(text, m.styles))
	m = m.refresh(true)

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.eventCh = make(chan tea.Msg, 256)
	m.doneCh = make(chan error, 1)
	m.running = true

	m.Input.Blur()

	return m, tea.Batch(
		startRun(m.run, ctx, text, m.eventCh, m.doneCh),
		listenForEvent(m.eventCh, m.doneCh),
		m.spinner.Tick,
	)
}

func (m Model) renderContent() string {
	views := make([]string, len(m.blocks))
	for i, block := range m.blocks {
		views[i] = block.View(m.Viewport.Width)
	}
	return strings.Join(views, "\n")
}

// processEvent routes a streaming event to the block of the current
// generation. The thinking block always precedes the answer block.
func (m Model) processEvent(msg tea.Msg) Model {
	switch e := msg.(type) {
	case ThinkingMsg:
		if m.thinking != nil {
			m.thinking.SetStatus(e.Status)
		}
	case ChunkMsg:
		switch c := e.Chunk.(type) {
		case kaoyan.ChunkThinking:
			if m.thinking == nil {
				m.thinking = NewThinkingBlock(m.styles)
				m.blocks = append(m.blocks, m.thinking)
				m.blockFocus = len(m.blocks) - 1
			}
			m.thinking.Append(c.Content)
		case kaoyan.ChunkContent:
			if m.answer == nil {
				m.answer = NewAnswerBlock(m.theme)
				m.blocks = append(m.blocks, m.answer)
			}
			m.answer.Append(c.Content)
		}
	}
	return m
}

func collapsible(b Block) bool {
	_, ok := b.(*ThinkingBlock)
	return ok
}

// lastCollapsible returns the index of the newest collapsible block, or -1.
func (m Model) lastCollapsible() int {
	return m.prevCollapsible(len(m.blocks))
}

// prevCollapsible returns the index of the nearest collapsible block before
// from, wrapping around to the end. It returns -1 when there is none.
func (m Model) prevCollapsible(from int) int {
	n := len(m.blocks)
	for step := 1; step <= n; step++ {
		i := ((from-step)%n + n) % n
		if collapsible(m.blocks[i]) {
			return i
		}
	}
	return -1
}

func (m Model) statusLine() string {
	var line string
	switch {
	case m.running:
		line = fmt.Sprintf("%s Generating with %s...", m.spinner.View(), m.label)
	case m.err != nil:
		return m.styles.Error.Render(m.truncate("Error: " + m.err.Error()))
	default:
		line = fmt.Sprintf("[%s] Enter to send, Tab to toggle thinking, Ctrl+C to quit", m.label)
	}
	return m.styles.Muted.Render(m.truncate(line))
}

func (m Model) truncate(s string) string {
	if m.Viewport.Width <= 0 {
		return s
	}
	return runewidth.Truncate(s, m.Viewport.Width, "…")
}

// startRun runs one generation in a goroutine and forwards its progress as
// messages.
func startRun(run RunFunc, ctx context.Context, prompt string, eventCh chan<- tea.Msg, doneCh chan<- error) tea.Cmd {
	return func() tea.Msg {
		send := func(msg tea.Msg) {
			select {
			case eventCh <- msg:
			case <-ctx.Done():
			}
		}
		_, err := run(ctx, prompt,
			kaoyan.WithChunkHandler(func(c kaoyan.Chunk) { send(ChunkMsg{Chunk: c}) }),
			kaoyan.WithThinkingHandler(func(s kaoyan.ThinkingStatus) { send(ThinkingMsg{Status: s}) }),
		)
		close(eventCh)
		doneCh <- err
		return nil
	}
}

// listenForEvent waits for the next event from the channel.
// When the channel closes, it reads the error from doneCh and returns DoneMsg.
func listenForEvent(ch <-chan tea.Msg, doneCh <-chan error) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return DoneMsg{Err: <-doneCh}
		}
		return msg
	}
}
