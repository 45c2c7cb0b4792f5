package bubbletea

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/kaoyan"
	"github.com/rivo/uniseg"
)

var _ Block = (*ThinkingBlock)(nil)

// ThinkingBlock renders the reasoning trace with a collapsible toggle. Its
// header follows the generation's ThinkingStatus.
type ThinkingBlock struct {
	content   strings.Builder
	status    kaoyan.ThinkingStatus
	collapsed bool
	styles    Styles
}

// NewThinkingBlock creates a collapsed ThinkingBlock in the in-progress state.
func NewThinkingBlock(styles Styles) *ThinkingBlock {
	return &ThinkingBlock{collapsed: true, status: kaoyan.ThinkingInProgress, styles: styles}
}

// Append adds reasoning text.
func (b *ThinkingBlock) Append(text string) {
	b.content.WriteString(text)
}

// SetStatus records the reasoning phase.
func (b *ThinkingBlock) SetStatus(s kaoyan.ThinkingStatus) {
	b.status = s
}

// Status returns the recorded reasoning phase.
func (b *ThinkingBlock) Status() kaoyan.ThinkingStatus { return b.status }

func (b *ThinkingBlock) Update(msg tea.Msg) (Block, tea.Cmd) {
	if _, ok := msg.(ToggleMsg); ok {
		b.collapsed = !b.collapsed
	}
	return b, nil
}

func (b *ThinkingBlock) View(width int) string {
	wrap := lipgloss.NewStyle().Width(width)

	indicator := "▶"
	if !b.collapsed {
		indicator = "▼"
	}
	header := b.styles.Thinking.Render(wrap.Render(indicator + " " + b.label()))
	if b.collapsed || b.content.Len() == 0 {
		return header
	}
	return header + "\n" + b.styles.Thinking.Render(wrap.Render(b.content.String()))
}

// label counts user-perceived characters, so CJK reasoning is not
// over-reported as bytes.
func (b *ThinkingBlock) label() string {
	n := uniseg.GraphemeClusterCount(b.content.String())
	switch b.status {
	case kaoyan.ThinkingInProgress:
		return fmt.Sprintf("Thinking... (%d chars)", n)
	case kaoyan.ThinkingComplete:
		return fmt.Sprintf("Thought (%d chars)", n)
	default:
		return "Thinking"
	}
}
