package bubbletea

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var _ Block = (*PromptBlock)(nil)

// PromptBlock echoes the submitted prompt with a "> " prefix.
type PromptBlock struct {
	text   string
	styles Styles
}

// NewPromptBlock creates a PromptBlock.
func NewPromptBlock(text string, styles Styles) *PromptBlock {
	return &PromptBlock{text: text, styles: styles}
}

func (b *PromptBlock) Update(msg tea.Msg) (Block, tea.Cmd) {
	return b, nil
}

func (b *PromptBlock) View(width int) string {
	return lipgloss.NewStyle().Width(width).Render(b.styles.Prompt.Render("> ") + b.text)
}
