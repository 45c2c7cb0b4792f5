package bubbletea

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/kaoyan"
)

var _ Block = (*ErrorBlock)(nil)

// ErrorBlock renders a failed generation.
type ErrorBlock struct {
	err    error
	styles Styles
}

// NewErrorBlock creates an ErrorBlock.
func NewErrorBlock(err error, styles Styles) *ErrorBlock {
	return &ErrorBlock{err: err, styles: styles}
}

func (b *ErrorBlock) Update(msg tea.Msg) (Block, tea.Cmd) {
	return b, nil
}

func (b *ErrorBlock) View(width int) string {
	content := b.styles.Error.Render(fmt.Sprintf("Error: %v", b.err))
	if hint := errorHint(b.err); hint != "" {
		content += "\n" + b.styles.Muted.Render(hint)
	}
	return lipgloss.NewStyle().Width(width).Render(content)
}

func errorHint(err error) string {
	var pe *kaoyan.ProviderError
	switch {
	case errors.Is(err, kaoyan.ErrTimeout):
		return "The provider sent nothing before the deadline. Try again or switch provider."
	case errors.Is(err, kaoyan.ErrConfig):
		return "Check the API key in the config file or environment."
	case errors.As(err, &pe) && (pe.StatusCode == 401 || pe.StatusCode == 403):
		return "The API key was rejected."
	default:
		return ""
	}
}
