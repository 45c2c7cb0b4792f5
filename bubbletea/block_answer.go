package bubbletea

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/kaoyan"
	"github.com/fwojciec/kaoyan/goldmark"
)

var _ Block = (*AnswerBlock)(nil)

// AnswerBlock renders streamed answer text as markdown.
// Finalized paragraphs (separated by a blank line) are rendered once per
// width and cached; only the trailing text is re-rendered on each chunk.
type AnswerBlock struct {
	content  strings.Builder
	renderer *goldmark.Renderer

	finalizedRaw     string
	finalizedByWidth map[int]string
}

// NewAnswerBlock creates an empty AnswerBlock.
func NewAnswerBlock(theme kaoyan.Theme) *AnswerBlock {
	return &AnswerBlock{
		renderer:         goldmark.New(theme),
		finalizedByWidth: make(map[int]string),
	}
}

// Append adds answer text.
func (b *AnswerBlock) Append(text string) {
	b.content.WriteString(text)
	b.promoteFinalized()
}

// Text returns the raw accumulated answer.
func (b *AnswerBlock) Text() string { return b.content.String() }

func (b *AnswerBlock) Update(msg tea.Msg) (Block, tea.Cmd) {
	return b, nil
}

func (b *AnswerBlock) View(width int) string {
	finalized := b.renderFinalized(width)
	trailing := b.trailingRaw()
	if hasUnclosedFence(trailing) {
		// Close the fence for display only.
		trailing += "\n```"
	}
	rendered := b.renderer.Render(trailing, width)
	if strings.TrimSpace(rendered) == "" {
		return finalized
	}
	if finalized == "" {
		return rendered
	}
	return strings.TrimRight(finalized, "\n") + "\n\n" + strings.TrimLeft(rendered, "\n")
}

// promoteFinalized moves the finalized boundary to the last blank line that
// is not inside an open code fence.
func (b *AnswerBlock) promoteFinalized() {
	raw := b.content.String()
	for end := len(raw); ; {
		idx := strings.LastIndex(raw[:end], "\n\n")
		if idx <= 0 {
			return
		}
		candidate := raw[:idx]
		if !hasUnclosedFence(candidate) {
			if candidate != b.finalizedRaw {
				b.finalizedRaw = candidate
				clear(b.finalizedByWidth)
			}
			return
		}
		end = idx
	}
}

func (b *AnswerBlock) renderFinalized(width int) string {
	if width <= 0 || b.finalizedRaw == "" {
		return ""
	}
	if cached, ok := b.finalizedByWidth[width]; ok {
		return cached
	}
	rendered := b.renderer.Render(b.finalizedRaw, width)
	b.finalizedByWidth[width] = rendered
	return rendered
}

func (b *AnswerBlock) trailingRaw() string {
	raw := b.content.String()
	if b.finalizedRaw == "" {
		return raw
	}
	return strings.TrimPrefix(raw, b.finalizedRaw+"\n\n")
}

// hasUnclosedFence reports an odd number of "```" in s. Triple backticks
// inside inline code spans are miscounted.
func hasUnclosedFence(s string) bool {
	return strings.Count(s, "```")%2 == 1
}
